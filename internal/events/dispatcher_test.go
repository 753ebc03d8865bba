package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []Event
	dispatcher.Subscribe(EventRequestCreated, func(_ context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "evt-1", Type: EventRequestCreated, RequestID: "req-1"})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "req-1", seen[0].RequestID)
}

func TestDispatcher_OnlyMatchingTypeReceives(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	created := 0
	resolved := 0
	dispatcher.Subscribe(EventRequestCreated, func(context.Context, Event) error { created++; return nil })
	dispatcher.Subscribe(EventRequestResolved, func(context.Context, Event) error { resolved++; return nil })

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventRequestResolved}))
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, resolved)
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	second := false
	dispatcher.Subscribe(EventRequestCreated, func(context.Context, Event) error { return errors.New("boom") })
	dispatcher.Subscribe(EventRequestCreated, func(context.Context, Event) error { second = true; return nil })

	err := dispatcher.Publish(context.Background(), Event{Type: EventRequestCreated})
	require.NoError(t, err)
	assert.True(t, second)
}

func TestDispatcher_NoSubscribersIsFine(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventRequestCreated}))
}
