package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	mail "gopkg.in/mail.v2"

	"go.uber.org/zap"

	"github.com/deskops/service-desk/internal/config"
	"github.com/deskops/service-desk/internal/events"
)

// EmailSender delivers one plain-text message to the IT team address.
type EmailSender interface {
	Send(subject, body string) error
}

// WebhookSender posts one JSON payload to the configured endpoint.
type WebhookSender interface {
	Send(ctx context.Context, payload any) error
}

// NotificationService emits best-effort notifications for request events.
// Both sinks are optional; an unconfigured sink is a silent no-op. A failed
// send is logged and swallowed: the mutation that triggered the event has
// already committed and must not be reported as failed.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	email      EmailSender
	webhook    WebhookSender
}

// NewNotificationService creates the service with SMTP and webhook senders
// built from configuration.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	n := &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
	if cfg.SMTPHost != "" && cfg.ITTeamEmail != "" {
		dialer := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		dialer.Timeout = cfg.Timeout()
		n.email = &smtpSender{dialer: dialer, from: cfg.EmailFrom, to: cfg.ITTeamEmail}
	}
	if cfg.WebhookURL != "" {
		n.webhook = &webhookSender{
			client: &http.Client{Timeout: cfg.Timeout()},
			url:    cfg.WebhookURL,
		}
	}
	return n
}

// NewNotificationServiceWithSenders creates the service with explicit
// senders.
func NewNotificationServiceWithSenders(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, email EmailSender, webhook WebhookSender) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		email:      email,
		webhook:    webhook,
	}
}

// RegisterHandlers subscribes to request events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventRequestResolved, n.handleRequestResolved)
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestCreatedPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("New IT Request: %s - %s", payload.Category, payload.RequesterName)
	body := fmt.Sprintf("New request by %s\nDept: %s\nCategory: %s\nDescription:\n%s\nStatus: %s",
		payload.RequesterName, payload.Department, payload.Category, payload.Description, payload.Status)
	n.sendEmail(event, subject, body)
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestResolvedPayload)
	if !ok {
		return nil
	}
	subject := fmt.Sprintf("IT Request Resolved: %s - %s", payload.Category, payload.RequesterName)
	body := fmt.Sprintf("Request by %s (%s) was resolved.", payload.RequesterName, payload.Category)
	n.sendEmail(event, subject, body)
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) sendEmail(event events.Event, subject, body string) {
	if n.email == nil {
		return
	}
	if err := n.email.Send(subject, body); err != nil {
		n.logger.Warn("email notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) {
	if n.webhook == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout())
	defer cancel()
	if err := n.webhook.Send(ctx, event); err != nil {
		n.logger.Warn("webhook notification failed",
			zap.String("request_id", event.RequestID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

type smtpSender struct {
	dialer *mail.Dialer
	from   string
	to     string
}

func (s *smtpSender) Send(subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", s.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return s.dialer.DialAndSend(msg)
}

type webhookSender struct {
	client *http.Client
	url    string
}

func (w *webhookSender) Send(ctx context.Context, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
