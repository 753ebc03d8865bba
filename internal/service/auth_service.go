package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deskops/service-desk/internal/auth"
	"github.com/deskops/service-desk/internal/config"
	"github.com/deskops/service-desk/internal/domain"
	"github.com/deskops/service-desk/internal/repository"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

// AuthService handles registration, login and profile management for the
// identity collaborator.
type AuthService struct {
	cfg      config.Config
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tokens   *auth.TokenManager
}

// AuthDependencies bundles repositories for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository
}

// RegisterInput describes a new account payload.
type RegisterInput struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Department string
	Password   string
	IsStaff    bool
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		cfg:      cfg,
		users:    deps.UserRepo,
		profiles: deps.ProfileRepo,
		tokens:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates a user account and provisions its profile in the same
// workflow. Only staff may register accounts.
func (s *AuthService) Register(ctx context.Context, caller *domain.User, input RegisterInput) (*domain.User, error) {
	if err := auth.Authorize(caller, auth.ActionRegisterUsers); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if strings.TrimSpace(input.Username) == "" {
		fields["username"] = "username is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "email is required"
	}
	if len(input.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", fields)
	}

	hashed, err := auth.HashPassword(input.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hashed,
		IsStaff:      input.IsStaff,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// Profile provisioning is an explicit step of registration, not a hook.
	profile := &domain.Profile{
		UserID:     user.ID,
		Department: strings.TrimSpace(input.Department),
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.IsStaff)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

// Profile returns the caller's profile. A caller without a profile row gets
// an empty profile rather than an error.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Profile{UserID: userID}, nil
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile sets the caller's department.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, department string) (*domain.Profile, error) {
	profile := &domain.Profile{
		UserID:     userID,
		Department: strings.TrimSpace(department),
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
