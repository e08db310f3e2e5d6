// Package service holds the business rules for accounts, messages and the
// follow and like relations. Every mutation runs in a single transaction.
package service

import (
	"context"
	"errors"
	"strings"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
	"warbler/internal/session"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store    repository.Store
	sessions *session.Manager
	hashCost int
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) {
		s.hashCost = cost
	}
}

func NewAuthService(store repository.Store, sessions *session.Manager, opts ...AuthOption) *AuthService {
	s := &AuthService{store: store, sessions: sessions, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup hashes the password and creates the user. A taken username or email
// yields a CONFLICT error and nothing is persisted.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "AuthService.Signup",
		attribute.String("username", in.Username))
	defer func() {
		observability.SignupsTotal.WithLabelValues(outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user = &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hashed),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := ensureAvailable(ctx, tx.Users(), 0, user.Username, user.Email); err != nil {
			return err
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when username and password match, and
// (nil, nil) otherwise. Only storage failures produce an error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// Login authenticates and issues a session token. Bad credentials return
// ("", nil, nil).
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	ctx, span := observability.StartSpan(ctx, "service", "AuthService.Login",
		attribute.String("username", username))

	user, err := s.Authenticate(ctx, username, password)
	if err != nil || user == nil {
		label := "failure"
		if err != nil {
			label = "error"
		}
		observability.LoginsTotal.WithLabelValues(label).Inc()
		observability.EndSpan(span, err)
		return "", nil, err
	}

	token, _, err := s.sessions.Issue(user.ID, user.Username)
	if err != nil {
		observability.LoginsTotal.WithLabelValues("error").Inc()
		observability.EndSpan(span, err)
		return "", nil, models.NewInternalError(err)
	}

	observability.LoginsTotal.WithLabelValues("success").Inc()
	observability.EndSpan(span, nil)
	return token, user, nil
}

// Logout revokes token. Tokens that are already invalid are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ensureAvailable rejects a username or email held by a user other than selfID.
func ensureAvailable(ctx context.Context, users repository.UserRepository, selfID uint, username, email string) error {
	byName, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if byName != nil && byName.ID != selfID {
		return models.NewConflictError("Username already taken", nil)
	}

	byEmail, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if byEmail != nil && byEmail.ID != selfID {
		return models.NewConflictError("Email already taken", nil)
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case models.HasCode(err, models.CodeConflict):
		return "conflict"
	case models.HasCode(err, models.CodeValidation):
		return "invalid"
	default:
		return "error"
	}
}
