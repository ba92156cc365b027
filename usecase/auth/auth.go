package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cybertodo/backend/domain"
	"github.com/cybertodo/backend/pkg/password"
	"github.com/cybertodo/backend/repository"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 80
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit
)

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   *password.Hasher
	tokens   *TokenManager
	ttl      time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, hasher *password.Hasher, tokens *TokenManager, ttl time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
	}
}

// Register creates a new account. The plaintext password is digested
// once and never stored.
func (uc *UseCase) Register(ctx context.Context, username, email, plaintext string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username must be 3-80 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid email address")
	}
	if len(plaintext) < minPasswordLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "password must be at least 6 characters")
	}
	if len(plaintext) > maxPasswordLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "password must be at most 72 characters")
	}

	digest, err := uc.hasher.Hash(plaintext)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: digest,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and opens a session. every failure mode
// collapses to ErrInvalidCredentials so callers cannot probe for
// registered usernames.
func (uc *UseCase) Login(ctx context.Context, username, plaintext string) (*domain.User, string, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !uc.hasher.Verify(user.PasswordHash, plaintext) {
		return nil, "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := uc.tokens.Issue(session)
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("session opened", zap.String("user_id", user.ID))
	return user, token, nil
}

// Resolve maps a signed token back to a live session.
func (uc *UseCase) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	sid, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sid)
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// Logout revokes the session behind the given token. Invalid tokens are
// a no-op: logout is idempotent.
func (uc *UseCase) Logout(ctx context.Context, token string) error {
	sid, err := uc.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return uc.sessions.Delete(ctx, sid)
}
