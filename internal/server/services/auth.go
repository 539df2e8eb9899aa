// Package services contains server-side business logic: AuthService turns
// credentials into a verified user, FileService owns the file hierarchy.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/server/auth"
	"github.com/dmitrijs2005/cloudvault/internal/server/config"
	"github.com/dmitrijs2005/cloudvault/internal/server/models"
	"github.com/dmitrijs2005/cloudvault/internal/server/repositories/repomanager"
)

const (
	maxUsernameLen = 100
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

// AuthService registers users, checks passwords and issues and verifies
// session tokens. Tokens are stateless: logout only clears the client copy,
// a leaked token stays valid until it expires.
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	throttle      *loginThrottle
	log           logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		throttle:      newLoginThrottle(cfg.LoginMaxAttempts, cfg.LoginWindow),
		log:           log.With("module", "auth"),
	}
}

// TokenValidity is the lifetime of issued tokens.
func (s *AuthService) TokenValidity() time.Duration {
	return s.tokenValidity
}

// Register creates a user and returns it with a fresh session token.
// An email already present yields common.ErrDuplicateEmail and no token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if err := validateRegistration(username, email, password); err != nil {
		return nil, "", err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrNotFound):
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{Username: username, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Authenticate checks email and password and returns the user with a fresh
// session token. Unknown email and wrong password are indistinguishable:
// both yield common.ErrInvalidCredentials after a bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)

	if s.throttle.blocked(email) {
		loginAttemptsTotal.WithLabelValues("throttled").Inc()
		return nil, "", common.ErrTooManyAttempts
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, "", fmt.Errorf("lookup user: %w", err)
		}
		_, _ = auth.CheckPassword(s.getDummyHash(), password)
		return nil, "", s.failLogin(email)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		s.log.Error(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, "", s.failLogin(email)
	}
	if !ok {
		return nil, "", s.failLogin(email)
	}

	s.throttle.reset(email)

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	loginAttemptsTotal.WithLabelValues("success").Inc()
	return user, token, nil
}

// Verify resolves a session token to the current user row. Missing,
// malformed, expired or badly signed tokens yield common.ErrUnauthenticated;
// a token for a deleted user yields common.ErrUserNotFound.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// EnsureUser registers an account unless its email is already taken.
func (s *AuthService) EnsureUser(ctx context.Context, username, email, password string) error {
	_, _, err := s.Register(ctx, username, email, password)
	if err != nil && !errors.Is(err, common.ErrDuplicateEmail) {
		return err
	}
	return nil
}

// --- helpers below ---

func (s *AuthService) generateToken(userID int64) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", common.ErrInternal, err)
	}
	return token, nil
}

func (s *AuthService) failLogin(email string) error {
	s.throttle.fail(email)
	loginAttemptsTotal.WithLabelValues("failure").Inc()
	return common.ErrInvalidCredentials
}

func (s *AuthService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("cloudvault-dummy-password")
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(username, email, password string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", common.ErrValidation)
	case len(username) > maxUsernameLen:
		return fmt.Errorf("%w: username is too long", common.ErrValidation)
	case email == "":
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	case len(password) > maxPasswordLen:
		return fmt.Errorf("%w: password is too long", common.ErrValidation)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: email is malformed", common.ErrValidation)
	}
	return nil
}
