package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/server/auth"
	"github.com/dmitrijs2005/cloudvault/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, rm *fakeRepoManager, mutate ...func(*config.Config)) *AuthService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:        "k",
		TokenValidity:    time.Hour,
		LoginMaxAttempts: 3,
		LoginWindow:      time.Minute,
	}
	for _, fn := range mutate {
		fn(cfg)
	}
	return NewAuthService(nil, rm, cfg, logging.Nop())
}

func TestRegister_Success(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm)

	u, token, err := s.Register(context.Background(), " alice ", " Alice@Example.COM ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "pw", u.PasswordHash)
	assert.NotEmpty(t, token)

	id, err := auth.GetUserIDFromToken(token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm)
	ctx := context.Background()

	_, _, err := s.Register(ctx, "a", "a@example.com", "pw")
	require.NoError(t, err)

	u, token, err := s.Register(ctx, "b", "A@example.com", "other")
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.Nil(t, u)
	assert.Empty(t, token)
	assert.Equal(t, 1, rm.u.count())
}

func TestRegister_DuplicateAtInsert(t *testing.T) {
	rm := newFakeRepoManager()
	rm.u.createErr = common.ErrDuplicateEmail
	s := newAuthService(t, rm)

	_, token, err := s.Register(context.Background(), "a", "a@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.Empty(t, token)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name                      string
		username, email, password string
	}{
		{"no username", "  ", "a@example.com", "pw"},
		{"no email", "a", "", "pw"},
		{"no password", "a", "a@example.com", ""},
		{"malformed email", "a", "not-an-email", "pw"},
		{"display name in email", "a", "Bob <b@example.com>", "pw"},
		{"password too long", "a", "a@example.com", string(make([]byte, 73))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := newFakeRepoManager()
			s := newAuthService(t, rm)

			_, _, err := s.Register(context.Background(), tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Zero(t, rm.u.count())
		})
	}
}

func TestRegister_RepoError(t *testing.T) {
	rm := newFakeRepoManager()
	rm.u.getErr = errors.New("db down")
	s := newAuthService(t, rm)

	_, _, err := s.Register(context.Background(), "a", "a@example.com", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestAuthenticate(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm)
	ctx := context.Background()

	reg, _, err := s.Register(ctx, "alice", "alice@example.com", "secret")
	require.NoError(t, err)

	u, token, err := s.Authenticate(ctx, "ALICE@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.NotEmpty(t, token)

	_, _, err = s.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, _, err = s.Authenticate(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuthenticate_Throttle(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm)
	ctx := context.Background()

	_, _, err := s.Register(ctx, "alice", "alice@example.com", "secret")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err = s.Authenticate(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, common.ErrInvalidCredentials)
	}

	_, _, err = s.Authenticate(ctx, "alice@example.com", "secret")
	assert.ErrorIs(t, err, common.ErrTooManyAttempts)

	_, _, err = s.Authenticate(ctx, "bob@example.com", "x")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials, "other emails are unaffected")
}

func TestAuthenticate_SuccessResetsThrottle(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm)
	ctx := context.Background()

	_, _, err := s.Register(ctx, "alice", "alice@example.com", "secret")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, _ = s.Authenticate(ctx, "alice@example.com", "wrong")
	}
	_, _, err = s.Authenticate(ctx, "alice@example.com", "secret")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err = s.Authenticate(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	}
}

func TestAuthenticate_ThrottleDisabled(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm, func(c *config.Config) { c.LoginMaxAttempts = 0 })
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _, err := s.Authenticate(ctx, "x@example.com", "wrong")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	}
}

func TestVerify(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm)
	ctx := context.Background()

	u, token, err := s.Register(ctx, "alice", "alice@example.com", "secret")
	require.NoError(t, err)

	got, err := s.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	rm.u.byID[u.ID].Username = "alice2"
	got, err = s.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username, "verify returns the current row")
}

func TestVerify_Rejections(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm)
	ctx := context.Background()

	_, err := s.Verify(ctx, "")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	_, err = s.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	expired, err := auth.GenerateToken(1, []byte("k"), -time.Minute)
	require.NoError(t, err)
	_, err = s.Verify(ctx, expired)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	foreign, err := auth.GenerateToken(1, []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	_, err = s.Verify(ctx, foreign)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	ghost, err := auth.GenerateToken(999, []byte("k"), time.Hour)
	require.NoError(t, err)
	_, err = s.Verify(ctx, ghost)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestEnsureUser_Idempotent(t *testing.T) {
	rm := newFakeRepoManager()
	s := newAuthService(t, rm)
	ctx := context.Background()

	require.NoError(t, s.EnsureUser(ctx, "demo", "demo@example.com", "demo"))
	require.NoError(t, s.EnsureUser(ctx, "demo", "demo@example.com", "demo"))
	assert.Equal(t, 1, rm.u.count())

	assert.ErrorIs(t, s.EnsureUser(ctx, "", "demo@example.com", "demo"), common.ErrValidation)
}

func TestTokenValidity(t *testing.T) {
	s := newAuthService(t, newFakeRepoManager())
	assert.Equal(t, time.Hour, s.TokenValidity())
}
