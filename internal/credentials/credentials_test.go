package credentials

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shoplist/internal/core"
	"shoplist/internal/storage"
	"shoplist/internal/storage/memory"
)

func newStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	backing := memory.New()
	return NewStore(backing, nil, WithCost(bcrypt.MinCost)), backing
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	s, backing := newStore(t)

	tests := []struct {
		name                     string
		email, password, confirm string
		want                     error
	}{
		{"empty email", "", "pw", "pw", ErrEmptyField},
		{"empty password", "a@b.c", "", "pw", ErrEmptyField},
		{"empty confirm", "a@b.c", "pw", "", ErrEmptyField},
		{"mismatch", "a@b.c", "pw", "px", ErrPasswordMismatch},
		{"bad email", "not-an-email", "pw", "pw", ErrInvalidEmail},
		{"display name", "Bob <bob@example.com>", "pw", "pw", ErrInvalidEmail},
		{"password too long", "a@b.c", strings.Repeat("p", 73), strings.Repeat("p", 73), ErrPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.email, tt.password, tt.confirm)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, backing.Len())
}

func TestRegisterHashesPassword(t *testing.T) {
	ctx := context.Background()
	s, backing := newStore(t)

	acc, err := s.Register(ctx, " Ann@Example.com ", "secret", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", acc.Email)

	raw, found, err := backing.Get(ctx, storage.CredentialKey("ann@example.com"))
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, strings.Contains(string(raw), "secret"))

	_, err = s.Register(ctx, "ANN@example.com", "other", "other")
	require.ErrorIs(t, err, core.ErrDuplicate)
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	_, err := s.Register(ctx, "ann@example.com", "secret", "secret")
	require.NoError(t, err)

	_, err = s.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrNotSignedIn)

	_, err = s.Login(ctx, "ann@example.com", "wrong")
	require.ErrorIs(t, err, core.ErrUnauthorized)
	_, err = s.Login(ctx, "bob@example.com", "secret")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.Login(ctx, "", "")
	require.ErrorIs(t, err, ErrEmptyField)

	acc, err := s.Login(ctx, "Ann@Example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", acc.Email)

	who, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", who)

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Logout(ctx))
	_, err = s.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrNotSignedIn)
}

func TestAuthenticateStoreFailure(t *testing.T) {
	ctx := context.Background()
	s, backing := newStore(t)
	backing.FailWith(core.ErrStoreUnavailable)

	_, err := s.Authenticate(ctx, "ann@example.com", "secret")
	require.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestRegisterStoresBareAddress(t *testing.T) {
	ctx := context.Background()
	s, backing := newStore(t)

	_, err := s.Register(ctx, "Bob <bob@example.com>", "secret", "secret")
	require.ErrorIs(t, err, ErrInvalidEmail)
	keys, err := backing.Keys(ctx, storage.CredentialPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = s.Register(ctx, "bob@example.com", "secret", "secret")
	require.NoError(t, err)
	keys, err = backing.Keys(ctx, storage.CredentialPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"credential:bob@example.com"}, keys)

	_, err = s.Login(ctx, "bob@example.com", "secret")
	require.NoError(t, err)
}

func TestRegisterAcceptsMaxLengthPassword(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	pw := strings.Repeat("p", 72)

	_, err := s.Register(ctx, "ann@example.com", pw, pw)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, "ann@example.com", pw)
	require.NoError(t, err)
}
