// Package credentials keeps local accounts in the key-value store: one
// record per email holding a bcrypt hash, plus the email of the signed-in
// user.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shoplist/internal/core"
	applog "shoplist/internal/log"
	"shoplist/internal/storage"
)

var (
	ErrEmptyField       = fmt.Errorf("%w: please fill in all fields", core.ErrInvalidInput)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", core.ErrInvalidInput)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email address", core.ErrInvalidInput)
	ErrPasswordTooLong  = fmt.Errorf("%w: password longer than %d bytes", core.ErrInvalidInput, maxPasswordBytes)
	ErrBadCredentials   = fmt.Errorf("%w: invalid email or password", core.ErrUnauthorized)
	ErrNotSignedIn      = fmt.Errorf("%w: not signed in", core.ErrUnauthorized)
)

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

// Account is the persisted record. The password is never stored in clear.
type Account struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Store struct {
	mu     sync.Mutex
	store  storage.Store
	logger *slog.Logger
	cost   int
	now    func() time.Time
}

type Option func(*Store)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

func NewStore(store storage.Store, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{store: store, logger: logger, cost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. All three fields are required and the
// confirmation must match.
func (s *Store) Register(ctx context.Context, email, password, confirm string) (Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || confirm == "" {
		return Account{}, ErrEmptyField
	}
	if password != confirm {
		return Account{}, ErrPasswordMismatch
	}
	if len(password) > maxPasswordBytes {
		return Account{}, ErrPasswordTooLong
	}
	// Display-name forms like "Bob <bob@example.com>" parse but are not keys
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Account{}, ErrInvalidEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := storage.CredentialKey(email)
	_, found, err := s.store.Get(ctx, key)
	if err != nil {
		return Account{}, fmt.Errorf("lookup account: %w", err)
	}
	if found {
		return Account{}, fmt.Errorf("account %s: %w", email, core.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}
	acc := Account{Email: email, PasswordHash: string(hash), CreatedAt: s.now().UTC()}
	if err := storage.SetJSON(ctx, s.store, key, acc); err != nil {
		return Account{}, fmt.Errorf("save account: %w", err)
	}

	s.logger.InfoContext(ctx, "Account registered", applog.FieldEmail, email)
	return acc, nil
}

// Authenticate checks email and password without starting a session.
func (s *Store) Authenticate(ctx context.Context, email, password string) (Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Account{}, ErrEmptyField
	}

	var acc Account
	found, err := storage.GetJSON(ctx, s.store, storage.CredentialKey(email), &acc)
	if err != nil {
		return Account{}, fmt.Errorf("load account: %w", err)
	}
	if !found {
		return Account{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.WarnContext(ctx, "Stored password hash is unusable",
				applog.FieldEmail, email,
				applog.FieldErrorType, applog.ErrorTypeAuth,
				applog.FieldError, err)
		}
		return Account{}, ErrBadCredentials
	}
	return acc, nil
}

// Login authenticates and records the session.
func (s *Store) Login(ctx context.Context, email, password string) (Account, error) {
	acc, err := s.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.InfoContext(ctx, "Login rejected",
			applog.FieldEmail, normalizeEmail(email),
			applog.FieldOperation, applog.OpLogin)
		return Account{}, err
	}
	if err := s.store.Set(ctx, storage.LoggedInEmailKey, []byte(acc.Email)); err != nil {
		return Account{}, fmt.Errorf("save session: %w", err)
	}
	s.logger.InfoContext(ctx, "Logged in", applog.FieldEmail, acc.Email)
	return acc, nil
}

// Logout clears the session. Logging out twice is not an error.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.LoggedInEmailKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in email or ErrNotSignedIn.
func (s *Store) CurrentUser(ctx context.Context) (string, error) {
	raw, found, err := s.store.Get(ctx, storage.LoggedInEmailKey)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	email := strings.TrimSpace(string(raw))
	if !found || email == "" {
		return "", ErrNotSignedIn
	}
	return email, nil
}
