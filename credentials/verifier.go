package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/hifz-auth/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Verification is the proof that a password matched a login handle.
type Verification struct {
	LoginHandle string
	VerifiedAt  time.Time
}

// Verifier is the password-verification primitive. It only ever sees the
// canonical login handle, never the identifier a person typed.
type Verifier interface {
	Verify(ctx context.Context, loginHandle, password string) (*Verification, error)
}

// BcryptVerifier checks passwords against bcrypt hashes held in a Store.
type BcryptVerifier struct {
	store     Store
	cost      int
	dummyHash string // compared against when the handle has no record
	nowFunc   func() time.Time
	logger    zerolog.Logger
}

var _ Verifier = (*BcryptVerifier)(nil)

type VerifierOption func(*BcryptVerifier)

// WithCost sets the bcrypt cost used for new hashes
func WithCost(cost int) VerifierOption {
	return func(v *BcryptVerifier) {
		v.cost = cost
	}
}

func WithNowFunc(now func() time.Time) VerifierOption {
	return func(v *BcryptVerifier) {
		v.nowFunc = now
	}
}

func WithLogger(logger zerolog.Logger) VerifierOption {
	return func(v *BcryptVerifier) {
		v.logger = logger
	}
}

func NewBcryptVerifier(store Store, options ...VerifierOption) (*BcryptVerifier, error) {
	if store == nil {
		return nil, errors.New("[NewBcryptVerifier] credential store is required")
	}
	v := &BcryptVerifier{
		store:   store,
		cost:    bcrypt.DefaultCost,
		nowFunc: time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(v)
	}

	filler, err := utils.RandomHex(16)
	if err != nil {
		return nil, fmt.Errorf("[NewBcryptVerifier] %w", err)
	}
	dummy, err := HashPassword(filler, v.cost)
	if err != nil {
		return nil, fmt.Errorf("[NewBcryptVerifier] dummy hash: %w", err)
	}
	v.dummyHash = dummy
	return v, nil
}

// Verify returns ErrInvalidCredentials for an unknown handle and for a wrong
// password alike. Any other error comes from the store.
func (v *BcryptVerifier) Verify(ctx context.Context, loginHandle, password string) (*Verification, error) {
	record, err := v.store.GetCredential(ctx, loginHandle)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Keep the timing of an unknown handle close to a wrong password
			CheckPasswordHash(password, v.dummyHash)
			v.logger.Debug().Msg("no credential on record for login handle")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("[BcryptVerifier.Verify] store.GetCredential: %w", err)
	}

	if !CheckPasswordHash(password, record.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &Verification{
		LoginHandle: loginHandle,
		VerifiedAt:  v.nowFunc(),
	}, nil
}

// SetPassword validates, hashes and stores a new password for loginHandle.
func (v *BcryptVerifier) SetPassword(ctx context.Context, loginHandle, password string) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := HashPassword(password, v.cost)
	if err != nil {
		return fmt.Errorf("[BcryptVerifier.SetPassword] HashPassword: %w", err)
	}
	if err := v.store.SetCredential(ctx, loginHandle, hash); err != nil {
		return fmt.Errorf("[BcryptVerifier.SetPassword] store.SetCredential: %w", err)
	}
	return nil
}
