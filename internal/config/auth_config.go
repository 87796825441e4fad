package config

import (
	"errors"
	"time"
)

type AuthConfig interface {
	GetJWTSecret() string
	GetIssuer() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetBackendTimeout() time.Duration
	GetBcryptCost() int
}

type Auth struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	Issuer             string        `env:"JWT_ISSUER" envDefault:"hifz-auth"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`
	BackendTimeout     time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	BcryptCost         int           `env:"BCRYPT_COST" envDefault:"12"`
}

var _ AuthConfig = Auth{}

func (a Auth) validate() error {
	if a.JWTSecret != "" && len(a.JWTSecret) < 32 {
		return errors.New("[config.Auth] JWT_SECRET must be at least 32 bytes")
	}
	if a.AccessTokenExpiry <= 0 || a.RefreshTokenExpiry <= 0 {
		return errors.New("[config.Auth] token expiries must be positive")
	}
	if a.BackendTimeout <= 0 {
		return errors.New("[config.Auth] BACKEND_TIMEOUT must be positive")
	}
	return nil
}

// GetJWTSecret returns the signing secret. Empty means one is generated at startup.
func (a Auth) GetJWTSecret() string {
	return a.JWTSecret
}

func (a Auth) GetIssuer() string {
	return a.Issuer
}

func (a Auth) GetAccessTokenExpiry() time.Duration {
	return a.AccessTokenExpiry
}

func (a Auth) GetRefreshTokenExpiry() time.Duration {
	return a.RefreshTokenExpiry
}

func (a Auth) GetBackendTimeout() time.Duration {
	return a.BackendTimeout
}

func (a Auth) GetBcryptCost() int {
	return a.BcryptCost
}
