package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	CorsConfig
	AuthConfig
	BootstrapConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetDatabasePath() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Auth
	Bootstrap
}

var _ Config = mainConfig{}

// New reads the configuration from the process environment.
func New() (Config, error) {
	return parse(env.Options{})
}

// NewFromMap reads the configuration from environment instead of the process
// environment. Unset keys take their defaults.
func NewFromMap(environment map[string]string) (Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg mainConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("[config.New] parse env: %w", err)
	}
	if err := cfg.Auth.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
