package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	Port         string `env:"PORT" envDefault:"8080"`
	AppName      string `env:"APP_NAME" envDefault:"Hifz Auth"`
	Env          string `env:"ENV" envDefault:"DEV"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/hifz.db"`
}

var _ EnvConfig = EnvVars{}

// GetPort returns the listen address, e.g. ":8080"
func (e EnvVars) GetPort() string {
	port := strings.TrimSpace(e.Port)
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetDatabasePath() string {
	return e.DatabasePath
}

// IsDev reports whether the service runs in a development environment
func IsDev(cfg EnvConfig) bool {
	return cfg.GetEnv() == "DEV"
}
