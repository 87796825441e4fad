package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/hifz-auth/auth"
	"github.com/jrsteele09/hifz-auth/credentials"
	"github.com/jrsteele09/hifz-auth/internal/config"
	"github.com/jrsteele09/hifz-auth/token"
	"github.com/rs/zerolog"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Service
	repos    auth.Repos
	verifier *credentials.BcryptVerifier
	health   HealthChecker
	logger   zerolog.Logger
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHealthChecker makes /health report the state of a dependency, usually the database
func WithHealthChecker(h HealthChecker) Option {
	return func(s *Server) {
		s.health = h
	}
}

func New(config config.Config, repos auth.Repos, verifier *credentials.BcryptVerifier, tokens *token.Manager, options ...Option) (*Server, error) {
	if verifier == nil {
		return nil, errors.New("[Server New] credential verifier is required")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		repos:    repos,
		verifier: verifier,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}

	authService, err := auth.NewService(repos, verifier, tokens,
		auth.WithBackendTimeout(config.GetBackendTimeout()),
		auth.WithLogger(s.logger.With().Str("component", "auth").Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}
	s.auth = authService

	// Bootstrap: ensure the default center and the super admin exist
	if err := s.InitialiseSystem(context.Background()); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// Auth exposes the sign in service, e.g. for an in-process client controller
func (s *Server) Auth() *auth.Service {
	return s.auth
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	s.logger.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}
