package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/hifz-auth/auth"
	"github.com/jrsteele09/hifz-auth/credentials"
	"github.com/jrsteele09/hifz-auth/internal/config"
	"github.com/jrsteele09/hifz-auth/internal/logging"
	"github.com/jrsteele09/hifz-auth/internal/utils"
	"github.com/jrsteele09/hifz-auth/server"
	"github.com/jrsteele09/hifz-auth/storage/sqlite"
	"github.com/jrsteele09/hifz-auth/token"
	"github.com/jrsteele09/hifz-auth/token/refresh"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const revokedTokenCleanupInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logger := logging.New(c.GetEnv(), c.GetLogLevel(), c.GetAppName())
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dir := filepath.Dir(c.GetDatabasePath()); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, c.GetDatabasePath(), sqlite.WithLogger(logger.With().Str("component", "sqlite").Logger()))
	if err != nil {
		return err
	}
	defer store.Close()

	verifier, err := credentials.NewBcryptVerifier(store.Credentials(),
		credentials.WithCost(c.GetBcryptCost()),
		credentials.WithLogger(logger.With().Str("component", "credentials").Logger()),
	)
	if err != nil {
		return err
	}

	tokens, err := newTokenManager(c, store, logger)
	if err != nil {
		return err
	}

	handler, err := server.New(c,
		auth.Repos{Users: store.Users(), Tenants: store.Tenants()},
		verifier,
		tokens,
		server.WithLogger(logger.With().Str("component", "server").Logger()),
		server.WithHealthChecker(store),
	)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(httpServer)
	}()
	go cleanupRevokedTokens(ctx, tokens)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	return shutdown(httpServer)
}

func newTokenManager(c config.Config, store *sqlite.Store, logger zerolog.Logger) (*token.Manager, error) {
	secret := c.GetJWTSecret()
	if secret == "" {
		var err error
		if secret, err = utils.RandomHex(32); err != nil {
			return nil, err
		}
		logger.Warn().Msg("JWT_SECRET is not set, sessions will not survive a restart")
	}

	signer, err := token.NewHMACSigner(secret)
	if err != nil {
		return nil, err
	}
	refreshManager := refresh.NewManager(store.RefreshTokens(), refresh.WithExpiry(c.GetRefreshTokenExpiry()))
	return token.New(signer, refreshManager,
		token.WithIssuer(c.GetIssuer()),
		token.WithAccessTokenExpiry(c.GetAccessTokenExpiry()),
	)
}

func cleanupRevokedTokens(ctx context.Context, tokens *token.Manager) {
	ticker := time.NewTicker(revokedTokenCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tokens.CleanupRevokedTokens()
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
