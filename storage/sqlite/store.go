package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/hifz-auth/internal/errors"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store owns the database handle. The repositories it hands out share it.
type Store struct {
	db      *sql.DB
	logger  zerolog.Logger
	nowFunc func() time.Time
}

// Option defines a function type to modify the Store instance.
type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithNowFunc sets the clock used for created/updated columns
func WithNowFunc(now func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = now
	}
}

// Open opens (creating if needed) the database at path and migrates it to
// the latest schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, options ...Option) (*Store, error) {
	s := &Store{
		logger:  zerolog.Nop(),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[sqlite.Open] open %s", path)
	}
	// SQLite allows a single writer, and an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrapf(err, "[sqlite.Open] ping %s", path)
	}

	s.db = db
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: s.logger})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return apperrors.Wrapf(err, "[Store.migrate] set dialect")
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return apperrors.Wrapf(err, "[Store.migrate] up")
	}

	version, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return apperrors.Wrapf(err, "[Store.migrate] version")
	}
	s.logger.Debug().Int64("version", version).Msg("database schema up to date")
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() *UserRepo {
	return &UserRepo{store: s}
}

func (s *Store) Tenants() *TenantRepo {
	return &TenantRepo{store: s}
}

func (s *Store) Credentials() *CredentialStore {
	return &CredentialStore{store: s}
}

func (s *Store) RefreshTokens() *RefreshTokenRepo {
	return &RefreshTokenRepo{store: s}
}

// gooseLogger routes migration output through zerolog
type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), v...)
}

func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on column.
func isUniqueViolation(err error, column string) bool {
	var sqliteErr *moderncsqlite.Error
	if !apperrors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code != sqlite3.SQLITE_CONSTRAINT_UNIQUE && code != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return false
	}
	return column == "" || strings.Contains(sqliteErr.Error(), column)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
