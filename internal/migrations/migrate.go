package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationsFS embed.FS

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// goose keeps dialect, base FS and logger in package globals
var (
	gooseMu     sync.Mutex
	gooseLogger goose.Logger = goose.NopLogger()
)

// slogAdapter sends goose progress lines to a slog.Logger
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Printf(format string, v ...interface{}) {
	a.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (a slogAdapter) Fatalf(format string, v ...interface{}) {
	a.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
	os.Exit(1)
}

// SetLogger routes migration progress to logger. nil silences it, which is
// also the default.
func SetLogger(logger *slog.Logger) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if logger == nil {
		gooseLogger = goose.NopLogger()
		return
	}
	gooseLogger = slogAdapter{logger: logger}
}

func prepare(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		if err := goose.SetDialect("postgres"); err != nil {
			return "", err
		}
		goose.SetBaseFS(migrationsFS)
		return "postgres", nil
	case DriverSQLite:
		if err := goose.SetDialect("sqlite3"); err != nil {
			return "", err
		}
		goose.SetBaseFS(migrationsFS)
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func run(ctx context.Context, db *sql.DB, driver string, fn func(ctx context.Context, db *sql.DB, dir string) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := prepare(driver)
	if err != nil {
		return err
	}
	goose.SetLogger(gooseLogger)
	return fn(ctx, db, dir)
}

// Up applies all pending migrations
func Up(ctx context.Context, db *sql.DB, driver string) error {
	return run(ctx, db, driver, func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	})
}

// Down rolls back the latest migration
func Down(ctx context.Context, db *sql.DB, driver string) error {
	return run(ctx, db, driver, func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.DownContext(ctx, db, dir)
	})
}

// Status logs the state of every migration
func Status(ctx context.Context, db *sql.DB, driver string) error {
	return run(ctx, db, driver, func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.StatusContext(ctx, db, dir)
	})
}

// Reset rolls back every applied migration
func Reset(ctx context.Context, db *sql.DB, driver string) error {
	return run(ctx, db, driver, func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.ResetContext(ctx, db, dir)
	})
}

// Version returns the current schema version
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	var version int64
	err := run(ctx, db, driver, func(ctx context.Context, db *sql.DB, _ string) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		version = v
		return err
	})
	return version, err
}
