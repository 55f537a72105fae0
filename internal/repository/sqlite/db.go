package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"treelink/internal/domain/repositories"
	"treelink/internal/migrations"
)

// Open opens (creating if needed) the database file at path with foreign
// keys enforced
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	return db, nil
}

// RunMigrations applies the embedded SQLite migrations
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return migrations.Up(ctx, sqlDB, migrations.DriverSQLite)
}

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

type txContextKey string

const txKey txContextKey = "gorm_tx"

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// conn returns the transaction stored in ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *gorm.DB) repositories.TransactionManager {
	return &TransactionManager{db: db}
}

// ExecTx executes a function within a transaction. A nested call joins the
// transaction already in ctx.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}

func isUniqueViolation(err error) bool {
	return err != nil && (errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed"))
}

func isForeignKeyViolation(err error) bool {
	return err != nil && (errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(err.Error(), "FOREIGN KEY constraint failed"))
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
