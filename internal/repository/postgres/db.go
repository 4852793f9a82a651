package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/ordersight/backend-go/internal/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// The pool is shared between the ingestion pipeline and the reporting path;
// the semaphore keeps a bulk import from starving concurrent reads.
const (
	maxOpenConns        = 25
	maxIdleConns        = 5
	maxConcurrentDBOps  = 10
	defaultQueryTimeout = 2 * time.Minute
)

type DB struct {
	*sqlx.DB
	sem          *semaphore.Weighted
	queryTimeout time.Duration
}

var (
	dbInstance *DB
	once       sync.Once
)

// NewDB creates the shared database connection pool.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	once.Do(func() {
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", connStr)
		if err != nil {
			return
		}

		dbInstance = wrap(db, cfg.QueryTimeoutSeconds)
	})

	return dbInstance, err
}

// NewDBFromURL opens a standalone pool from a connection URL via the pgx
// stdlib driver. Used by the importer CLI, which owns its own lifecycle and
// must not share the server singleton.
func NewDBFromURL(url string, queryTimeoutSeconds int) (*DB, error) {
	db, err := sqlx.Connect("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return wrap(db, queryTimeoutSeconds), nil
}

func wrap(db *sqlx.DB, queryTimeoutSeconds int) *DB {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{
		DB:           db,
		sem:          semaphore.NewWeighted(maxConcurrentDBOps),
		queryTimeout: queryTimeoutDuration(queryTimeoutSeconds),
	}
}

func queryTimeoutDuration(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultQueryTimeout
	}
	return time.Duration(seconds) * time.Second
}

// QueryTimeout derives a context bounded by the pool's per-statement timeout.
// Repositories wrap each statement with it so a hung connection fails the one
// operation instead of stalling its caller indefinitely.
func (db *DB) QueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.queryTimeout)
}

// WithTx executes a function within a transaction. The semaphore slot and the
// transaction's connection are released on every path.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// WithTxRetry runs fn in a transaction and retries exactly once when the
// failure looks like a dropped connection rather than a statement error.
func (db *DB) WithTxRetry(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	err := db.WithTx(ctx, fn)
	if err != nil && isTransient(err) {
		log.Warn().Err(err).Msg("transient database error, retrying once")
		return db.WithTx(ctx, fn)
	}
	return err
}

// isTransient reports whether an error is a connection-level failure worth a
// single retry, as opposed to a statement or constraint error.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"connection reset",
		"connection refused",
		"broken pipe",
		"unexpected eof",
		"i/o timeout",
		"server closed the connection",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
