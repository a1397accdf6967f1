package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/stockflow/internal/config"
	"github.com/andresuchdata/stockflow/internal/repository"
)

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

// NewDB connects through lib/pq using the keyword DSN of cfg.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return wrap(db, cfg.MaxConcurrentTx), nil
}

// NewDBFromURL connects through the pgx stdlib driver, used by the CLI where
// a single DATABASE_URL is the norm.
func NewDBFromURL(ctx context.Context, url string) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return wrap(db, 0), nil
}

func wrap(db *sqlx.DB, maxTx int64) *DB {
	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if maxTx <= 0 {
		maxTx = 10
	}
	return &DB{
		DB:  db,
		sem: semaphore.NewWeighted(maxTx),
	}
}

// WithTx executes a function within a transaction
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
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// NewStore wires the three postgres repositories over db.
func NewStore(db *DB) *repository.Store {
	return &repository.Store{
		Materials:     NewMaterialRepository(db),
		ClothingTypes: NewClothingTypeRepository(db),
		Orders:        NewOrderRepository(db),
	}
}
