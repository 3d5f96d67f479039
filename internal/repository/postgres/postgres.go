package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

const dialectPostgres = "postgres"

// dbtx is satisfied by both *sqlx.DB and *sqlx.Tx.
type dbtx interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type Store struct {
	db *sqlx.DB
	repository.UserRepository
	repository.ItemRepository
	repository.BookingRepository
	repository.ItemRequestRepository
	repository.CommentRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		ItemRepository:        NewItemRepository(db),
		BookingRepository:     NewBookingRepository(db),
		ItemRequestRepository: NewItemRequestRepository(db),
		CommentRepository:     NewCommentRepository(db),
	}
}

// Open connects with the given database/sql driver ("postgres" for lib/pq, "pgx" for pgx).
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithItemLock runs fn in a transaction that holds a row lock on the item, so
// concurrent booking attempts for one item are serialized.
func (s *Store) WithItemLock(ctx context.Context, itemID int64, fn func(ctx context.Context, bookings repository.BookingRepository) error) (err error) {
	logger.DatabaseCall("BEGIN", "items FOR UPDATE", "itemID", itemID)
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("Failed to roll back booking transaction", "itemID", itemID, "error", rbErr)
			}
		}
	}()

	var lockedID int64
	if err = tx.GetContext(ctx, &lockedID, `SELECT id FROM items WHERE id = $1 FOR UPDATE`, itemID); err != nil {
		return mapError(err)
	}

	if err = fn(ctx, NewBookingRepository(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.DatabaseResult("COMMIT", 0, err, "itemID", itemID)
		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}
	logger.DatabaseResult("COMMIT", 1, nil, "itemID", itemID)
	return nil
}

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// mapError converts driver errors into repository sentinels. Both lib/pq and
// pgx error types are recognised.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	switch sqlState(err) {
	case pgerrcode.UniqueViolation:
		return errors.Join(repository.ErrDuplicateEmail, err)
	case pgerrcode.ForeignKeyViolation:
		return errors.Join(repository.ErrReferenced, err)
	}
	return err
}

func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
