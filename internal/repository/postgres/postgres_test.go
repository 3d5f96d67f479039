package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestMapError(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, boom, mapError(boom))
	assert.Nil(t, mapError(nil))

	assert.ErrorIs(t, mapError(&pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation)}), repository.ErrDuplicateEmail)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: pgerrcode.UniqueViolation}), repository.ErrDuplicateEmail)
	assert.ErrorIs(t, mapError(&pq.Error{Code: pq.ErrorCode(pgerrcode.ForeignKeyViolation)}), repository.ErrReferenced)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}), repository.ErrReferenced)
}

func TestStore_WithItemLock(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM items WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectExec(`UPDATE bookings SET status=\$1 WHERE id=\$2`).
			WithArgs("APPROVED", int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithItemLock(ctx, 5, func(ctx context.Context, bookings repository.BookingRepository) error {
			return bookings.UpdateStatus(ctx, 9, domain.BookingStatusApproved)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback on callback error", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM items WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectRollback()

		occupied := domain.NewInvalidArgument("item occupied")
		err := store.WithItemLock(ctx, 5, func(context.Context, repository.BookingRepository) error {
			return occupied
		})
		assert.ErrorIs(t, err, occupied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing item", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM items WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		called := false
		err := store.WithItemLock(ctx, 5, func(context.Context, repository.BookingRepository) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Ann", "ann@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		u := &domain.User{Name: "Ann", Email: "ann@example.com"}
		require.NoError(t, repo.Create(ctx, u))
		assert.Equal(t, int64(1), u.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Create duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Ann", "ANN@example.com").
			WillReturnError(&pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation)})

		err := repo.Create(ctx, &domain.User{Name: "Ann", Email: "ANN@example.com"})
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("GetByEmail", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("Ann@Example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(1, "Ann", "ann@example.com"))

		u, err := repo.GetByEmail(ctx, "Ann@Example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))

		_, err := repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Update missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec("UPDATE users").
			WithArgs("Ann", "ann@example.com", int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &domain.User{ID: 3, Name: "Ann", Email: "ann@example.com"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Delete referenced", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		assert.ErrorIs(t, repo.Delete(ctx, 3), repository.ErrReferenced)
	})
}

func TestItemRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create with request", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewItemRepository(db)
		reqID := int64(4)

		mock.ExpectQuery("INSERT INTO items").
			WithArgs("Drill", "Cordless", true, int64(2), int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

		item := &domain.Item{Name: "Drill", Description: "Cordless", Available: true, OwnerID: 2, RequestID: &reqID}
		require.NoError(t, repo.Create(ctx, item))
		assert.Equal(t, int64(10), item.ID)
	})

	t.Run("Search escapes wildcards", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewItemRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM items\s+WHERE available = TRUE AND \(name ILIKE \$1 OR description ILIKE \$1\)`).
			WithArgs(`%50\%%`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "available", "owner_id", "request_id"}).
				AddRow(1, "Drill", "50% off", true, 2, nil))

		items, err := repo.Search(ctx, "50%")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Nil(t, items[0].RequestID)
	})

	t.Run("ListByRequests", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewItemRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM "items" WHERE \("request_id" IN \(\$1, \$2\)\)`).
			WithArgs(int64(1), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "available", "owner_id", "request_id"}).
				AddRow(1, "Drill", "Cordless", true, 2, 1))

		items, err := repo.ListByRequests(ctx, []int64{1, 2})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].RequestID)
		assert.Equal(t, int64(1), *items[0].RequestID)
	})

	t.Run("ListByRequests empty input", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewItemRepository(db)

		items, err := repo.ListByRequests(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

var bookingCols = []string{
	"id", "start_time", "end_time", "item_id", "booker_id", "status",
	"item_name", "item_description", "item_available", "item_owner_id", "item_request_id",
	"booker_name", "booker_email",
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("Create reloads joined row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(start, end, int64(3), int64(7), "WAITING").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectQuery(`FROM "bookings" AS "b" INNER JOIN "items" AS "i"`).
			WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(11, start, end, 3, 7, "WAITING", "Drill", "Cordless", true, 2, nil, "Bob", "bob@example.com"))

		b := &domain.Booking{StartTime: start, EndTime: end, ItemID: 3, BookerID: 7, Status: domain.BookingStatusWaiting}
		require.NoError(t, repo.Create(ctx, b))
		assert.Equal(t, int64(11), b.ID)
		assert.Equal(t, int64(2), b.Item.OwnerID)
		assert.Equal(t, "Bob", b.Booker.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetByID not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`FROM "bookings"`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(bookingCols))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListByOwner current", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		now := start.Add(time.Hour)

		mock.ExpectQuery(`WHERE \(\("i"."owner_id" = \$1\) AND \("b"."start_time" < \$2\) AND \("b"."end_time" > \$3\)\) ORDER BY "b"."start_time" DESC`).
			WithArgs(int64(2), now, now).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(11, start, end, 3, 7, "APPROVED", "Drill", "Cordless", true, 2, nil, "Bob", "bob@example.com"))

		list, err := repo.ListByOwner(ctx, 2, domain.BookingStateCurrent, now)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.BookingStatusApproved, list[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListByBooker all", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`WHERE \("b"."booker_id" = \$1\) ORDER BY`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(bookingCols))

		list, err := repo.ListByBooker(ctx, 7, domain.BookingStateAll, start)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListActiveByItem", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`"b"."status" IN \(\$2, \$3\)`).
			WithArgs(int64(3), "WAITING", "APPROVED").
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(11, start, end, 3, 7, "WAITING", "Drill", "Cordless", true, 2, nil, "Bob", "bob@example.com"))

		list, err := repo.ListActiveByItem(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("NextForItem none", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`ORDER BY "b"."start_time" ASC`).
			WillReturnRows(sqlmock.NewRows(bookingCols))

		next, err := repo.NextForItem(ctx, 3, start)
		require.NoError(t, err)
		assert.Nil(t, next)
	})
}

func TestItemRequestRepository_ListOthers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRequestRepository(db)
	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM requests WHERE requestor_id <> \$1\s+ORDER BY created DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(1), 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "requestor_id", "created"}).
			AddRow(3, "need a ladder", 2, created))

	reqs, err := repo.ListOthers(context.Background(), 1, 15, 10)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "need a ladder", reqs[0].Description)
}

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Create returns author name", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCommentRepository(db)

		mock.ExpectQuery("INSERT INTO comments").
			WithArgs("Great drill", int64(3), int64(7), created).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Bob"))

		c := &domain.Comment{Text: "Great drill", ItemID: 3, AuthorID: 7, Created: created}
		require.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, int64(1), c.ID)
		assert.Equal(t, "Bob", c.AuthorName)
	})

	t.Run("ListByItem", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCommentRepository(db)

		mock.ExpectQuery(`FROM comments c\s+JOIN users u ON u.id = c.author_id\s+WHERE c.item_id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "text", "item_id", "author_id", "author_name", "created"}).
				AddRow(1, "Great drill", 3, 7, "Bob", created))

		list, err := repo.ListByItem(ctx, 3)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Bob", list[0].AuthorName)
	})
}
