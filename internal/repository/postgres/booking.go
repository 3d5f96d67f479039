package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

const (
	colStartTime = "b.start_time"
	colEndTime   = "b.end_time"
	colStatus    = "b.status"
	colID        = "b.id"
)

// bookingRow is the flat shape of the bookings/items/users join.
type bookingRow struct {
	ID              int64     `db:"id"`
	StartTime       time.Time `db:"start_time"`
	EndTime         time.Time `db:"end_time"`
	ItemID          int64     `db:"item_id"`
	BookerID        int64     `db:"booker_id"`
	Status          string    `db:"status"`
	ItemName        string    `db:"item_name"`
	ItemDescription string    `db:"item_description"`
	ItemAvailable   bool      `db:"item_available"`
	ItemOwnerID     int64     `db:"item_owner_id"`
	ItemRequestID   *int64    `db:"item_request_id"`
	BookerName      string    `db:"booker_name"`
	BookerEmail     string    `db:"booker_email"`
}

func (row bookingRow) toDomain() domain.Booking {
	return domain.Booking{
		ID:        row.ID,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		ItemID:    row.ItemID,
		BookerID:  row.BookerID,
		Status:    domain.BookingStatus(row.Status),
		Item: domain.Item{
			ID:          row.ItemID,
			Name:        row.ItemName,
			Description: row.ItemDescription,
			Available:   row.ItemAvailable,
			OwnerID:     row.ItemOwnerID,
			RequestID:   row.ItemRequestID,
		},
		Booker: domain.User{
			ID:    row.BookerID,
			Name:  row.BookerName,
			Email: row.BookerEmail,
		},
	}
}

type bookingRepository struct {
	db dbtx
}

func NewBookingRepository(db dbtx) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (start_time, end_time, item_id, booker_id, status)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	logger.DatabaseCall("INSERT", "bookings", "itemID", b.ItemID, "bookerID", b.BookerID)
	err := r.db.QueryRowxContext(ctx, query, b.StartTime, b.EndTime, b.ItemID, b.BookerID, string(b.Status)).Scan(&b.ID)
	logger.DatabaseResult("INSERT", 1, err, "itemID", b.ItemID)
	if err != nil {
		return mapError(err)
	}

	stored, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *stored
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	list, err := r.query(ctx, "GetByID", bookingSelect().Where(goqu.I(colID).Eq(id)))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return &list[0], nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	logger.DatabaseCall("UPDATE", "bookings", "bookingID", id, "status", status)
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status=$1 WHERE id=$2`, string(status), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "bookingID", id)
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "bookingID", id)
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) ListByBooker(ctx context.Context, bookerID int64, state domain.BookingState, now time.Time) ([]domain.Booking, error) {
	ds := bookingSelect().Where(goqu.I("b.booker_id").Eq(bookerID))
	return r.query(ctx, "ListByBooker", withState(ds, state, now))
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int64, state domain.BookingState, now time.Time) ([]domain.Booking, error) {
	ds := bookingSelect().Where(goqu.I("i.owner_id").Eq(ownerID))
	return r.query(ctx, "ListByOwner", withState(ds, state, now))
}

func (r *bookingRepository) ListActiveByItem(ctx context.Context, itemID int64) ([]domain.Booking, error) {
	ds := bookingSelect().Where(
		goqu.I("b.item_id").Eq(itemID),
		goqu.I(colStatus).In(string(domain.BookingStatusWaiting), string(domain.BookingStatusApproved)),
	)
	return r.query(ctx, "ListActiveByItem", ds)
}

func (r *bookingRepository) ListByBookerAndItem(ctx context.Context, bookerID, itemID int64) ([]domain.Booking, error) {
	ds := bookingSelect().Where(
		goqu.I("b.booker_id").Eq(bookerID),
		goqu.I("b.item_id").Eq(itemID),
	)
	return r.query(ctx, "ListByBookerAndItem", ds)
}

func (r *bookingRepository) LastForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	ds := bookingSelect().Where(
		goqu.I("b.item_id").Eq(itemID),
		goqu.I(colStatus).Neq(string(domain.BookingStatusRejected)),
		goqu.I(colStartTime).Lt(now),
	).Limit(1)
	return first(r.query(ctx, "LastForItem", ds))
}

func (r *bookingRepository) NextForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	ds := bookingSelect().Where(
		goqu.I("b.item_id").Eq(itemID),
		goqu.I(colStatus).Neq(string(domain.BookingStatusRejected)),
		goqu.I(colStartTime).Gt(now),
	).Order(goqu.I(colStartTime).Asc(), goqu.I(colID).Asc()).Limit(1)
	return first(r.query(ctx, "NextForItem", ds))
}

func (r *bookingRepository) query(ctx context.Context, op string, ds *goqu.SelectDataset) ([]domain.Booking, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build booking query: %w", err)
	}

	logger.DatabaseCall("SELECT", "bookings."+op)
	rows := []bookingRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.DatabaseResult("SELECT", 0, err, "op", op)
		return nil, mapError(err)
	}
	logger.DatabaseResult("SELECT", int64(len(rows)), nil, "op", op)

	bookings := make([]domain.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toDomain())
	}
	return bookings, nil
}

// bookingSelect joins each booking with its item and booker, newest start first.
func bookingSelect() *goqu.SelectDataset {
	return dialect().
		From(goqu.T("bookings").As("b")).
		Prepared(true).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.booker_id")))).
		Select(
			goqu.I(colID),
			goqu.I(colStartTime),
			goqu.I(colEndTime),
			goqu.I("b.item_id"),
			goqu.I("b.booker_id"),
			goqu.I(colStatus),
			goqu.I("i.name").As("item_name"),
			goqu.I("i.description").As("item_description"),
			goqu.I("i.available").As("item_available"),
			goqu.I("i.owner_id").As("item_owner_id"),
			goqu.I("i.request_id").As("item_request_id"),
			goqu.I("u.name").As("booker_name"),
			goqu.I("u.email").As("booker_email"),
		).
		Order(goqu.I(colStartTime).Desc(), goqu.I(colID).Desc())
}

func withState(ds *goqu.SelectDataset, state domain.BookingState, now time.Time) *goqu.SelectDataset {
	var conds []exp.Expression
	switch state {
	case domain.BookingStateCurrent:
		conds = append(conds, goqu.I(colStartTime).Lt(now), goqu.I(colEndTime).Gt(now))
	case domain.BookingStatePast:
		conds = append(conds, goqu.I(colEndTime).Lt(now))
	case domain.BookingStateFuture:
		conds = append(conds, goqu.I(colStartTime).Gt(now))
	case domain.BookingStateWaiting:
		conds = append(conds, goqu.I(colStatus).Eq(string(domain.BookingStatusWaiting)))
	case domain.BookingStateRejected:
		conds = append(conds, goqu.I(colStatus).Eq(string(domain.BookingStatusRejected)))
	}
	if len(conds) == 0 {
		return ds
	}
	return ds.Where(conds...)
}

func first(list []domain.Booking, err error) (*domain.Booking, error) {
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}
