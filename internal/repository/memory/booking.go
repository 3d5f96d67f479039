package memory

import (
	"context"
	"sort"
	"time"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
)

type bookingRepository struct {
	d *data
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	item, ok := r.d.items[b.ItemID]
	if !ok {
		return repository.ErrNotFound
	}
	booker, ok := r.d.users[b.BookerID]
	if !ok {
		return repository.ErrNotFound
	}
	b.ID = r.d.nextID("bookings")
	b.Item, b.Booker = domain.Item{}, domain.User{}
	r.d.bookings[b.ID] = *b
	b.Item, b.Booker = item, booker
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	b, ok := r.d.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	full := r.populate(b)
	return &full, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	b, ok := r.d.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	r.d.bookings[id] = b
	return nil
}

func (r *bookingRepository) ListByBooker(ctx context.Context, bookerID int64, state domain.BookingState, now time.Time) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool {
		return b.BookerID == bookerID && state.Matches(&b, now)
	}), nil
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int64, state domain.BookingState, now time.Time) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool {
		return b.Item.OwnerID == ownerID && state.Matches(&b, now)
	}), nil
}

func (r *bookingRepository) ListActiveByItem(ctx context.Context, itemID int64) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool {
		return b.ItemID == itemID && b.Status.Active()
	}), nil
}

func (r *bookingRepository) ListByBookerAndItem(ctx context.Context, bookerID, itemID int64) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool {
		return b.BookerID == bookerID && b.ItemID == itemID
	}), nil
}

func (r *bookingRepository) LastForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	list := r.list(func(b domain.Booking) bool {
		return b.ItemID == itemID && b.Status != domain.BookingStatusRejected && b.StartTime.Before(now)
	})
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *bookingRepository) NextForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	list := r.list(func(b domain.Booking) bool {
		return b.ItemID == itemID && b.Status != domain.BookingStatusRejected && b.StartTime.After(now)
	})
	if len(list) == 0 {
		return nil, nil
	}
	return &list[len(list)-1], nil
}

// list returns populated bookings that satisfy keep, newest start first.
func (r *bookingRepository) list(keep func(domain.Booking) bool) []domain.Booking {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, b := range r.d.bookings {
		full := r.populate(b)
		if keep(full) {
			out = append(out, full)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

func (r *bookingRepository) populate(b domain.Booking) domain.Booking {
	b.Item = r.d.items[b.ItemID]
	b.Booker = r.d.users[b.BookerID]
	return b
}
