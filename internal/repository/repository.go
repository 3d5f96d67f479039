package repository

import (
	"context"
	"errors"
	"time"

	"shareit-backend/internal/domain"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrReferenced is returned when a row cannot be removed because other rows point at it.
	ErrReferenced = errors.New("record is still referenced")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.User, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error)
	ListByRequests(ctx context.Context, requestIDs []int64) ([]domain.Item, error)
	// Search returns available items whose name or description contains text, ignoring case.
	Search(ctx context.Context, text string) ([]domain.Item, error)
}

// BookingRepository returns bookings with Item and Booker populated.
// All listings are ordered by start time, newest first.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	ListByBooker(ctx context.Context, bookerID int64, state domain.BookingState, now time.Time) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state domain.BookingState, now time.Time) ([]domain.Booking, error)
	// ListActiveByItem returns the WAITING and APPROVED bookings of an item.
	ListActiveByItem(ctx context.Context, itemID int64) ([]domain.Booking, error)
	ListByBookerAndItem(ctx context.Context, bookerID, itemID int64) ([]domain.Booking, error)
	// LastForItem returns the latest non-rejected booking starting before now, or nil.
	LastForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error)
	// NextForItem returns the earliest non-rejected booking starting after now, or nil.
	NextForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error)
}

// BookingLocker serializes booking writes per item. fn receives a repository
// bound to the locked scope; the overlap read and the insert must both go through it.
type BookingLocker interface {
	WithItemLock(ctx context.Context, itemID int64, fn func(ctx context.Context, bookings BookingRepository) error) error
}

type ItemRequestRepository interface {
	Create(ctx context.Context, req *domain.ItemRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ItemRequest, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]domain.ItemRequest, error)
	// ListOthers pages through requests not made by userID, newest first.
	ListOthers(ctx context.Context, userID int64, from, size int) ([]domain.ItemRequest, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByItem returns an item's comments oldest first, with AuthorName set.
	ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error)
}
