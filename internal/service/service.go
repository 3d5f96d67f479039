package service

import (
	"context"
	"errors"
	"time"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
)

type UserService interface {
	AddUser(ctx context.Context, name, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID int64, patch domain.UserPatch) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type ItemService interface {
	AddItem(ctx context.Context, ownerID int64, item *domain.Item) (*domain.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch domain.ItemPatch) (*domain.Item, error)
	GetItem(ctx context.Context, viewerID, itemID int64) (*domain.ItemDetails, error)
	ListOwnerItems(ctx context.Context, ownerID int64) ([]domain.ItemDetails, error)
	SearchItems(ctx context.Context, text string) ([]domain.Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*domain.Comment, error)
}

type BookingService interface {
	AddBooking(ctx context.Context, bookerID int64, req BookingRequest) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state domain.BookingState) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state domain.BookingState) ([]domain.Booking, error)
}

type ItemRequestService interface {
	CreateRequest(ctx context.Context, userID int64, description string) (*domain.ItemRequestDetails, error)
	ListOwnRequests(ctx context.Context, userID int64) ([]domain.ItemRequestDetails, error)
	ListOtherRequests(ctx context.Context, userID int64, from, size int) ([]domain.ItemRequestDetails, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*domain.ItemRequestDetails, error)
}

// BookingRequest is the booker's input to AddBooking.
type BookingRequest struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

// BookingPolicy holds the configurable booking rules.
type BookingPolicy struct {
	RejectPastStart bool
}

// notFound converts a repository miss into a NotFound error with msg; other errors pass through.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFound(msg)
	}
	return err
}

func requireUser(ctx context.Context, users repository.UserRepository, userID int64) (*domain.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return user, nil
}
