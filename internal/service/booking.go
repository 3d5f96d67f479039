package service

import (
	"context"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	locker      repository.BookingLocker
	clock       domain.Clock
	policy      BookingPolicy
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	locker repository.BookingLocker,
	clock domain.Clock,
	policy BookingPolicy,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		locker:      locker,
		clock:       clock,
		policy:      policy,
	}
}

func (s *bookingService) AddBooking(ctx context.Context, bookerID int64, req BookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.AddBooking", "bookerID", bookerID, "itemID", req.ItemID)

	if _, err := requireUser(ctx, s.userRepo, bookerID); err != nil {
		logger.ExitMethodWithError("bookingService.AddBooking", err, "bookerID", bookerID)
		return nil, err
	}
	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		err = notFound(err, "item not found")
		logger.ExitMethodWithError("bookingService.AddBooking", err, "itemID", req.ItemID)
		return nil, err
	}
	if !item.Available {
		err := domain.NewInvalidState("item not available for booking")
		logger.ExitMethodWithError("bookingService.AddBooking", err, "itemID", item.ID)
		return nil, err
	}
	if item.OwnerID == bookerID {
		err := domain.NewForbidden("owner cannot book own item")
		logger.ExitMethodWithError("bookingService.AddBooking", err, "itemID", item.ID, "bookerID", bookerID)
		return nil, err
	}
	if err := domain.ValidateBookingPeriod(req.Start, req.End, s.clock.Now(), s.policy.RejectPastStart); err != nil {
		logger.ExitMethodWithError("bookingService.AddBooking", err, "itemID", item.ID)
		return nil, err
	}

	booking := &domain.Booking{
		StartTime: req.Start,
		EndTime:   req.End,
		ItemID:    item.ID,
		BookerID:  bookerID,
		Status:    domain.BookingStatusWaiting,
	}
	err = s.locker.WithItemLock(ctx, item.ID, func(ctx context.Context, bookings repository.BookingRepository) error {
		active, err := bookings.ListActiveByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		for i := range active {
			if active[i].Overlaps(req.Start, req.End) {
				return domain.NewInvalidArgument("item occupied for requested period")
			}
		}
		return bookings.Create(ctx, booking)
	})
	if err != nil {
		err = notFound(err, "item not found")
		logger.ExitMethodWithError("bookingService.AddBooking", err, "itemID", item.ID, "bookerID", bookerID)
		return nil, err
	}

	logger.Info("Booking created", "bookingID", booking.ID, "itemID", item.ID, "bookerID", bookerID)
	logger.ExitMethod("bookingService.AddBooking", "bookingID", booking.ID)
	return booking, nil
}

// ApproveBooking records the owner's decision. The read, the transition and
// the write happen under the item lock so two decisions cannot both succeed.
func (s *bookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ApproveBooking", "ownerID", ownerID, "bookingID", bookingID, "approved", approved)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		err = notFound(err, "booking not found")
		logger.ExitMethodWithError("bookingService.ApproveBooking", err, "bookingID", bookingID)
		return nil, err
	}
	if booking.Item.OwnerID != ownerID {
		err := domain.NewForbidden("only the item owner can approve a booking")
		logger.ExitMethodWithError("bookingService.ApproveBooking", err, "bookingID", bookingID, "ownerID", ownerID)
		return nil, err
	}

	err = s.locker.WithItemLock(ctx, booking.ItemID, func(ctx context.Context, bookings repository.BookingRepository) error {
		current, err := bookings.GetByID(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		next, err := current.Status.Transition(approved)
		if err != nil {
			return err
		}
		if err := bookings.UpdateStatus(ctx, bookingID, next); err != nil {
			return notFound(err, "booking not found")
		}
		current.Status = next
		booking = current
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.ApproveBooking", err, "bookingID", bookingID)
		return nil, err
	}

	logger.Info("Booking decided", "bookingID", bookingID, "status", booking.Status)
	logger.ExitMethod("bookingService.ApproveBooking", "bookingID", bookingID, "status", booking.Status)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking not found")
	}
	if booking.BookerID != userID && booking.Item.OwnerID != userID {
		return nil, domain.NewForbidden("booking is visible only to its booker and the item owner")
	}
	return booking, nil
}

func (s *bookingService) ListByBooker(ctx context.Context, bookerID int64, state domain.BookingState) ([]domain.Booking, error) {
	logger.EnterMethod("bookingService.ListByBooker", "bookerID", bookerID, "state", state)

	list, err := s.bookingRepo.ListByBooker(ctx, bookerID, state, s.clock.Now())
	if err != nil {
		logger.ExitMethodWithError("bookingService.ListByBooker", err, "bookerID", bookerID)
		return nil, err
	}

	logger.ExitMethod("bookingService.ListByBooker", "bookerID", bookerID, "count", len(list))
	return list, nil
}

func (s *bookingService) ListByOwner(ctx context.Context, ownerID int64, state domain.BookingState) ([]domain.Booking, error) {
	logger.EnterMethod("bookingService.ListByOwner", "ownerID", ownerID, "state", state)

	items, err := s.itemRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ListByOwner", err, "ownerID", ownerID)
		return nil, err
	}
	if len(items) == 0 {
		err := domain.NewNotFound("owner has no items")
		logger.ExitMethodWithError("bookingService.ListByOwner", err, "ownerID", ownerID)
		return nil, err
	}

	list, err := s.bookingRepo.ListByOwner(ctx, ownerID, state, s.clock.Now())
	if err != nil {
		logger.ExitMethodWithError("bookingService.ListByOwner", err, "ownerID", ownerID)
		return nil, err
	}

	logger.ExitMethod("bookingService.ListByOwner", "ownerID", ownerID, "count", len(list))
	return list, nil
}
