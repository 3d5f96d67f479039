package service

import (
	"context"
	"strings"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

type itemService struct {
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	commentRepo repository.CommentRepository
	requestRepo repository.ItemRequestRepository
	clock       domain.Clock
}

func NewItemService(
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	commentRepo repository.CommentRepository,
	requestRepo repository.ItemRequestRepository,
	clock domain.Clock,
) ItemService {
	return &itemService{
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		commentRepo: commentRepo,
		requestRepo: requestRepo,
		clock:       clock,
	}
}

func (s *itemService) AddItem(ctx context.Context, ownerID int64, item *domain.Item) (*domain.Item, error) {
	logger.EnterMethod("itemService.AddItem", "ownerID", ownerID)

	if strings.TrimSpace(item.Name) == "" {
		err := domain.NewInvalidArgument("item name is required")
		logger.ExitMethodWithError("itemService.AddItem", err, "ownerID", ownerID)
		return nil, err
	}
	if _, err := requireUser(ctx, s.userRepo, ownerID); err != nil {
		logger.ExitMethodWithError("itemService.AddItem", err, "ownerID", ownerID)
		return nil, err
	}
	if item.RequestID != nil {
		if _, err := s.requestRepo.GetByID(ctx, *item.RequestID); err != nil {
			err = notFound(err, "item request not found")
			logger.ExitMethodWithError("itemService.AddItem", err, "requestID", *item.RequestID)
			return nil, err
		}
	}

	item.OwnerID = ownerID
	if err := s.itemRepo.Create(ctx, item); err != nil {
		logger.ExitMethodWithError("itemService.AddItem", err, "ownerID", ownerID)
		return nil, err
	}

	logger.ExitMethod("itemService.AddItem", "itemID", item.ID)
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch domain.ItemPatch) (*domain.Item, error) {
	logger.EnterMethod("itemService.UpdateItem", "ownerID", ownerID, "itemID", itemID)

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		err = notFound(err, "item not found")
		logger.ExitMethodWithError("itemService.UpdateItem", err, "itemID", itemID)
		return nil, err
	}
	if item.OwnerID != ownerID {
		err := domain.NewForbidden("only the owner can edit an item")
		logger.ExitMethodWithError("itemService.UpdateItem", err, "itemID", itemID, "ownerID", ownerID)
		return nil, err
	}

	patch.Apply(item)
	if err := s.itemRepo.Update(ctx, item); err != nil {
		err = notFound(err, "item not found")
		logger.ExitMethodWithError("itemService.UpdateItem", err, "itemID", itemID)
		return nil, err
	}

	logger.ExitMethod("itemService.UpdateItem", "itemID", itemID)
	return item, nil
}

// GetItem returns the item with its comments. Only the owner sees the last and next bookings.
func (s *itemService) GetItem(ctx context.Context, viewerID, itemID int64) (*domain.ItemDetails, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, notFound(err, "item not found")
	}
	return s.details(ctx, *item, item.OwnerID == viewerID)
}

func (s *itemService) ListOwnerItems(ctx context.Context, ownerID int64) ([]domain.ItemDetails, error) {
	logger.EnterMethod("itemService.ListOwnerItems", "ownerID", ownerID)

	items, err := s.itemRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.ExitMethodWithError("itemService.ListOwnerItems", err, "ownerID", ownerID)
		return nil, err
	}

	out := make([]domain.ItemDetails, 0, len(items))
	for _, item := range items {
		d, err := s.details(ctx, item, true)
		if err != nil {
			logger.ExitMethodWithError("itemService.ListOwnerItems", err, "itemID", item.ID)
			return nil, err
		}
		out = append(out, *d)
	}

	logger.ExitMethod("itemService.ListOwnerItems", "ownerID", ownerID, "count", len(out))
	return out, nil
}

func (s *itemService) SearchItems(ctx context.Context, text string) ([]domain.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []domain.Item{}, nil
	}
	return s.itemRepo.Search(ctx, text)
}

func (s *itemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*domain.Comment, error) {
	logger.EnterMethod("itemService.AddComment", "authorID", authorID, "itemID", itemID)

	if strings.TrimSpace(text) == "" {
		err := domain.NewInvalidArgument("comment text is required")
		logger.ExitMethodWithError("itemService.AddComment", err, "itemID", itemID)
		return nil, err
	}
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		err = notFound(err, "item not found")
		logger.ExitMethodWithError("itemService.AddComment", err, "itemID", itemID)
		return nil, err
	}
	author, err := requireUser(ctx, s.userRepo, authorID)
	if err != nil {
		logger.ExitMethodWithError("itemService.AddComment", err, "authorID", authorID)
		return nil, err
	}

	now := s.clock.Now()
	bookings, err := s.bookingRepo.ListByBookerAndItem(ctx, authorID, itemID)
	if err != nil {
		logger.ExitMethodWithError("itemService.AddComment", err, "itemID", itemID)
		return nil, err
	}
	eligible := false
	for i := range bookings {
		if bookings[i].CanComment(itemID, now) {
			eligible = true
			break
		}
	}
	if !eligible {
		err := domain.NewInvalidArgument("user did not rent this item, or rental not yet completed")
		logger.ExitMethodWithError("itemService.AddComment", err, "authorID", authorID, "itemID", itemID)
		return nil, err
	}

	comment := &domain.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		logger.ExitMethodWithError("itemService.AddComment", err, "itemID", itemID)
		return nil, err
	}

	logger.ExitMethod("itemService.AddComment", "commentID", comment.ID)
	return comment, nil
}

func (s *itemService) details(ctx context.Context, item domain.Item, withBookings bool) (*domain.ItemDetails, error) {
	comments, err := s.commentRepo.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	d := &domain.ItemDetails{Item: item, Comments: comments}
	if !withBookings {
		return d, nil
	}

	now := s.clock.Now()
	if d.LastBooking, err = s.bookingRepo.LastForItem(ctx, item.ID, now); err != nil {
		return nil, err
	}
	if d.NextBooking, err = s.bookingRepo.NextForItem(ctx, item.ID, now); err != nil {
		return nil, err
	}
	return d, nil
}
