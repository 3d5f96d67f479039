package service

import (
	"context"
	"strings"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

type itemRequestService struct {
	requestRepo repository.ItemRequestRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	clock       domain.Clock
}

func NewItemRequestService(
	requestRepo repository.ItemRequestRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	clock domain.Clock,
) ItemRequestService {
	return &itemRequestService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

func (s *itemRequestService) CreateRequest(ctx context.Context, userID int64, description string) (*domain.ItemRequestDetails, error) {
	logger.EnterMethod("itemRequestService.CreateRequest", "userID", userID)

	if strings.TrimSpace(description) == "" {
		err := domain.NewInvalidArgument("request description is required")
		logger.ExitMethodWithError("itemRequestService.CreateRequest", err, "userID", userID)
		return nil, err
	}
	if _, err := requireUser(ctx, s.userRepo, userID); err != nil {
		logger.ExitMethodWithError("itemRequestService.CreateRequest", err, "userID", userID)
		return nil, err
	}

	req := &domain.ItemRequest{
		Description: description,
		RequestorID: userID,
		Created:     s.clock.Now(),
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		logger.ExitMethodWithError("itemRequestService.CreateRequest", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("itemRequestService.CreateRequest", "requestID", req.ID)
	return &domain.ItemRequestDetails{ItemRequest: *req, Items: []domain.Item{}}, nil
}

func (s *itemRequestService) ListOwnRequests(ctx context.Context, userID int64) ([]domain.ItemRequestDetails, error) {
	if _, err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	reqs, err := s.requestRepo.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, reqs)
}

func (s *itemRequestService) ListOtherRequests(ctx context.Context, userID int64, from, size int) ([]domain.ItemRequestDetails, error) {
	if from < 0 || size <= 0 {
		return nil, domain.NewInvalidArgument("from must be >= 0 and size must be > 0")
	}
	if _, err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	reqs, err := s.requestRepo.ListOthers(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, reqs)
}

func (s *itemRequestService) GetRequest(ctx context.Context, userID, requestID int64) (*domain.ItemRequestDetails, error) {
	if _, err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err, "item request not found")
	}
	list, err := s.withItems(ctx, []domain.ItemRequest{*req})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// withItems attaches to each request the items listed in answer to it, using one lookup.
func (s *itemRequestService) withItems(ctx context.Context, reqs []domain.ItemRequest) ([]domain.ItemRequestDetails, error) {
	out := make([]domain.ItemRequestDetails, len(reqs))
	if len(reqs) == 0 {
		return out, nil
	}

	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	items, err := s.itemRepo.ListByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]domain.Item, len(reqs))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}

	for i, r := range reqs {
		answers := byRequest[r.ID]
		if answers == nil {
			answers = []domain.Item{}
		}
		out[i] = domain.ItemRequestDetails{ItemRequest: r, Items: answers}
	}
	return out, nil
}
