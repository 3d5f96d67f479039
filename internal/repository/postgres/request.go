package postgres

import (
	"context"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

const requestColumns = `id, description, requestor_id, created`

type itemRequestRepository struct {
	db dbtx
}

func NewItemRequestRepository(db dbtx) repository.ItemRequestRepository {
	return &itemRequestRepository{db: db}
}

func (r *itemRequestRepository) Create(ctx context.Context, req *domain.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created) VALUES ($1, $2, $3) RETURNING id`
	logger.DatabaseCall("INSERT", "requests", "requestorID", req.RequestorID)
	err := r.db.QueryRowxContext(ctx, query, req.Description, req.RequestorID, req.Created).Scan(&req.ID)
	logger.DatabaseResult("INSERT", 1, err, "requestorID", req.RequestorID)
	return mapError(err)
}

func (r *itemRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ItemRequest, error) {
	req := &domain.ItemRequest{}
	if err := r.db.GetContext(ctx, req, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id); err != nil {
		return nil, mapError(err)
	}
	return req, nil
}

func (r *itemRequestRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]domain.ItemRequest, error) {
	reqs := []domain.ItemRequest{}
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requestor_id = $1 ORDER BY created DESC, id DESC`
	if err := r.db.SelectContext(ctx, &reqs, query, requestorID); err != nil {
		return nil, mapError(err)
	}
	return reqs, nil
}

// ListOthers aligns from down to a page boundary of size.
func (r *itemRequestRepository) ListOthers(ctx context.Context, userID int64, from, size int) ([]domain.ItemRequest, error) {
	reqs := []domain.ItemRequest{}
	query := `SELECT ` + requestColumns + ` FROM requests WHERE requestor_id <> $1
	          ORDER BY created DESC, id DESC LIMIT $2 OFFSET $3`
	offset := (from / size) * size
	if err := r.db.SelectContext(ctx, &reqs, query, userID, size, offset); err != nil {
		return nil, mapError(err)
	}
	return reqs, nil
}
