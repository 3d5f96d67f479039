package memory

import (
	"context"
	"sort"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
)

type requestRepository struct {
	d *data
}

func (r *requestRepository) Create(ctx context.Context, req *domain.ItemRequest) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	req.ID = r.d.nextID("requests")
	r.d.requests[req.ID] = *req
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.ItemRequest, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	req, ok := r.d.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &req, nil
}

func (r *requestRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]domain.ItemRequest, error) {
	return r.newestFirst(func(req domain.ItemRequest) bool { return req.RequestorID == requestorID }), nil
}

func (r *requestRepository) ListOthers(ctx context.Context, userID int64, from, size int) ([]domain.ItemRequest, error) {
	all := r.newestFirst(func(req domain.ItemRequest) bool { return req.RequestorID != userID })
	offset := (from / size) * size
	if offset >= len(all) {
		return []domain.ItemRequest{}, nil
	}
	end := offset + size
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *requestRepository) newestFirst(keep func(domain.ItemRequest) bool) []domain.ItemRequest {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := make([]domain.ItemRequest, 0)
	for _, req := range r.d.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID > out[j].ID
		}
		return out[i].Created.After(out[j].Created)
	})
	return out
}
