package memory

import (
	"context"
	"sort"
	"strings"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
)

type itemRepository struct {
	d *data
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	item.ID = r.d.nextID("items")
	r.d.items[item.ID] = *item
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	it, ok := r.d.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	existing, ok := r.d.items[item.ID]
	if !ok {
		return repository.ErrNotFound
	}
	item.OwnerID = existing.OwnerID
	r.d.items[item.ID] = *item
	return nil
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error) {
	return r.filter(func(it domain.Item) bool { return it.OwnerID == ownerID }), nil
}

func (r *itemRepository) ListByRequests(ctx context.Context, requestIDs []int64) ([]domain.Item, error) {
	wanted := make(map[int64]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = struct{}{}
	}
	return r.filter(func(it domain.Item) bool {
		if it.RequestID == nil {
			return false
		}
		_, ok := wanted[*it.RequestID]
		return ok
	}), nil
}

func (r *itemRepository) Search(ctx context.Context, text string) ([]domain.Item, error) {
	needle := strings.ToLower(text)
	return r.filter(func(it domain.Item) bool {
		return it.Available &&
			(strings.Contains(strings.ToLower(it.Name), needle) ||
				strings.Contains(strings.ToLower(it.Description), needle))
	}), nil
}

func (r *itemRepository) filter(keep func(domain.Item) bool) []domain.Item {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	items := make([]domain.Item, 0)
	for _, it := range r.d.items {
		if keep(it) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
