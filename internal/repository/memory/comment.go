package memory

import (
	"context"
	"sort"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
)

type commentRepository struct {
	d *data
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	author, ok := r.d.users[c.AuthorID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.d.items[c.ItemID]; !ok {
		return repository.ErrNotFound
	}
	c.ID = r.d.nextID("comments")
	c.AuthorName = author.Name
	r.d.comments[c.ID] = *c
	return nil
}

func (r *commentRepository) ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := make([]domain.Comment, 0)
	for _, c := range r.d.comments {
		if c.ItemID == itemID {
			c.AuthorName = r.d.users[c.AuthorID].Name
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out, nil
}
