package memory

import (
	"context"
	"sort"
	"strings"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
)

type userRepository struct {
	d *data
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if r.emailTaken(u.Email, 0) {
		return repository.ErrDuplicateEmail
	}
	u.ID = r.d.nextID("users")
	r.d.users[u.ID] = *u
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	u, ok := r.d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	for _, u := range r.d.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return repository.ErrDuplicateEmail
	}
	r.d.users[u.ID] = *u
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.users[id]; !ok {
		return nil
	}
	if r.referenced(id) {
		return repository.ErrReferenced
	}
	delete(r.d.users, id)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	users := make([]domain.User, 0, len(r.d.users))
	for _, u := range r.d.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepository) emailTaken(email string, exceptID int64) bool {
	for id, u := range r.d.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepository) referenced(userID int64) bool {
	for _, it := range r.d.items {
		if it.OwnerID == userID {
			return true
		}
	}
	for _, b := range r.d.bookings {
		if b.BookerID == userID {
			return true
		}
	}
	for _, rq := range r.d.requests {
		if rq.RequestorID == userID {
			return true
		}
	}
	for _, c := range r.d.comments {
		if c.AuthorID == userID {
			return true
		}
	}
	return false
}
