package postgres

import (
	"context"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

type userRepository struct {
	db dbtx
}

func NewUserRepository(db dbtx) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	err := r.db.QueryRowxContext(ctx, query, u.Name, u.Email).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "email", u.Email)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, u, query, id); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email FROM users WHERE LOWER(email) = LOWER($1)`
	if err := r.db.GetContext(ctx, u, query, email); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, email=$2 WHERE id=$3`
	logger.DatabaseCall("UPDATE", "users", "userID", u.ID)
	res, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "userID", u.ID)
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "userID", u.ID)
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	logger.DatabaseCall("DELETE", "users", "userID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err, "userID", id)
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE", n, nil, "userID", id)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT id, name, email FROM users ORDER BY id`); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}
