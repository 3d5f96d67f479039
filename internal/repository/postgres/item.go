package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

const itemColumns = `id, name, description, available, owner_id, request_id`

type itemRepository struct {
	db dbtx
}

func NewItemRepository(db dbtx) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	logger.DatabaseCall("INSERT", "items", "ownerID", item.OwnerID)
	err := r.db.QueryRowxContext(ctx, query, item.Name, item.Description, item.Available, item.OwnerID, item.RequestID).Scan(&item.ID)
	logger.DatabaseResult("INSERT", 1, err, "ownerID", item.OwnerID)
	return mapError(err)
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	item := &domain.Item{}
	if err := r.db.GetContext(ctx, item, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id); err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// Update never touches owner_id.
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `UPDATE items SET name=$1, description=$2, available=$3 WHERE id=$4`
	logger.DatabaseCall("UPDATE", "items", "itemID", item.ID)
	res, err := r.db.ExecContext(ctx, query, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "itemID", item.ID)
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "itemID", item.ID)
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error) {
	items := []domain.Item{}
	if err := r.db.SelectContext(ctx, &items, `SELECT `+itemColumns+` FROM items WHERE owner_id = $1 ORDER BY id`, ownerID); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *itemRepository) ListByRequests(ctx context.Context, requestIDs []int64) ([]domain.Item, error) {
	items := []domain.Item{}
	if len(requestIDs) == 0 {
		return items, nil
	}
	query, args, err := dialect().
		From("items").
		Prepared(true).
		Select("id", "name", "description", "available", "owner_id", "request_id").
		Where(goqu.C("request_id").In(requestIDs)).
		Order(goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *itemRepository) Search(ctx context.Context, text string) ([]domain.Item, error) {
	items := []domain.Item{}
	query := `SELECT ` + itemColumns + ` FROM items
	          WHERE available = TRUE AND (name ILIKE $1 OR description ILIKE $1)
	          ORDER BY id`
	pattern := "%" + escapeLike(text) + "%"
	logger.DatabaseCall("SELECT", "items search", "text", text)
	err := r.db.SelectContext(ctx, &items, query, pattern)
	logger.DatabaseResult("SELECT", int64(len(items)), err, "text", text)
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
