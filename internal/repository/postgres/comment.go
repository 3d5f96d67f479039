package postgres

import (
	"context"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/logger"
	"shareit-backend/internal/repository"
)

type commentRepository struct {
	db dbtx
}

func NewCommentRepository(db dbtx) repository.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `WITH inserted AS (
	              INSERT INTO comments (text, item_id, author_id, created) VALUES ($1, $2, $3, $4)
	              RETURNING id, author_id
	          )
	          SELECT inserted.id, u.name FROM inserted JOIN users u ON u.id = inserted.author_id`
	logger.DatabaseCall("INSERT", "comments", "itemID", c.ItemID, "authorID", c.AuthorID)
	err := r.db.QueryRowxContext(ctx, query, c.Text, c.ItemID, c.AuthorID, c.Created).Scan(&c.ID, &c.AuthorName)
	logger.DatabaseResult("INSERT", 1, err, "itemID", c.ItemID)
	return mapError(err)
}

func (r *commentRepository) ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error) {
	comments := []domain.Comment{}
	query := `SELECT c.id, c.text, c.item_id, c.author_id, u.name AS author_name, c.created
	          FROM comments c
	          JOIN users u ON u.id = c.author_id
	          WHERE c.item_id = $1
	          ORDER BY c.created ASC, c.id ASC`
	if err := r.db.SelectContext(ctx, &comments, query, itemID); err != nil {
		return nil, mapError(err)
	}
	return comments, nil
}
