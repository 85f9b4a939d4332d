package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewdb-backend/internal/domains/comment/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, reviewID, commentID uuid.UUID) (*model.Comment, error)
	ListByReview(ctx context.Context, reviewID uuid.UUID, page, limit int) ([]*model.Comment, int, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, reviewID, commentID uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresRepository{pool: pool}
}

const commentSelect = `
	SELECT cm.id, cm.review_id, cm.author_id, u.username, cm.text,
	       cm.created_at, cm.updated_at
	FROM comments cm
	JOIN users u ON u.id = cm.author_id
`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var cm model.Comment
	err := row.Scan(
		&cm.ID,
		&cm.ReviewID,
		&cm.AuthorID,
		&cm.AuthorUsername,
		&cm.Text,
		&cm.CreatedAt,
		&cm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &cm, nil
}

func (r *postgresRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, review_id, author_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		comment.ID, comment.ReviewID, comment.AuthorID, comment.Text,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, reviewID, commentID uuid.UUID) (*model.Comment, error) {
	query := commentSelect + ` WHERE cm.id = $1 AND cm.review_id = $2`
	return scanComment(r.pool.QueryRow(ctx, query, commentID, reviewID))
}

func (r *postgresRepository) ListByReview(ctx context.Context, reviewID uuid.UUID, page, limit int) ([]*model.Comment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	query := commentSelect + `
		WHERE cm.review_id = $1
		ORDER BY cm.created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, reviewID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0, limit)
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	return comments, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, comment *model.Comment) error {
	query := `
		UPDATE comments
		SET text = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, comment.ID, comment.Text).Scan(&comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCommentNotFound
		}
		return fmt.Errorf("update comment: %w", err)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, reviewID, commentID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 AND review_id = $2`, commentID, reviewID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
