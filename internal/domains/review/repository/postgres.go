package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewdb-backend/internal/domains/review/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error

	// GetByID is scoped to a title so a review can only be addressed through
	// its own title's nested route.
	GetByID(ctx context.Context, titleID, reviewID uuid.UUID) (*model.Review, error)
	GetByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*model.Review, error)
	ListByTitle(ctx context.Context, titleID uuid.UUID, page, limit int) ([]*model.Review, int, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, titleID, reviewID uuid.UUID) error
	Exists(ctx context.Context, titleID, reviewID uuid.UUID) (bool, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresRepository{pool: pool}
}

const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score,
	       r.created_at, r.updated_at
	FROM reviews r
	JOIN users u ON u.id = r.author_id
`

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID,
		&rv.TitleID,
		&rv.AuthorID,
		&rv.AuthorUsername,
		&rv.Text,
		&rv.Score,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &rv, nil
}

func (r *postgresRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, title_id, author_id, text, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		review.ID, review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		// the unique (author_id, title_id) index backs the one-review rule;
		// this catches the race the service-level pre-check cannot
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, titleID, reviewID uuid.UUID) (*model.Review, error) {
	query := reviewSelect + ` WHERE r.id = $1 AND r.title_id = $2`
	return scanReview(r.pool.QueryRow(ctx, query, reviewID, titleID))
}

func (r *postgresRepository) GetByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*model.Review, error) {
	query := reviewSelect + ` WHERE r.author_id = $1 AND r.title_id = $2`
	return scanReview(r.pool.QueryRow(ctx, query, authorID, titleID))
}

func (r *postgresRepository) ListByTitle(ctx context.Context, titleID uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE title_id = $1`, titleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := reviewSelect + `
		WHERE r.title_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, titleID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0, limit)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	return reviews, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET text = $2, score = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, review.ID, review.Text, review.Score).
		Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrReviewNotFound
		}
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

// Delete cascades to the review's comments through the schema.
func (r *postgresRepository) Delete(ctx context.Context, titleID, reviewID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM reviews WHERE id = $1 AND title_id = $2`, reviewID, titleID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *postgresRepository) Exists(ctx context.Context, titleID, reviewID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE id = $1 AND title_id = $2)`,
		reviewID, titleID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("review exists: %w", err)
	}
	return exists, nil
}
