package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewdb-backend/internal/domains/category/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	List(ctx context.Context, search string, page, limit int) ([]*model.Category, int, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	Delete(ctx context.Context, slug string) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) CategoryRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query, category.ID, category.Name, category.Slug).
		Scan(&category.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "name") {
				return model.ErrNameTaken
			}
			return model.ErrSlugTaken
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context, search string, page, limit int) ([]*model.Category, int, error) {
	countQuery := `SELECT COUNT(*) FROM categories WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := `
		SELECT id, name, slug, created_at
		FROM categories
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, search, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*model.Category, 0, limit)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	return categories, total, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	query := `SELECT id, name, slug, created_at FROM categories WHERE slug = $1`

	var c model.Category
	err := r.pool.QueryRow(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by slug: %w", err)
	}

	return &c, nil
}

// Delete removes the category. Titles referencing it keep existing with a
// NULL category (ON DELETE SET NULL in the schema).
func (r *postgresRepository) Delete(ctx context.Context, slug string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}
