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
	"github.com/lib/pq"

	"reviewdb-backend/internal/domains/genre/model"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *model.Genre) error
	List(ctx context.Context, search string, page, limit int) ([]*model.Genre, int, error)
	GetBySlug(ctx context.Context, slug string) (*model.Genre, error)

	// GetBySlugs resolves a set of slugs at once; used when attaching genres
	// to a title. Missing slugs are simply absent from the result.
	GetBySlugs(ctx context.Context, slugs []string) ([]*model.Genre, error)

	Delete(ctx context.Context, slug string) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) GenreRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, genre *model.Genre) error {
	query := `
		INSERT INTO genres (id, name, slug, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`

	if genre.ID == uuid.Nil {
		genre.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query, genre.ID, genre.Name, genre.Slug).
		Scan(&genre.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "name") {
				return model.ErrNameTaken
			}
			return model.ErrSlugTaken
		}
		return fmt.Errorf("create genre: %w", err)
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context, search string, page, limit int) ([]*model.Genre, int, error) {
	countQuery := `SELECT COUNT(*) FROM genres WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}

	query := `
		SELECT id, name, slug, created_at
		FROM genres
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, search, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	genres := make([]*model.Genre, 0, limit)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	return genres, total, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Genre, error) {
	query := `SELECT id, name, slug, created_at FROM genres WHERE slug = $1`

	var g model.Genre
	err := r.pool.QueryRow(ctx, query, slug).Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrGenreNotFound
		}
		return nil, fmt.Errorf("get genre by slug: %w", err)
	}

	return &g, nil
}

func (r *postgresRepository) GetBySlugs(ctx context.Context, slugs []string) ([]*model.Genre, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM genres
		WHERE slug = ANY($1)
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query, pq.Array(slugs))
	if err != nil {
		return nil, fmt.Errorf("get genres by slugs: %w", err)
	}
	defer rows.Close()

	genres := make([]*model.Genre, 0, len(slugs))
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return genres, nil
}

// Delete removes the genre; the titles_genres join rows cascade away.
func (r *postgresRepository) Delete(ctx context.Context, slug string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM genres WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrGenreNotFound
	}
	return nil
}
