package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"reviewdb-backend/internal/domains/title/model"
	"reviewdb-backend/pkg/cache"
)

type TitleRepository interface {
	Create(ctx context.Context, title *model.Title, genreIDs []uuid.UUID, categoryID *uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Title, error)
	List(ctx context.Context, req model.ListTitlesRequest) ([]*model.Title, int, error)
	Update(ctx context.Context, title *model.Title, genreIDs *[]uuid.UUID, categoryID *uuid.UUID, clearCategory bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists is the cheap check used by the nested review/comment routes.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) TitleRepository {
	return &postgresRepository{pool: pool, cache: cache}
}

// titleSelect aggregates category and genres in one round trip. The genre
// arrays come back as text[] and scan through pq.Array; the rating is the
// average review score or NULL when unreviewed.
const titleSelect = `
	SELECT
		t.id, t.name, t.year, t.description,
		c.name, c.slug,
		COALESCE(array_agg(g.name ORDER BY g.name) FILTER (WHERE g.id IS NOT NULL), '{}'),
		COALESCE(array_agg(g.slug ORDER BY g.name) FILTER (WHERE g.id IS NOT NULL), '{}'),
		(SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id),
		t.created_at, t.updated_at
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN titles_genres tg ON tg.title_id = t.id
	LEFT JOIN genres g ON g.id = tg.genre_id
`

const titleGroupBy = ` GROUP BY t.id, c.id`

func scanTitle(row pgx.Row) (*model.Title, error) {
	var (
		t            model.Title
		categoryName *string
		categorySlug *string
		genreNames   []string
		genreSlugs   []string
		avgScore     *float64
	)

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Year,
		&t.Description,
		&categoryName,
		&categorySlug,
		pq.Array(&genreNames),
		pq.Array(&genreSlugs),
		&avgScore,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTitleNotFound
		}
		return nil, fmt.Errorf("scan title: %w", err)
	}

	if categorySlug != nil {
		t.Category = &model.CategoryRef{Name: *categoryName, Slug: *categorySlug}
	}

	t.Genres = make([]model.GenreRef, 0, len(genreNames))
	for i := range genreNames {
		t.Genres = append(t.Genres, model.GenreRef{Name: genreNames[i], Slug: genreSlugs[i]})
	}

	if avgScore != nil {
		rating := decimal.NewFromFloat(*avgScore).Round(1)
		t.Rating = &rating
	}

	return &t, nil
}

func (r *postgresRepository) Create(ctx context.Context, title *model.Title, genreIDs []uuid.UUID, categoryID *uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if title.ID == uuid.Nil {
		title.ID = uuid.New()
	}

	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		title.ID, title.Name, title.Year, title.Description, categoryID,
	).Scan(&title.CreatedAt, &title.UpdatedAt)
	if err != nil {
		return translateReferenceError(err)
	}

	if err := replaceGenres(ctx, tx, title.ID, genreIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Title, error) {
	cacheKey := model.DetailCacheKey(id)

	var cached model.Title
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	query := titleSelect + ` WHERE t.id = $1` + titleGroupBy
	t, err := scanTitle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, cacheKey, t, 10*time.Minute)

	return t, nil
}

func (r *postgresRepository) List(ctx context.Context, req model.ListTitlesRequest) ([]*model.Title, int, error) {
	var where strings.Builder
	where.WriteString(" WHERE TRUE")

	args := []interface{}{}
	argPos := 1

	if req.Name != "" {
		where.WriteString(fmt.Sprintf(" AND t.name ILIKE $%d", argPos))
		args = append(args, "%"+req.Name+"%")
		argPos++
	}
	if req.Category != "" {
		where.WriteString(fmt.Sprintf(" AND c.slug = $%d", argPos))
		args = append(args, req.Category)
		argPos++
	}
	if req.Genre != "" {
		where.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM titles_genres tg2
			JOIN genres g2 ON g2.id = tg2.genre_id
			WHERE tg2.title_id = t.id AND g2.slug = $%d
		)`, argPos))
		args = append(args, req.Genre)
		argPos++
	}
	if req.Year != 0 {
		where.WriteString(fmt.Sprintf(" AND t.year = $%d", argPos))
		args = append(args, req.Year)
		argPos++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
	` + where.String()
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	query := titleSelect + where.String() + titleGroupBy +
		fmt.Sprintf(" ORDER BY t.name ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	titles := make([]*model.Title, 0, req.Limit)
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, 0, err
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	return titles, total, nil
}

// Update patches the title row and, when genreIDs is non-nil, replaces the
// genre set wholesale. clearCategory distinguishes "set category to NULL"
// from "leave it alone" since both arrive as a nil categoryID.
func (r *postgresRepository) Update(ctx context.Context, title *model.Title, genreIDs *[]uuid.UUID, categoryID *uuid.UUID, clearCategory bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE titles
		SET
			name = $2,
			year = $3,
			description = $4,
			category_id = CASE WHEN $5::boolean THEN $6::uuid ELSE category_id END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	setCategory := clearCategory || categoryID != nil
	err = tx.QueryRow(ctx, query,
		title.ID, title.Name, title.Year, title.Description, setCategory, categoryID,
	).Scan(&title.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrTitleNotFound
		}
		return translateReferenceError(err)
	}

	if genreIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM titles_genres WHERE title_id = $1`, title.ID); err != nil {
			return fmt.Errorf("clear title genres: %w", err)
		}
		if err := replaceGenres(ctx, tx, title.ID, *genreIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	_ = r.cache.Delete(ctx, model.DetailCacheKey(title.ID))

	return nil
}

// Delete cascades to the title's reviews, their comments and the genre join
// rows through the schema's ON DELETE CASCADE.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrTitleNotFound
	}

	_ = r.cache.Delete(ctx, model.DetailCacheKey(id))

	return nil
}

func (r *postgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM titles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("title exists: %w", err)
	}
	return exists, nil
}

func replaceGenres(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	for _, genreID := range genreIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO titles_genres (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			titleID, genreID)
		if err != nil {
			return fmt.Errorf("attach genre: %w", err)
		}
	}
	return nil
}

// translateReferenceError maps foreign key violations (SQLSTATE 23503) onto
// the domain sentinels so a stale category or genre id reads as a client
// error.
func translateReferenceError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "category"):
			return model.ErrUnknownCategory
		case strings.Contains(pgErr.ConstraintName, "genre"):
			return model.ErrUnknownGenre
		}
	}
	return err
}
