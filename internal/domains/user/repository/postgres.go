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

	"reviewdb-backend/internal/domains/user/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresRepository{pool: pool}
}

const userColumns = `
	id, username, email, first_name, last_name, bio, role,
	last_code_window, created_at, updated_at
`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Bio,
		&u.Role,
		&u.LastCodeWindow,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// translateUniqueViolation maps SQLSTATE 23505 onto the domain sentinels.
// The constraint name tells username and email collisions apart.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return model.ErrEmailTaken
		case strings.Contains(pgErr.ConstraintName, "username"):
			return model.ErrUsernameTaken
		}
	}
	return err
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (
			id, username, email, first_name, last_name, bio, role,
			last_code_window, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Bio,
		u.Role,
		u.LastCodeWindow,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		return translateUniqueViolation(err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *postgresRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET
			email = $2,
			first_name = $3,
			last_name = $4,
			bio = $5,
			role = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		u.ID,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Bio,
		u.Role,
	).Scan(&u.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrUserNotFound
		}
		return translateUniqueViolation(err)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, username string) error {
	query := `DELETE FROM users WHERE username = $1`

	result, err := r.pool.Exec(ctx, query, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

func (r *postgresRepository) SetLastCodeWindow(ctx context.Context, id uuid.UUID, window int64) error {
	query := `
		UPDATE users
		SET last_code_window = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, window)
	if err != nil {
		return fmt.Errorf("set last code window: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// ========================================
// ADMIN FUNCTIONS
// ========================================

// List uses dynamic query building: the search filter matches username or
// email case-insensitively.
func (r *postgresRepository) List(ctx context.Context, search string, page, limit int) ([]*model.User, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + userColumns + ` FROM users WHERE TRUE`)

	args := []interface{}{}
	argPos := 1

	if search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (username ILIKE $%d OR email ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+search+"%")
		argPos++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS t", queryBuilder.String())
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	queryBuilder.WriteString(" ORDER BY username ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	return users, total, nil
}
