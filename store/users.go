package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"userdesk/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// sortColumns is the allow-list for list ordering. Sort keys arrive from query
// strings and are mapped here instead of being interpolated into SQL.
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"dob":        "dob",
	"created_at": "created_at",
}

func SortKeyAllowed(key string) bool {
	_, ok := sortColumns[key]
	return ok
}

type UserStore struct {
	Pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{Pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *UserStore) Create(ctx context.Context, u *models.User) (int64, error) {
	stmt := `INSERT INTO users (name, email, password_hash, dob, profile_image)
	         VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var id int64
	err := s.Pool.QueryRow(ctx, stmt, u.Name, u.Email, u.PasswordHash, u.DOB, u.ProfileImage).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	return id, nil
}

// GetByEmail looks up an active account. Soft-deleted records cannot log in or
// request resets, so they are excluded here.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	stmt := `SELECT id, name, email, password_hash, dob, profile_image, is_deleted,
	                reset_password_token, reset_password_expires, created_at
	         FROM users WHERE lower(email) = lower($1) AND NOT is_deleted`

	return s.scanUser(s.Pool.QueryRow(ctx, stmt, email))
}

// GetByID fetches a record regardless of its soft-delete flag; deleted rows
// stay reachable by id for internal use.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	stmt := `SELECT id, name, email, password_hash, dob, profile_image, is_deleted,
	                reset_password_token, reset_password_expires, created_at
	         FROM users WHERE id = $1`

	return s.scanUser(s.Pool.QueryRow(ctx, stmt, id))
}

func (s *UserStore) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.DOB, &u.ProfileImage,
		&u.IsDeleted, &u.ResetToken, &u.ResetExpires, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// ListActive returns non-deleted users, optionally filtered by a
// case-insensitive substring over name and email and ordered by an
// allow-listed sort key.
func (s *UserStore) ListActive(ctx context.Context, search, sortKey string, descending bool) ([]models.User, error) {
	stmt := `SELECT id, name, email, dob, profile_image FROM users WHERE NOT is_deleted`
	args := []any{}

	if search != "" {
		stmt += ` AND (name ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+search+"%")
	}

	if sortKey != "" {
		column, ok := sortColumns[sortKey]
		if !ok {
			return nil, fmt.Errorf("unsupported sort key %q", sortKey)
		}
		direction := "ASC"
		if descending {
			direction = "DESC"
		}
		stmt += " ORDER BY " + column + " " + direction
	}

	rows, err := s.Pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.DOB, &u.ProfileImage); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Update rewrites the mutable profile fields. The image path is only touched
// when a new upload arrived.
func (s *UserStore) Update(ctx context.Context, id int64, name, email string, dob time.Time, profileImage *string) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	if profileImage != nil {
		stmt := `UPDATE users SET name = $1, email = $2, dob = $3, profile_image = $4 WHERE id = $5`
		tag, err = s.Pool.Exec(ctx, stmt, name, email, dob, *profileImage, id)
	} else {
		stmt := `UPDATE users SET name = $1, email = $2, dob = $3 WHERE id = $4`
		tag, err = s.Pool.Exec(ctx, stmt, name, email, dob, id)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) SoftDelete(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE users SET is_deleted = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft-deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TruncateAll is the one real deletion in the system.
func (s *UserStore) TruncateAll(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, `TRUNCATE TABLE users RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncating users: %w", err)
	}
	return nil
}

// SetResetToken records the reset token and its expiry together.
func (s *UserStore) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	stmt := `UPDATE users SET reset_password_token = $1, reset_password_expires = $2
	         WHERE lower(email) = lower($3) AND NOT is_deleted`

	tag, err := s.Pool.Exec(ctx, stmt, token, expires, email)
	if err != nil {
		return fmt.Errorf("setting reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EmailTaken reports whether another active account already uses the address.
// Pass excludeID 0 when creating.
func (s *UserStore) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	stmt := `SELECT EXISTS(SELECT 1 FROM users
	         WHERE lower(email) = lower($1) AND NOT is_deleted AND id <> $2)`

	var exists bool
	if err := s.Pool.QueryRow(ctx, stmt, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return exists, nil
}
