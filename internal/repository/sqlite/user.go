package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/model"
)

const userColumns = `id, name, email, password_hash, profile_image_url, created_at, updated_at`

// CreateUser inserts a new user, generating its ID and timestamps.
//
// Email uniqueness is left to the UNIQUE constraint rather than a prior
// SELECT, so two concurrent registrations cannot both succeed.
func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	id := xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.ProfileImageURL,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("User already exists")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email. The caller normalises the
// address; the comparison here is exact.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u        model.User
		imageURL sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&imageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User")
		}
		return nil, err
	}
	if imageURL.Valid {
		u.ProfileImageURL = &imageURL.String
	}
	return &u, nil
}
