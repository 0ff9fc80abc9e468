// Package data provides persistence adapters for the inkwell backend.
package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	apperrors "github.com/inkwell-ai/inkwell-api/internal/errors"
	"github.com/inkwell-ai/inkwell-api/internal/ports"
)

// UserRepo provides PostgreSQL-backed user persistence.
type UserRepo struct {
	db    *sql.DB
	clock TimeProvider
}

var _ ports.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a UserRepo using real system time.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db, clock: &RealTimeProvider{}}
}

const userColumns = `id, name, email, password_hash,
	COALESCE(reset_token_hash, ''), reset_token_expires, created_at, updated_at`

// Create inserts a new user. A duplicate email is mapped to a Conflict error.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := r.clock.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperrors.Conflict("email already registered")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "insert user")
	}
	return nil
}

// GetByEmail returns the user with the given email, or a NotFound error.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// SetResetToken records the hashed password-reset token and its expiry.
func (r *UserRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token_hash = $2, reset_token_expires = $3, updated_at = $4
		WHERE id = $1`,
		userID, tokenHash, expiresAt, r.clock.Now(),
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "set reset token")
	}
	return requireRowAffected(res, "user")
}

// ClearResetToken removes any outstanding reset token for the user.
func (r *UserRepo) ClearResetToken(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token_hash = NULL, reset_token_expires = NULL, updated_at = $2
		WHERE id = $1`,
		userID, r.clock.Now(),
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "clear reset token")
	}
	return nil
}

// GetByResetToken returns the user holding an unexpired reset token with the
// given hash, or a NotFound error.
func (r *UserRepo) GetByResetToken(ctx context.Context, tokenHash string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE reset_token_hash = $1 AND reset_token_expires > $2`,
		tokenHash, r.clock.Now())
	return scanUser(row)
}

// UpdatePassword replaces the stored password hash and clears any reset token.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, reset_token_hash = NULL, reset_token_expires = NULL, updated_at = $3
		WHERE id = $1`,
		userID, passwordHash, r.clock.Now(),
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "update password")
	}
	return requireRowAffected(res, "user")
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.ResetTokenHash, &u.ResetTokenExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "scan user")
	}
	return &u, nil
}

func requireRowAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "rows affected")
	}
	if n == 0 {
		return apperrors.NotFoundf("%s not found", what)
	}
	return nil
}
