package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reactiquiz/backend/internal/user/domain"
)

const userColumns = `id, identifier, email, password_hash, address, class, is_admin,
	login_otp, login_otp_expires_at, registered_device_id,
	active_session_token, active_session_expires_at, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the user. The user must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	const q = `
		INSERT INTO users (id, identifier, email, password_hash, address, class, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Identifier, u.Email, u.PasswordHash, u.Address, u.Class, u.IsAdmin, u.CreatedAt, u.UpdatedAt)
	return err
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByIdentifier returns the user for the exact (case-sensitive) identifier, or nil if not found.
func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE identifier = $1`, identifier)
}

// GetByEmail returns the user for the (lowercased) email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetBySessionToken returns the user holding the given active session token, or nil if none.
func (r *PostgresRepository) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE active_session_token = $1`, token)
}

// SetLoginOTP stores the OTP and expiry, replacing any in-flight OTP.
func (r *PostgresRepository) SetLoginOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error {
	const q = `
		UPDATE users SET login_otp = $2, login_otp_expires_at = $3, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, userID, otp, expiresAt)
	return err
}

// ClearLoginOTP removes the in-flight OTP fields.
func (r *PostgresRepository) ClearLoginOTP(ctx context.Context, userID string) error {
	const q = `
		UPDATE users SET login_otp = NULL, login_otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}

// BindSession writes session token, expiry, and device fingerprint, and clears OTP fields.
func (r *PostgresRepository) BindSession(ctx context.Context, userID, token string, expiresAt time.Time, deviceID string) error {
	const q = `
		UPDATE users
		SET active_session_token = $2, active_session_expires_at = $3,
		    registered_device_id = $4,
		    login_otp = NULL, login_otp_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, userID, token, expiresAt, deviceID)
	return err
}

// ClearSession removes the active session token.
func (r *PostgresRepository) ClearSession(ctx context.Context, userID string) error {
	const q = `
		UPDATE users SET active_session_token = NULL, active_session_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}

func (r *PostgresRepository) getOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	var (
		u            domain.User
		otp          sql.NullString
		otpExpires   sql.NullTime
		deviceID     sql.NullString
		token        sql.NullString
		tokenExpires sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Identifier, &u.Email, &u.PasswordHash, &u.Address, &u.Class, &u.IsAdmin,
		&otp, &otpExpires, &deviceID, &token, &tokenExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if otp.Valid {
		u.LoginOTP = &otp.String
	}
	if otpExpires.Valid {
		u.LoginOTPExpiresAt = &otpExpires.Time
	}
	if deviceID.Valid {
		u.RegisteredDeviceID = &deviceID.String
	}
	if token.Valid {
		u.ActiveSessionToken = &token.String
	}
	if tokenExpires.Valid {
		u.ActiveSessionExpiresAt = &tokenExpires.Time
	}
	return &u, nil
}
