package repository

import (
	"context"
	"time"

	"reactiquiz/backend/internal/user/domain"
)

// Repository defines persistence for users, including the transient OTP and
// session credential columns that live on the user row.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetBySessionToken(ctx context.Context, token string) (*domain.User, error)

	// SetLoginOTP stores a fresh OTP and its expiry on the user row,
	// replacing any previous in-flight OTP.
	SetLoginOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error
	// ClearLoginOTP removes the in-flight OTP so it cannot be retried.
	ClearLoginOTP(ctx context.Context, userID string) error
	// BindSession writes the new session token, its expiry, and the device
	// fingerprint in one update, and clears the OTP fields. Overwrites any
	// previous session (last-write-wins).
	BindSession(ctx context.Context, userID, token string, expiresAt time.Time, deviceID string) error
	// ClearSession removes the active session token (logout).
	ClearSession(ctx context.Context, userID string) error
}
