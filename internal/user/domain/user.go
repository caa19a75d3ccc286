package domain

import (
	"errors"
	"time"
)

// User is the core user entity. OTP and session fields are transient
// credentials owned by the auth service; everything else is profile data.
type User struct {
	ID           string
	Identifier   string // unique username, case-sensitive, stored trimmed
	Email        string // unique, stored lowercased
	PasswordHash string
	Address      string
	Class        string // free-form grade label, e.g. "9" or "11th"
	IsAdmin      bool

	// Present only during an in-flight login; cleared on success or on the
	// next login attempt.
	LoginOTP          *string
	LoginOTPExpiresAt *time.Time

	// RegisteredDeviceID is the single device fingerprint currently
	// authorized for this account; overwritten on every successful OTP
	// verification (last-verified-device-wins).
	RegisteredDeviceID *string

	// One live session per account; a new login overwrites the previous
	// token implicitly.
	ActiveSessionToken     *string
	ActiveSessionExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Public is the externally visible projection of a user. No credential
// material ever leaves through this type.
type Public struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Address    string `json:"address,omitempty"`
	Class      string `json:"class,omitempty"`
	IsAdmin    bool   `json:"isAdmin,omitempty"`
}

// Public returns the public projection of u.
func (u *User) Public() Public {
	return Public{
		ID:         u.ID,
		Identifier: u.Identifier,
		Email:      u.Email,
		Address:    u.Address,
		Class:      u.Class,
		IsAdmin:    u.IsAdmin,
	}
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Identifier == "" {
		return errors.New("identifier is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
