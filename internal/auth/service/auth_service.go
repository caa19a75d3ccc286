package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"reactiquiz/backend/internal/audit"
	"reactiquiz/backend/internal/security"
	userdomain "reactiquiz/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP statuses.
var (
	// ErrInvalidCredentials is deliberately generic: it never reveals whether
	// the identifier or the password was wrong.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDeliveryUnavailable = errors.New("could not send login code; try again later")
	ErrNotFound            = errors.New("user not found")
	ErrInvalidOtp          = errors.New("invalid or expired code")
	ErrUnauthenticated     = errors.New("missing or invalid session token")
	ErrSessionExpired      = errors.New("session expired")
	ErrIdentifierTaken     = errors.New("identifier already registered")
	ErrEmailTaken          = errors.New("email already registered")
	ErrValidation          = errors.New("validation failed")
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	Create(ctx context.Context, u *userdomain.User) error
	GetByIdentifier(ctx context.Context, identifier string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetBySessionToken(ctx context.Context, token string) (*userdomain.User, error)
	SetLoginOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error
	ClearLoginOTP(ctx context.Context, userID string) error
	BindSession(ctx context.Context, userID, token string, expiresAt time.Time, deviceID string) error
	ClearSession(ctx context.Context, userID string) error
}

// OTPSender delivers the login OTP by email.
type OTPSender interface {
	SendLoginOTP(toEmail, otp string) error
}

// Session is the outcome of a successful OTP verification.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      userdomain.Public
}

// AuthService owns credential verification, OTP issuance and validation,
// session-token issuance, and single-device binding per account.
type AuthService struct {
	userRepo   UserRepo
	sender     OTPSender
	hasher     *security.Hasher
	otpTTL     time.Duration
	sessionTTL time.Duration
	auditLog   audit.AuditLogger // may be nil
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLog may be nil to disable audit events.
func NewAuthService(
	userRepo UserRepo,
	sender OTPSender,
	hasher *security.Hasher,
	otpTTL, sessionTTL time.Duration,
	auditLog audit.AuditLogger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sender:     sender,
		hasher:     hasher,
		otpTTL:     otpTTL,
		sessionTTL: sessionTTL,
		auditLog:   auditLog,
	}
}

// Register creates a user with the given identifier, email, and password.
// Identifier is trimmed and stored case-sensitively; email is lowercased.
func (s *AuthService) Register(ctx context.Context, identifier, email, password, address, class string) (*userdomain.Public, error) {
	identifier = strings.TrimSpace(identifier)
	email = strings.TrimSpace(strings.ToLower(email))
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	existing, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrIdentifierTaken
	}
	existing, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Identifier:   identifier,
		Email:        email,
		PasswordHash: hashed,
		Address:      strings.TrimSpace(address),
		Class:        strings.TrimSpace(class),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logEvent(ctx, user.ID, "auth.register", "user", "")
	pub := user.Public()
	return &pub, nil
}

// RequestLogin verifies identifier+password and, on match, generates a fresh
// OTP, persists it on the user row, and emails it. It returns no session
// token; only an acknowledgement that an OTP was sent.
//
// Unknown identifier and wrong password yield the same ErrInvalidCredentials.
// If mail delivery fails, the OTP stays persisted (a misconfigured mail
// service is a deployment fault, not a security one) and the caller gets
// ErrDeliveryUnavailable.
func (s *AuthService) RequestLogin(ctx context.Context, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if user == nil {
		s.logEvent(ctx, "", "auth.login_failure", "session", "unknown identifier")
		return ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.logEvent(ctx, user.ID, "auth.login_failure", "session", "password mismatch")
		return ErrInvalidCredentials
	}

	otp, err := security.GenerateOTP()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.otpTTL)
	if err := s.userRepo.SetLoginOTP(ctx, user.ID, otp, expiresAt); err != nil {
		return err
	}
	if err := s.sender.SendLoginOTP(user.Email, otp); err != nil {
		s.logEvent(ctx, user.ID, "auth.otp_delivery_failure", "session", "")
		return ErrDeliveryUnavailable
	}
	s.logEvent(ctx, user.ID, "auth.otp_sent", "session", "")
	return nil
}

// VerifyOTP checks the in-flight OTP for the identifier and, on success,
// issues an opaque session token, re-binds the account to deviceID
// unconditionally (the OTP step is trusted as sufficient proof of identity),
// and clears the OTP fields.
//
// A mismatched or expired attempt clears the stored OTP so the same code
// cannot be retried; the caller must request a fresh login.
func (s *AuthService) VerifyOTP(ctx context.Context, identifier, otp, deviceID string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, fmt.Errorf("%w: deviceId is required", ErrValidation)
	}
	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	now := time.Now().UTC()
	stored := ""
	if user.LoginOTP != nil {
		stored = *user.LoginOTP
	}
	expired := user.LoginOTPExpiresAt == nil || now.After(*user.LoginOTPExpiresAt)
	if !security.OTPEqual(otp, stored) || expired {
		if stored != "" {
			_ = s.userRepo.ClearLoginOTP(ctx, user.ID)
		}
		s.logEvent(ctx, user.ID, "auth.otp_failure", "session", "")
		return nil, ErrInvalidOtp
	}

	token, err := security.GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	expiresAt := now.Add(s.sessionTTL)
	if err := s.userRepo.BindSession(ctx, user.ID, token, expiresAt, deviceID); err != nil {
		return nil, err
	}
	s.logEvent(ctx, user.ID, "auth.otp_verified", "session", "")
	return &Session{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

// ValidateSession resolves a bearer token to its user, fresh from the store
// on every call: a pure function of (token, current time, store state).
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*userdomain.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetBySessionToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if user.ActiveSessionExpiresAt == nil || time.Now().UTC().After(*user.ActiveSessionExpiresAt) {
		s.logEvent(ctx, user.ID, "auth.session_expired", "session", "")
		return nil, ErrSessionExpired
	}
	return user, nil
}

// Logout clears the active session for the user. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if err := s.userRepo.ClearSession(ctx, userID); err != nil {
		return err
	}
	s.logEvent(ctx, userID, "auth.logout", "session", "")
	return nil
}

func (s *AuthService) logEvent(ctx context.Context, userID, action, resource, metadata string) {
	if s.auditLog == nil {
		return
	}
	s.auditLog.LogEvent(ctx, userID, action, resource, metadata)
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}
