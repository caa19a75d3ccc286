package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"reactiquiz/backend/internal/security"
	userdomain "reactiquiz/backend/internal/user/domain"
)

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*userdomain.User
}

func (r *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u2 := *u
	r.byID[u.ID] = &u2
	return nil
}

func (r *memUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Identifier == identifier {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetBySessionToken(ctx context.Context, token string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.ActiveSessionToken != nil && *u.ActiveSessionToken == token {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) SetLoginOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.LoginOTP = &otp
		u.LoginOTPExpiresAt = &expiresAt
	}
	return nil
}

func (r *memUserRepo) ClearLoginOTP(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.LoginOTP = nil
		u.LoginOTPExpiresAt = nil
	}
	return nil
}

func (r *memUserRepo) BindSession(ctx context.Context, userID, token string, expiresAt time.Time, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.ActiveSessionToken = &token
		u.ActiveSessionExpiresAt = &expiresAt
		u.RegisteredDeviceID = &deviceID
		u.LoginOTP = nil
		u.LoginOTPExpiresAt = nil
	}
	return nil
}

func (r *memUserRepo) ClearSession(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.ActiveSessionToken = nil
		u.ActiveSessionExpiresAt = nil
	}
	return nil
}

// snapshot returns a copy of the stored user row for assertions.
func (r *memUserRepo) snapshot(identifier string) *userdomain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Identifier == identifier {
			u2 := *u
			return &u2
		}
	}
	return nil
}

// recordingSender captures emailed OTPs so tests can replay them.
type recordingSender struct {
	mu    sync.Mutex
	sent  []struct{ Email, OTP string }
	fail  bool
	errTo error
}

func (s *recordingSender) SendLoginOTP(toEmail, otp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		if s.errTo == nil {
			s.errTo = errors.New("smtp unreachable")
		}
		return s.errTo
	}
	s.sent = append(s.sent, struct{ Email, OTP string }{toEmail, otp})
	return nil
}

func (s *recordingSender) lastOTP() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1].OTP
}

func newTestAuthService(t *testing.T) (*AuthService, *memUserRepo, *recordingSender) {
	t.Helper()
	repo := &memUserRepo{byID: make(map[string]*userdomain.User)}
	sender := &recordingSender{}
	hasher := security.NewHasher(4) // min cost keeps tests fast
	svc := NewAuthService(repo, sender, hasher, 10*time.Minute, 24*time.Hour, nil)
	return svc, repo, sender
}

func register(t *testing.T, svc *AuthService, identifier string) {
	t.Helper()
	if _, err := svc.Register(context.Background(), identifier, identifier+"@example.com", "secret123", "", "9"); err != nil {
		t.Fatalf("Register(%s): %v", identifier, err)
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "Alice@Example.COM", "secret123", "12 Baker St", "9")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected user id")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email should be lowercased, got %q", user.Email)
	}

	if _, err := svc.Register(ctx, "alice", "other@example.com", "secret123", "", ""); !errors.Is(err, ErrIdentifierTaken) {
		t.Errorf("duplicate identifier: want ErrIdentifierTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice2", "alice@example.com", "secret123", "", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: want ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		identifier string
		email      string
		password   string
	}{
		{"empty identifier", "", "a@example.com", "secret123"},
		{"bad email", "bob", "not-an-email", "secret123"},
		{"short password", "bob", "bob@example.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.identifier, tc.email, tc.password, "", "")
			if !errors.Is(err, ErrValidation) {
				t.Errorf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_RequestLogin_GenericFailure(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice")

	errUnknown := svc.RequestLogin(ctx, "nobody", "secret123")
	errWrongPw := svc.RequestLogin(ctx, "alice", "wrongpass")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown identifier: want ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", errWrongPw)
	}
	// The two failures must be indistinguishable to the caller.
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("failure messages differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestAuthService_RequestLogin_SendsOTP(t *testing.T) {
	svc, repo, sender := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice")

	if err := svc.RequestLogin(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("RequestLogin: %v", err)
	}
	otp := sender.lastOTP()
	if len(otp) != 6 {
		t.Fatalf("OTP length = %d, want 6", len(otp))
	}
	u := repo.snapshot("alice")
	if u.LoginOTP == nil || *u.LoginOTP != otp {
		t.Error("persisted OTP should match the emailed OTP")
	}
	if u.LoginOTPExpiresAt == nil || !u.LoginOTPExpiresAt.After(time.Now().UTC()) {
		t.Error("OTP expiry should be in the future")
	}
}

func TestAuthService_RequestLogin_DeliveryFailure(t *testing.T) {
	svc, repo, sender := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice")
	sender.fail = true

	err := svc.RequestLogin(ctx, "alice", "secret123")
	if !errors.Is(err, ErrDeliveryUnavailable) {
		t.Fatalf("want ErrDeliveryUnavailable, got %v", err)
	}
	// The OTP stays persisted: delivery is a deployment fault, not an auth one.
	if u := repo.snapshot("alice"); u.LoginOTP == nil {
		t.Error("OTP should remain persisted after a failed send")
	}
}

func TestAuthService_VerifyOTP_Success(t *testing.T) {
	svc, repo, sender := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice")
	if err := svc.RequestLogin(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("RequestLogin: %v", err)
	}

	session, err := svc.VerifyOTP(ctx, "alice", sender.lastOTP(), "device-a")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if len(session.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(session.Token))
	}
	if session.User.Identifier != "alice" {
		t.Errorf("session user = %q, want alice", session.User.Identifier)
	}

	u := repo.snapshot("alice")
	if u.LoginOTP != nil {
		t.Error("OTP should be cleared after successful verification")
	}
	if u.RegisteredDeviceID == nil || *u.RegisteredDeviceID != "device-a" {
		t.Error("account should be bound to the verifying device")
	}
	if u.ActiveSessionToken == nil || *u.ActiveSessionToken != session.Token {
		t.Error("session token should be persisted")
	}
}

func TestAuthService_VerifyOTP_RequiresDevice(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, err := svc.VerifyOTP(context.Background(), "alice", "123456", "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("missing deviceId: want ErrValidation, got %v", err)
	}
}

func TestAuthService_VerifyOTP_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, err := svc.VerifyOTP(context.Background(), "nobody", "123456", "device-a")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAuthService_VerifyOTP_WrongCodeClearsOTP(t *testing.T) {
	svc, repo, sender := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice")
	if err := svc.RequestLogin(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("RequestLogin: %v", err)
	}
	correct := sender.lastOTP()
	wrong := "000000"
	if wrong == correct {
		wrong = "000001"
	}

	if _, err := svc.VerifyOTP(ctx, "alice", wrong, "device-a"); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("wrong code: want ErrInvalidOtp, got %v", err)
	}
	if u := repo.snapshot("alice"); u.LoginOTP != nil {
		t.Fatal("failed attempt should clear the stored OTP")
	}
	// The previously correct code must no longer work.
	if _, err := svc.VerifyOTP(ctx, "alice", correct, "device-a"); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("retry with burned code: want ErrInvalidOtp, got %v", err)
	}
}

func TestAuthService_VerifyOTP_Expired(t *testing.T) {
	repo := &memUserRepo{byID: make(map[string]*userdomain.User)}
	sender := &recordingSender{}
	hasher := security.NewHasher(4)
	// Negative TTL: every OTP is already expired when verified.
	svc := NewAuthService(repo, sender, hasher, -time.Minute, 24*time.Hour, nil)
	ctx := context.Background()
	register(t, svc, "alice")
	if err := svc.RequestLogin(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("RequestLogin: %v", err)
	}

	if _, err := svc.VerifyOTP(ctx, "alice", sender.lastOTP(), "device-a"); !errors.Is(err, ErrInvalidOtp) {
		t.Fatalf("expired code: want ErrInvalidOtp, got %v", err)
	}
	if u := repo.snapshot("alice"); u.LoginOTP != nil {
		t.Error("expired attempt should clear the stored OTP")
	}
}

func TestAuthService_DeviceRebind_LastLoginWins(t *testing.T) {
	svc, repo, sender := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice")

	// Full login from device A.
	if err := svc.RequestLogin(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("RequestLogin A: %v", err)
	}
	sessionA, err := svc.VerifyOTP(ctx, "alice", sender.lastOTP(), "device-a")
	if err != nil {
		t.Fatalf("VerifyOTP A: %v", err)
	}

	// Full login from device B re-binds the account unconditionally.
	if err := svc.RequestLogin(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("RequestLogin B: %v", err)
	}
	sessionB, err := svc.VerifyOTP(ctx, "alice", sender.lastOTP(), "device-b")
	if err != nil {
		t.Fatalf("VerifyOTP B: %v", err)
	}

	u := repo.snapshot("alice")
	if u.RegisteredDeviceID == nil || *u.RegisteredDeviceID != "device-b" {
		t.Error("account should be bound to the most recent device")
	}
	// Device A's session is implicitly dead: only one token per account.
	if _, err := svc.ValidateSession(ctx, sessionA.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("old token: want ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.ValidateSession(ctx, sessionB.Token); err != nil {
		t.Errorf("new token should validate: %v", err)
	}
}

func TestAuthService_ValidateSession(t *testing.T) {
	svc, repo, sender := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice")
	if err := svc.RequestLogin(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("RequestLogin: %v", err)
	}
	session, err := svc.VerifyOTP(ctx, "alice", sender.lastOTP(), "device-a")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}

	user, err := svc.ValidateSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if user.Identifier != "alice" {
		t.Errorf("resolved user = %q, want alice", user.Identifier)
	}

	if _, err := svc.ValidateSession(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty token: want ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.ValidateSession(ctx, "deadbeef"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("unknown token: want ErrUnauthenticated, got %v", err)
	}

	// Force the stored expiry into the past.
	u := repo.snapshot("alice")
	past := time.Now().UTC().Add(-time.Minute)
	repo.mu.Lock()
	repo.byID[u.ID].ActiveSessionExpiresAt = &past
	repo.mu.Unlock()
	if _, err := svc.ValidateSession(ctx, session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("stale token: want ErrSessionExpired, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, sender := newTestAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice")
	if err := svc.RequestLogin(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("RequestLogin: %v", err)
	}
	session, err := svc.VerifyOTP(ctx, "alice", sender.lastOTP(), "device-a")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}

	if err := svc.Logout(ctx, session.User.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ValidateSession(ctx, session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("token after logout: want ErrUnauthenticated, got %v", err)
	}
	// Logging out again is a no-op, not an error.
	if err := svc.Logout(ctx, session.User.ID); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}
