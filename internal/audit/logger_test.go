package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"reactiquiz/backend/internal/audit/domain"
)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	err     error
}

func (r *memAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	e2 := *entry
	r.entries = append(r.entries, &e2)
	return nil
}

func (r *memAuditRepo) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditLog
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestLogger_LogEvent(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, func(context.Context) string { return "203.0.113.7" })

	l.LogEvent(context.Background(), "user-1", "auth.login_failure", "session", "password mismatch")

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID == "" {
		t.Error("expected generated id")
	}
	if e.UserID != "user-1" || e.Action != "auth.login_failure" || e.Resource != "session" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.IP != "203.0.113.7" {
		t.Errorf("ip = %q, want extractor value", e.IP)
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestLogger_AnonymousEvents(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil)

	l.LogEvent(context.Background(), "", "auth.login_failure", "session", "unknown identifier")

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	if repo.entries[0].UserID != SentinelUserID {
		t.Errorf("userID = %q, want %q", repo.entries[0].UserID, SentinelUserID)
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want unknown without extractor", repo.entries[0].IP)
	}
}

func TestLogger_BestEffort(t *testing.T) {
	repo := &memAuditRepo{err: errors.New("db down")}
	l := NewLogger(repo, nil)

	// Must not panic or propagate.
	l.LogEvent(context.Background(), "user-1", "auth.logout", "session", "")
}

func TestLogger_NilRepo(t *testing.T) {
	l := NewLogger(nil, nil)
	l.LogEvent(context.Background(), "user-1", "auth.logout", "session", "")
}
