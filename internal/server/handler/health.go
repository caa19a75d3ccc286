package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks one dependency's liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker verifies the in-process policy engine works.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports service liveness including its hard dependencies.
type HealthHandler struct {
	db     Pinger
	policy PolicyChecker
}

// NewHealthHandler returns a HealthHandler. db and policy may be nil to skip
// that check.
func NewHealthHandler(db Pinger, policy PolicyChecker) *HealthHandler {
	return &HealthHandler{db: db, policy: policy}
}

// Healthz returns 200 when all checked dependencies respond, 503 otherwise.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if h.policy != nil {
		if err := h.policy.HealthCheck(ctx); err != nil {
			checks["policy"] = err.Error()
			healthy = false
		} else {
			checks["policy"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
