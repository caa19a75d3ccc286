package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	auditrepo "reactiquiz/backend/internal/audit/repository"
)

// AuditHandler exposes the admin-only audit trail.
type AuditHandler struct {
	repo auditrepo.Repository
}

// NewAuditHandler returns an AuditHandler backed by repo.
func NewAuditHandler(repo auditrepo.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// auditEntryResponse is the JSON shape of one audit event.
type auditEntryResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Action    string `json:"action"`
	Resource  string `json:"resource"`
	IP        string `json:"ip"`
	Metadata  string `json:"metadata,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// ListByUser returns the audit events of one user, newest first. Admin route.
func (h *AuditHandler) ListByUser(c *gin.Context) {
	limit := queryInt32(c, "limit", 50)
	offset := queryInt32(c, "offset", 0)
	entries, err := h.repo.ListByUser(c.Request.Context(), c.Param("userId"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Resource:  e.Resource,
			IP:        e.IP,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}
