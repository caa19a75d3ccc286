// Package handler holds the gin HTTP handlers. Each handler binds input,
// delegates to a service, and maps the service's sentinel errors to HTTP
// statuses; no business logic lives here.
package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	authservice "reactiquiz/backend/internal/auth/service"
	challengeservice "reactiquiz/backend/internal/challenge/service"
	contentservice "reactiquiz/backend/internal/content/service"
	friendshipservice "reactiquiz/backend/internal/friendship/service"
	resultservice "reactiquiz/backend/internal/result/service"
)

// statusMapping pairs a sentinel error with its HTTP status.
type statusMapping struct {
	err    error
	status int
}

var statusMappings = []statusMapping{
	{authservice.ErrInvalidCredentials, http.StatusUnauthorized},
	{authservice.ErrDeliveryUnavailable, http.StatusBadGateway},
	{authservice.ErrInvalidOtp, http.StatusBadRequest},
	{authservice.ErrUnauthenticated, http.StatusUnauthorized},
	{authservice.ErrSessionExpired, http.StatusUnauthorized},
	{authservice.ErrIdentifierTaken, http.StatusConflict},
	{authservice.ErrEmailTaken, http.StatusConflict},
	{authservice.ErrNotFound, http.StatusNotFound},
	{authservice.ErrValidation, http.StatusBadRequest},

	{challengeservice.ErrNotFound, http.StatusNotFound},
	{challengeservice.ErrForbidden, http.StatusForbidden},
	{challengeservice.ErrConflict, http.StatusConflict},
	{challengeservice.ErrValidation, http.StatusBadRequest},
	{challengeservice.ErrUserNotFound, http.StatusNotFound},

	{resultservice.ErrNotFound, http.StatusNotFound},
	{resultservice.ErrForbidden, http.StatusForbidden},
	{resultservice.ErrValidation, http.StatusBadRequest},

	{contentservice.ErrNotFound, http.StatusNotFound},
	{contentservice.ErrValidation, http.StatusBadRequest},

	{friendshipservice.ErrNotFound, http.StatusNotFound},
	{friendshipservice.ErrForbidden, http.StatusForbidden},
	{friendshipservice.ErrConflict, http.StatusConflict},
	{friendshipservice.ErrValidation, http.StatusBadRequest},
	{friendshipservice.ErrUserNotFound, http.StatusNotFound},
}

// respondError maps a service error to its HTTP status. Unmapped errors are
// treated as storage faults: logged server-side, opaque to the client.
func respondError(c *gin.Context, err error) {
	for _, m := range statusMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error()})
			return
		}
	}
	log.Printf("handler: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
