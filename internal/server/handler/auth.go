package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authservice "reactiquiz/backend/internal/auth/service"
	"reactiquiz/backend/internal/server/middleware"
)

// AuthHandler exposes registration, the two-step login, session introspection,
// and logout.
type AuthHandler struct {
	auth *authservice.AuthService
}

// NewAuthHandler returns an AuthHandler backed by auth.
func NewAuthHandler(auth *authservice.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Address    string `json:"address"`
	Class      string `json:"class"`
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Identifier, req.Email, req.Password, req.Address, req.Class)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login is step one: password check, then an OTP is emailed. No token is
// returned here.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Same generic message as a wrong password so the response does not
		// reveal which part of the credentials was missing.
		c.JSON(http.StatusUnauthorized, gin.H{"error": authservice.ErrInvalidCredentials.Error()})
		return
	}
	if err := h.auth.RequestLogin(c.Request.Context(), req.Identifier, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login code sent"})
}

type verifyOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	OTP        string `json:"otp" binding:"required"`
	DeviceID   string `json:"deviceId" binding:"required"`
}

// VerifyOTP is step two: the OTP plus the submitting device fingerprint yield
// a session token bound to that device.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := h.auth.VerifyOTP(c.Request.Context(), req.Identifier, req.OTP, req.DeviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		"user":      session.User,
	})
}

// Me returns the authenticated user's public profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": authservice.ErrUnauthenticated.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

// Logout clears the active session. Idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": authservice.ErrUnauthenticated.Error()})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
