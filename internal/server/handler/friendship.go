package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	friendshipservice "reactiquiz/backend/internal/friendship/service"
	"reactiquiz/backend/internal/server/middleware"
)

// FriendshipHandler exposes friend requests and the friends list.
type FriendshipHandler struct {
	friendships *friendshipservice.FriendshipService
}

// NewFriendshipHandler returns a FriendshipHandler backed by friendships.
func NewFriendshipHandler(friendships *friendshipservice.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendships: friendships}
}

type friendRequestRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// Request sends a friend request to the user with the given identifier.
func (h *FriendshipHandler) Request(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req friendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.friendships.Request(c.Request.Context(), user.ID, req.Identifier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"friendshipId": f.ID,
		"status":       string(f.Status),
	})
}

// Accept accepts a pending request; addressee only.
func (h *FriendshipHandler) Accept(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.friendships.Accept(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "accepted"})
}

// Remove declines a pending request or unfriends; either party.
func (h *FriendshipHandler) Remove(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.friendships.Remove(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

// ListFriends returns the accepted friends of the authenticated user.
func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	user := middleware.CurrentUser(c)
	friends, err := h.friendships.ListFriends(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// ListPending returns pending requests involving the authenticated user.
func (h *FriendshipHandler) ListPending(c *gin.Context) {
	user := middleware.CurrentUser(c)
	pending, err := h.friendships.ListPending(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}
