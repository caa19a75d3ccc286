// Package server assembles the gin engine: middleware order, route table,
// and the split between public, session-scoped, and admin route groups.
package server

import (
	"github.com/gin-gonic/gin"

	authservice "reactiquiz/backend/internal/auth/service"
	"reactiquiz/backend/internal/authz"
	"reactiquiz/backend/internal/server/handler"
	"reactiquiz/backend/internal/server/middleware"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth        *authservice.AuthService
	Authz       *authz.Evaluator
	Challenges  *handler.ChallengeHandler
	Results     *handler.ResultHandler
	Content     *handler.ContentHandler
	Friendships *handler.FriendshipHandler
	Audit       *handler.AuditHandler
	Health      *handler.HealthHandler
	ServiceName string
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ClientIP())
	r.Use(middleware.Telemetry(d.ServiceName))

	authHandler := handler.NewAuthHandler(d.Auth)

	r.GET("/healthz", d.Health.Healthz)

	api := r.Group("/api")

	// Public: registration and the two-step login.
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)
	api.POST("/users/verify-otp", authHandler.VerifyOTP)

	// Public read-only quiz content.
	api.GET("/subjects", d.Content.ListSubjects)
	api.GET("/subjects/:subjectId/topics", d.Content.ListTopics)
	api.GET("/topics/:topicId/questions", d.Content.ListQuestions)

	// Session-scoped routes.
	authed := api.Group("")
	authed.Use(middleware.RequireSession(d.Auth))
	{
		authed.GET("/users/me", authHandler.Me)
		authed.POST("/users/logout", authHandler.Logout)

		authed.POST("/challenges", d.Challenges.Create)
		authed.GET("/challenges", d.Challenges.List)
		authed.GET("/challenges/:id", d.Challenges.Get)
		authed.POST("/challenges/:id/submit", d.Challenges.SubmitScore)

		authed.POST("/results", d.Results.Record)
		authed.GET("/results", d.Results.List)
		authed.DELETE("/results/:id", d.Results.Delete)

		authed.POST("/friends/requests", d.Friendships.Request)
		authed.POST("/friends/requests/:id/accept", d.Friendships.Accept)
		authed.DELETE("/friends/:id", d.Friendships.Remove)
		authed.GET("/friends", d.Friendships.ListFriends)
		authed.GET("/friends/pending", d.Friendships.ListPending)
	}

	// Admin routes: session plus the admin policy.
	admin := api.Group("/admin")
	admin.Use(middleware.RequireSession(d.Auth))
	{
		content := admin.Group("", middleware.RequireAdmin(d.Authz, "upsert", "content"))
		content.PUT("/subjects", d.Content.UpsertSubject)
		content.PUT("/topics", d.Content.UpsertTopic)
		content.PUT("/questions", d.Content.UpsertQuestion)

		audit := admin.Group("", middleware.RequireAdmin(d.Authz, "list", "audit"))
		audit.GET("/audit/:userId", d.Audit.ListByUser)
	}

	return r
}
