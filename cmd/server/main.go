package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditlog "reactiquiz/backend/internal/audit"
	auditrepo "reactiquiz/backend/internal/audit/repository"
	authservice "reactiquiz/backend/internal/auth/service"
	"reactiquiz/backend/internal/authz"
	challengerepo "reactiquiz/backend/internal/challenge/repository"
	challengeservice "reactiquiz/backend/internal/challenge/service"
	"reactiquiz/backend/internal/config"
	contentrepo "reactiquiz/backend/internal/content/repository"
	contentservice "reactiquiz/backend/internal/content/service"
	"reactiquiz/backend/internal/db"
	friendshiprepo "reactiquiz/backend/internal/friendship/repository"
	friendshipservice "reactiquiz/backend/internal/friendship/service"
	"reactiquiz/backend/internal/mail"
	resultrepo "reactiquiz/backend/internal/result/repository"
	resultservice "reactiquiz/backend/internal/result/service"
	"reactiquiz/backend/internal/security"
	"reactiquiz/backend/internal/server"
	"reactiquiz/backend/internal/server/handler"
	"reactiquiz/backend/internal/server/middleware"
	"reactiquiz/backend/internal/telemetry/otel"
	userrepo "reactiquiz/backend/internal/user/repository"
)

const serviceName = "reactiquiz-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	users := userrepo.NewPostgresRepository(database)
	challenges := challengerepo.NewPostgresRepository(database)
	results := resultrepo.NewPostgresRepository(database)
	content := contentrepo.NewPostgresRepository(database)
	friendships := friendshiprepo.NewPostgresRepository(database)
	auditRepo := auditrepo.NewPostgresRepository(database)

	auditLogger := otel.Tee{
		auditlog.NewLogger(auditRepo, middleware.ClientIPFromContext),
		otel.NewAuditEmitter(providers.LoggerProvider),
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	sender := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	authSvc := authservice.NewAuthService(users, sender, hasher, cfg.OTPLifetime(), cfg.SessionLifetime(), auditLogger)
	challengeSvc := challengeservice.NewChallengeService(challenges, users, results, cfg.ChallengeLifetime(), auditLogger)
	resultSvc := resultservice.NewResultService(results)
	contentSvc := contentservice.NewContentService(content)
	friendshipSvc := friendshipservice.NewFriendshipService(friendships, users)

	evaluator, err := authz.NewEvaluator()
	if err != nil {
		log.Fatalf("authz: %v", err)
	}

	router := server.NewRouter(server.Deps{
		Auth:        authSvc,
		Authz:       evaluator,
		Challenges:  handler.NewChallengeHandler(challengeSvc),
		Results:     handler.NewResultHandler(resultSvc),
		Content:     handler.NewContentHandler(contentSvc),
		Friendships: handler.NewFriendshipHandler(friendshipSvc),
		Audit:       handler.NewAuditHandler(auditRepo),
		Health:      handler.NewHealthHandler(database, evaluator),
		ServiceName: serviceName,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
