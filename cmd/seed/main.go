// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (devstudent) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"reactiquiz/backend/internal/config"
	contentdomain "reactiquiz/backend/internal/content/domain"
	contentrepo "reactiquiz/backend/internal/content/repository"
	"reactiquiz/backend/internal/db"
	"reactiquiz/backend/internal/security"
	userdomain "reactiquiz/backend/internal/user/domain"
	userrepo "reactiquiz/backend/internal/user/repository"
)

const (
	devIdentifier   = "devstudent"
	devEmail        = "dev@example.com"
	devPassword     = "password123"
	devUserID       = "dev-user-001"
	adminIdentifier = "devadmin"
	adminEmail      = "admin@example.com"
	adminUserID     = "dev-admin-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	content := contentrepo.NewPostgresRepository(conn)

	existing, err := users.GetByIdentifier(ctx, devIdentifier)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (devstudent exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	if err := users.Create(ctx, &userdomain.User{
		ID:           devUserID,
		Identifier:   devIdentifier,
		Email:        devEmail,
		PasswordHash: passwordHash,
		Class:        "9",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("create dev user: %v", err)
	}

	if err := users.Create(ctx, &userdomain.User{
		ID:           adminUserID,
		Identifier:   adminIdentifier,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		log.Fatalf("create admin user: %v", err)
	}

	if err := content.UpsertSubject(ctx, &contentdomain.Subject{
		ID:           "physics",
		Name:         "Physics",
		Description:  "Mechanics, waves, electricity",
		DisplayOrder: 1,
	}); err != nil {
		log.Fatalf("upsert subject: %v", err)
	}

	if err := content.UpsertTopic(ctx, &contentdomain.Topic{
		ID:        "kinematics-9th",
		SubjectID: "physics",
		Name:      "Kinematics",
		Class:     "9",
	}); err != nil {
		log.Fatalf("upsert topic: %v", err)
	}

	questions := []*contentdomain.Question{
		{
			ID:      "kin-q1",
			TopicID: "kinematics-9th",
			Text:    "A body moving with constant velocity has what acceleration?",
			Options: []contentdomain.Option{
				{ID: "a", Text: "Zero"},
				{ID: "b", Text: "Constant non-zero"},
				{ID: "c", Text: "Increasing"},
				{ID: "d", Text: "Decreasing"},
			},
			CorrectOption: "a",
			Difficulty:    1,
		},
		{
			ID:      "kin-q2",
			TopicID: "kinematics-9th",
			Text:    "The slope of a distance-time graph gives which quantity?",
			Options: []contentdomain.Option{
				{ID: "a", Text: "Acceleration"},
				{ID: "b", Text: "Speed"},
				{ID: "c", Text: "Displacement"},
				{ID: "d", Text: "Force"},
			},
			CorrectOption: "b",
			Difficulty:    1,
		},
	}
	for _, q := range questions {
		if err := content.UpsertQuestion(ctx, q); err != nil {
			log.Fatalf("upsert question %s: %v", q.ID, err)
		}
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev login: %s / %s\n", devIdentifier, devPassword)
	fmt.Printf("Admin login: %s / %s\n", adminIdentifier, devPassword)
}
