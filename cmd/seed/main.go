package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskvault/internal/config"
	"taskvault/internal/db"
	"taskvault/internal/model"
	"taskvault/internal/repository"
)

const (
	demoEmail    = "demo@taskvault.local"
	demoPassword = "demo-password"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	user, err := seedUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	log.Printf("Demo user ready: %s (%s)", user.Name, user.Email)

	created, err := seedTasks(ctx, taskRepo, user)
	if err != nil {
		log.Fatalf("Failed to seed tasks: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Tasks created: %d", created)
	log.Printf("  - Login with %s / %s", demoEmail, demoPassword)
}

// seedUser returns the demo user, creating it on first run.
func seedUser(ctx context.Context, repo repository.UserRepository) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:         "Demo User",
		Email:        demoEmail,
		PasswordHash: string(hashed),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// seedTasks creates a batch of sample tasks covering every status. A couple of
// them have end dates in the past so the first listing exercises the expiry
// sweep.
func seedTasks(ctx context.Context, repo repository.TaskRepository, user *model.User) (int, error) {
	existing, err := repo.ListByOwner(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Printf("Demo user already has %d tasks, skipping task seed", len(existing))
		return 0, nil
	}

	now := time.Now()
	samples := []model.Task{
		{Title: "Write project proposal", StartDate: now.AddDate(0, 0, -10), EndDate: now.AddDate(0, 0, -3), Status: model.StatusCompleted},
		{Title: "Review pull requests", StartDate: now.AddDate(0, 0, -2), EndDate: now.AddDate(0, 0, 2), Status: model.StatusInProgress},
		{Title: "Plan sprint retrospective", StartDate: now.AddDate(0, 0, 1), EndDate: now.AddDate(0, 0, 7), Status: model.StatusNotStarted},
		{Title: "Renew TLS certificates", StartDate: now.AddDate(0, 0, -14), EndDate: now.AddDate(0, 0, -7), Status: model.StatusExpired},
		{Title: "Submit expense report", StartDate: now.AddDate(0, 0, -5), EndDate: now.AddDate(0, 0, -1), Status: model.StatusInProgress},
		{Title: "Prepare quarterly review", StartDate: now, EndDate: now.AddDate(0, 1, 0), Status: model.StatusNotStarted},
	}

	created := 0
	for i := range samples {
		samples[i].OwnerID = user.ID
		if err := repo.Create(ctx, &samples[i]); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
