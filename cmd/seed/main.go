package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskflow/internal/config"
	"taskflow/internal/db"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

const seedPassword = "password"

type seedUser struct {
	Name  string
	Email string
	Role  model.Role
}

var seedUsers = []seedUser{
	{Name: "Ana Petrović", Email: "admin@taskflow.test", Role: model.RoleAdmin},
	{Name: "Marko Jovanović", Email: "marko@taskflow.test", Role: model.RoleManager},
	{Name: "Jelena Nikolić", Email: "jelena@taskflow.test", Role: model.RoleManager},
	{Name: "Ivan Stojanović", Email: "ivan@taskflow.test", Role: model.RoleSpecialist},
	{Name: "Milica Đorđević", Email: "milica@taskflow.test", Role: model.RoleSpecialist},
	{Name: "Stefan Ilić", Email: "stefan@taskflow.test", Role: model.RoleSpecialist},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Task{},
		&model.Comment{},
		&model.Attachment{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	attachmentRepo := repository.NewAttachmentRepository(gormDB)

	users, created, err := seedAccounts(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users ready (%d created)", created)
	if created == 0 {
		log.Println("Nothing new to seed, exiting")
		return
	}

	manager := users["marko@taskflow.test"]
	specialists := []*model.User{
		users["ivan@taskflow.test"],
		users["milica@taskflow.test"],
		users["stefan@taskflow.test"],
	}

	start := time.Now().AddDate(0, 0, -14)
	end := time.Now().AddDate(0, 1, 0)
	project := &model.Project{
		Name:        "Brand refresh",
		Description: "Full visual identity refresh for the flagship client.",
		Status:      model.ProjectStatusActive,
		StartDate:   &start,
		EndDate:     &end,
	}
	memberIDs := []uint{specialists[0].ID, specialists[1].ID}
	if err := projectRepo.CreateWithMembers(ctx, project, manager.ID, memberIDs); err != nil {
		log.Fatalf("Failed to seed project: %v", err)
	}
	log.Printf("Project %q created with %d members", project.Name, len(memberIDs)+1)

	overdue := time.Now().AddDate(0, 0, -3)
	soon := time.Now().AddDate(0, 0, 4)
	tasks := []*model.Task{
		{
			ProjectID:   project.ID,
			UserID:      specialists[0].ID,
			Title:       "Logo concepts",
			Description: "Three directions, mono and color variants.",
			Priority:    model.TaskPriorityHigh,
			Status:      model.TaskStatusInProgress,
			DueDate:     &soon,
		},
		{
			ProjectID:   project.ID,
			UserID:      specialists[1].ID,
			Title:       "Typography audit",
			Description: "Inventory current typefaces across all channels.",
			Priority:    model.TaskPriorityMedium,
			Status:      model.TaskStatusTodo,
			DueDate:     &overdue,
		},
		{
			ProjectID:   project.ID,
			UserID:      specialists[0].ID,
			Title:       "Moodboard",
			Description: "",
			Priority:    model.TaskPriorityLow,
			Status:      model.TaskStatusDone,
		},
	}
	for _, task := range tasks {
		if err := taskRepo.Create(ctx, task); err != nil {
			log.Fatalf("Failed to seed task %q: %v", task.Title, err)
		}
	}
	log.Printf("Seeded %d tasks", len(tasks))

	comment := &model.Comment{
		TaskID:  tasks[0].ID,
		UserID:  specialists[0].ID,
		Content: "First direction sketched, uploading scans tomorrow.",
	}
	if err := commentRepo.Create(ctx, comment); err != nil {
		log.Fatalf("Failed to seed comment: %v", err)
	}

	attachment := &model.Attachment{
		TaskID:   tasks[0].ID,
		UserID:   specialists[0].ID,
		FileName: "logo-sketches.pdf",
		FilePath: "https://files.taskflow.test/uploads/logo-sketches.pdf",
		FileSize: 482113,
		MimeType: "application/pdf",
	}
	if err := attachmentRepo.Create(ctx, attachment); err != nil {
		log.Fatalf("Failed to seed attachment: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Login with any seeded email and password %q", seedPassword)
}

// seedAccounts creates the demo users that do not exist yet and returns all
// of them keyed by email.
func seedAccounts(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, 0, err
	}

	users := make(map[string]*model.User, len(seedUsers))
	created := 0
	for _, su := range seedUsers {
		existing, err := repo.FindByEmail(ctx, su.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, created, err
		}
		if existing != nil {
			users[su.Email] = existing
			continue
		}

		user := &model.User{
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hash),
			Role:         su.Role,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, created, err
		}
		users[su.Email] = user
		created++
	}
	return users, created, nil
}
