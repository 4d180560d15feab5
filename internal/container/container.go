package container

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
	"github.com/saulo-duarte/classroom-lambda/internal/content"
	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
	"github.com/saulo-duarte/classroom-lambda/internal/submission"
	"github.com/saulo-duarte/classroom-lambda/internal/user"
)

type Container struct {
	Settings            *config.Settings
	UserContainer       *user.UserContainer
	ModuleContainer     *coursemodule.ModuleContainer
	QuizContainer       *quiz.QuizContainer
	SubmissionContainer *submission.SubmissionContainer
	ContentContainer    *content.ContentContainer
}

func New() *Container {
	settings := config.Load()
	config.Init(settings)
	auth.Init(settings)

	ctx := context.Background()
	if err := config.Connect(ctx, settings.DBDriver, settings.DatabaseDSN); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := Migrate(config.DB); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	c, err := Wire(config.DB, settings)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}

	if settings.AdminEmail != "" {
		if err := c.UserContainer.Service.EnsureAdmin(ctx, settings.AdminEmail, settings.AdminPassword); err != nil {
			log.Fatalf("failed to create admin: %v", err)
		}
	}
	return c
}

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&coursemodule.Module{},
		&coursemodule.Enrollment{},
		&quiz.Quiz{},
		&quiz.Question{},
		&quiz.Option{},
		&submission.Submission{},
		&content.File{},
	)
}

// Wire builds the feature containers on top of an open database.
func Wire(db *gorm.DB, settings *config.Settings) (*Container, error) {
	policy, err := submission.ParseRetakePolicy(settings.RetakePolicy)
	if err != nil {
		return nil, err
	}

	userContainer := user.NewUserContainer(db)
	moduleContainer := coursemodule.NewModuleContainer(db)
	quizContainer := quiz.NewQuizContainer(db, moduleContainer.Service)
	submissionContainer := submission.NewSubmissionContainer(db, quizContainer.Service, policy)

	contentContainer, err := content.NewContentContainer(db, settings, moduleContainer.Service)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	return &Container{
		Settings:            settings,
		UserContainer:       userContainer,
		ModuleContainer:     moduleContainer,
		QuizContainer:       quizContainer,
		SubmissionContainer: submissionContainer,
		ContentContainer:    contentContainer,
	}, nil
}
