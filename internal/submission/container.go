package submission

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
)

type SubmissionContainer struct {
	Handler *Handler
	Service SubmissionService
}

func NewSubmissionContainer(db *gorm.DB, quizzes quiz.QuizService, policy RetakePolicy) *SubmissionContainer {
	repo := NewRepository(db)
	service := NewService(repo, quizzes, policy)
	handler := NewHandler(service)

	return &SubmissionContainer{
		Handler: handler,
		Service: service,
	}
}
