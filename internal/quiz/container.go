package quiz

import (
	"gorm.io/gorm"

	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
)

type QuizContainer struct {
	Handler *Handler
	Service QuizService
}

func NewQuizContainer(db *gorm.DB, guard coursemodule.Guard) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(repo, guard)
	handler := NewHandler(service)

	return &QuizContainer{
		Handler: handler,
		Service: service,
	}
}
