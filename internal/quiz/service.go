package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
)

var (
	ErrQuizNotFound    = fmt.Errorf("quiz: %w", apperr.ErrNotFound)
	ErrQuizUnpublished = fmt.Errorf("quiz is not published: %w", apperr.ErrConflict)
)

type QuizService interface {
	CreateQuiz(ctx context.Context, moduleID uuid.UUID, in QuizInput) (*Quiz, error)
	UpdateQuiz(ctx context.Context, quizID uuid.UUID, in QuizInput) (*Quiz, error)
	GetQuiz(ctx context.Context, quizID uuid.UUID) (*Quiz, error)
	ListQuizzes(ctx context.Context, moduleID uuid.UUID) ([]*Quiz, error)
	DeleteQuiz(ctx context.Context, quizID uuid.UUID) error

	// AuthorQuiz loads a quiz the caller may manage, for features built on top of quizzes.
	AuthorQuiz(ctx context.Context, quizID uuid.UUID) (*Quiz, error)
}

type quizService struct {
	repo  QuizRepository
	guard coursemodule.Guard
}

func NewService(repo QuizRepository, guard coursemodule.Guard) QuizService {
	return &quizService{repo: repo, guard: guard}
}

func (s *quizService) CreateQuiz(ctx context.Context, moduleID uuid.UUID, in QuizInput) (*Quiz, error) {
	log := config.WithContext(ctx).WithField("module_id", moduleID)

	if _, err := s.guard.CanAuthor(ctx, moduleID); err != nil {
		return nil, err
	}
	if err := ValidateDraft(in); err != nil {
		log.WithError(err).Debug("Quiz draft rejected")
		return nil, err
	}

	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	authorID, err := claims.UserUUID()
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	q := &Quiz{
		ModuleID:    moduleID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		IsPublished: true,
		CreatedBy:   authorID,
		Questions:   buildQuestions(in.Questions, nil),
	}
	if err := s.repo.Create(ctx, q); err != nil {
		log.WithError(err).Error("Failed to create quiz")
		return nil, err
	}

	log.WithField("quiz_id", q.ID).Infof("Quiz created with %d questions", len(q.Questions))
	return s.repo.GetByID(ctx, q.ID)
}

func (s *quizService) UpdateQuiz(ctx context.Context, quizID uuid.UUID, in QuizInput) (*Quiz, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	current, err := s.AuthorQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := ValidateDraft(in); err != nil {
		log.WithError(err).Debug("Quiz draft rejected")
		return nil, err
	}

	q := &Quiz{
		ID:          current.ID,
		ModuleID:    current.ModuleID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		IsPublished: true,
		CreatedBy:   current.CreatedBy,
		Questions:   buildQuestions(in.Questions, knownIDs(current)),
	}
	if err := s.repo.Replace(ctx, q); err != nil {
		log.WithError(err).Error("Failed to update quiz")
		return nil, err
	}

	log.Info("Quiz updated")
	return s.repo.GetByID(ctx, quizID)
}

func (s *quizService) GetQuiz(ctx context.Context, quizID uuid.UUID) (*Quiz, error) {
	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.CanRead(ctx, q.ModuleID); err != nil {
		return nil, ErrQuizNotFound
	}
	return q, nil
}

func (s *quizService) ListQuizzes(ctx context.Context, moduleID uuid.UUID) ([]*Quiz, error) {
	if _, err := s.guard.CanRead(ctx, moduleID); err != nil {
		return nil, err
	}

	quizzes, err := s.repo.ListByModule(ctx, moduleID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list quizzes")
		return nil, err
	}
	if canManage(ctx) {
		return quizzes, nil
	}

	visible := quizzes[:0]
	for _, q := range quizzes {
		if q.IsPublished {
			visible = append(visible, q)
		}
	}
	return visible, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, quizID uuid.UUID) error {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	if _, err := s.AuthorQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, quizID); err != nil {
		log.WithError(err).Error("Failed to delete quiz")
		return err
	}

	log.Info("Quiz deleted")
	return nil
}

func (s *quizService) AuthorQuiz(ctx context.Context, quizID uuid.UUID) (*Quiz, error) {
	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.CanAuthor(ctx, q.ModuleID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return q, nil
}

func canManage(ctx context.Context) bool {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	return err == nil && claims.Is(auth.RoleTeacher, auth.RoleAdmin)
}

// knownIDs collects the question and option ids of the stored version. Ids
// sent by the form are kept only when they appear here, and only once.
func knownIDs(q *Quiz) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool)
	for _, question := range q.Questions {
		ids[question.ID] = true
		for _, o := range question.Options {
			ids[o.ID] = true
		}
	}
	return ids
}

func buildQuestions(inputs []QuestionInput, known map[uuid.UUID]bool) []Question {
	questions := make([]Question, 0, len(inputs))
	for i, in := range inputs {
		points := in.Points
		if points == 0 {
			points = DefaultPoints
		}

		question := Question{
			ID:         keepID(in.ID, known),
			Text:       strings.TrimSpace(in.Text),
			Type:       in.Type,
			Points:     points,
			OrderIndex: i,
		}
		if in.Type.IsObjective() {
			for j, o := range in.Options {
				question.Options = append(question.Options, Option{
					ID:         keepID(o.ID, known),
					Text:       strings.TrimSpace(o.Text),
					IsCorrect:  o.IsCorrect,
					OrderIndex: j,
				})
			}
		}
		questions = append(questions, question)
	}
	return questions
}

func keepID(id uuid.UUID, known map[uuid.UUID]bool) uuid.UUID {
	if id != uuid.Nil && known[id] {
		known[id] = false
		return id
	}
	return uuid.Nil
}
