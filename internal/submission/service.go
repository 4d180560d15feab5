package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
	"github.com/saulo-duarte/classroom-lambda/internal/grading"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
)

var (
	ErrSubmissionNotFound = fmt.Errorf("submission: %w", apperr.ErrNotFound)
	ErrStudentsOnly       = fmt.Errorf("only students submit quizzes: %w", apperr.ErrForbidden)
)

type SubmissionService interface {
	Submit(ctx context.Context, quizID uuid.UUID, dto SubmitDTO) (*SubmitResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*SubmissionResponse, error)
	GetMine(ctx context.Context, quizID uuid.UUID) (*SubmissionResponse, error)
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*SubmissionResponse, error)
	Grade(ctx context.Context, id uuid.UUID, dto GradeDTO) (*SubmissionResponse, error)
}

type submissionService struct {
	repo    SubmissionRepository
	quizzes quiz.QuizService
	policy  RetakePolicy
	now     func() time.Time
}

func NewService(repo SubmissionRepository, quizzes quiz.QuizService, policy RetakePolicy) SubmissionService {
	return &submissionService{
		repo:    repo,
		quizzes: quizzes,
		policy:  policy,
		now:     time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, quizID uuid.UUID, dto SubmitDTO) (*SubmitResponse, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	claims, studentID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if claims.Role != auth.RoleStudent {
		return nil, ErrStudentsOnly
	}

	q, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !q.IsPublished {
		return nil, quiz.ErrQuizUnpublished
	}

	if err := grading.CheckReferences(q, dto.Answers); err != nil {
		log.WithError(err).Warn("Submission references foreign questions or options")
		return nil, err
	}
	if err := grading.CheckComplete(q, dto.Answers); err != nil {
		log.WithError(err).Debug("Incomplete submission rejected")
		return nil, err
	}

	sub := &Submission{
		QuizID:      q.ID,
		StudentID:   studentID,
		Answers:     inQuestionOrder(q, dto.Answers),
		SubmittedAt: s.now(),
		MaxScore:    q.MaxScore(),
	}
	created, err := s.repo.Upsert(ctx, sub, s.policy)
	if err != nil {
		log.WithError(err).Error("Failed to store submission")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"submission_id": sub.ID,
		"is_retake":     !created,
		"attempts":      sub.Attempts,
	}).Info("Quiz submitted")

	return &SubmitResponse{Submission: withReview(sub, q), IsRetake: !created}, nil
}

// Get shows a submission with its review. Students only see their own.
func (s *submissionService) Get(ctx context.Context, id uuid.UUID) (*SubmissionResponse, error) {
	claims, userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var q *quiz.Quiz
	if claims.Role == auth.RoleStudent {
		if sub.StudentID != userID {
			return nil, ErrSubmissionNotFound
		}
		q, err = s.quizzes.GetQuiz(ctx, sub.QuizID)
	} else {
		q, err = s.quizzes.AuthorQuiz(ctx, sub.QuizID)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	return withReview(sub, q), nil
}

func (s *submissionService) GetMine(ctx context.Context, quizID uuid.UUID) (*SubmissionResponse, error) {
	_, userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	q, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	sub, err := s.repo.GetByQuizAndStudent(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	return withReview(sub, q), nil
}

// ListByQuiz is the teacher's grading queue, most recent first.
func (s *submissionService) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*SubmissionResponse, error) {
	if _, err := s.quizzes.AuthorQuiz(ctx, quizID); err != nil {
		return nil, err
	}

	subs, err := s.repo.ListByQuiz(ctx, quizID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list submissions")
		return nil, err
	}

	out := make([]*SubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toResponse(sub))
	}
	return out, nil
}

// Grade records the teacher's score. It overrides any automatic correctness
// and may be repeated.
func (s *submissionService) Grade(ctx context.Context, id uuid.UUID, dto GradeDTO) (*SubmissionResponse, error) {
	log := config.WithContext(ctx).WithField("submission_id", id)

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q, err := s.quizzes.AuthorQuiz(ctx, sub.QuizID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}
	if *dto.Score > sub.MaxScore {
		verr := apperr.NewValidation()
		verr.Add("score", fmt.Sprintf("must be at most %d", sub.MaxScore))
		return nil, verr
	}

	gradedAt := s.now()
	if err := s.repo.Grade(ctx, id, *dto.Score, dto.TeacherFeedback, gradedAt); err != nil {
		log.WithError(err).Error("Failed to grade submission")
		return nil, err
	}
	log.WithField("score", *dto.Score).Info("Submission graded")

	sub.IsGraded = true
	sub.Score = *dto.Score
	sub.TeacherFeedback = dto.TeacherFeedback
	sub.GradedAt = &gradedAt
	return withReview(sub, q), nil
}

func withReview(sub *Submission, q *quiz.Quiz) *SubmissionResponse {
	resp := toResponse(sub)
	resp.Review = grading.Review(q, sub.Answers)
	return resp
}

// inQuestionOrder keeps one answer per question, in the quiz's order.
func inQuestionOrder(q *quiz.Quiz, answers []grading.Answer) []grading.Answer {
	byQuestion := grading.Index(answers)
	ordered := make([]grading.Answer, 0, len(q.Questions))
	for _, question := range q.Questions {
		if a, ok := byQuestion[question.ID]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

func caller(ctx context.Context) (*auth.Claims, uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, uuid.Nil, apperr.ErrUnauthorized
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, uuid.Nil, apperr.ErrUnauthorized
	}
	return claims, userID, nil
}
