package submission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository interface {
	// Upsert stores s as the live submission of its (quiz, student) pair and
	// reports whether a new row was created.
	Upsert(ctx context.Context, s *Submission, policy RetakePolicy) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	GetByQuizAndStudent(ctx context.Context, quizID, studentID uuid.UUID) (*Submission, error)
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*Submission, error)
	Grade(ctx context.Context, id uuid.UUID, score int, feedback string, gradedAt time.Time) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Upsert(ctx context.Context, s *Submission, policy RetakePolicy) (bool, error) {
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s.Attempts = 1
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(s)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			created = true
			return nil
		}

		updates := map[string]interface{}{
			"answers":      s.Answers,
			"submitted_at": s.SubmittedAt,
			"max_score":    s.MaxScore,
			"attempts":     gorm.Expr("attempts + 1"),
			"updated_at":   time.Now(),
		}
		if policy == ResetGrade {
			updates["is_graded"] = false
			updates["score"] = 0
			updates["teacher_feedback"] = ""
			updates["graded_at"] = nil
		}

		res = tx.Model(&Submission{}).
			Where("quiz_id = ? AND student_id = ?", s.QuizID, s.StudentID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSubmissionNotFound
		}

		var stored Submission
		if err := tx.Where("quiz_id = ? AND student_id = ?", s.QuizID, s.StudentID).First(&stored).Error; err != nil {
			return err
		}
		*s = stored
		return nil
	})
	return created, err
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var s Submission
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepository) GetByQuizAndStudent(ctx context.Context, quizID, studentID uuid.UUID) (*Submission, error) {
	var s Submission
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*Submission, error) {
	var subs []*Submission
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("submitted_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *submissionRepository) Grade(ctx context.Context, id uuid.UUID, score int, feedback string, gradedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&Submission{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_graded":        true,
		"score":            score,
		"teacher_feedback": feedback,
		"graded_at":        gradedAt,
		"updated_at":       time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}
