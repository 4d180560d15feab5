package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(ctx context.Context, q *Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	ListByModule(ctx context.Context, moduleID uuid.UUID) ([]*Quiz, error)
	QuestionIDs(ctx context.Context, quizID uuid.UUID) ([]uuid.UUID, error)
	OptionIDs(ctx context.Context, questionIDs []uuid.UUID) ([]uuid.UUID, error)
	Replace(ctx context.Context, q *Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func withOrderedQuestions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index ASC")
		}).
		Preload("Questions.Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index ASC")
		})
}

// Create inserts the quiz with its questions and options in one transaction.
func (r *quizRepository) Create(ctx context.Context, q *Quiz) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(q).Error
	})
}

func (r *quizRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	if err := withOrderedQuestions(r.db.WithContext(ctx)).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) ListByModule(ctx context.Context, moduleID uuid.UUID) ([]*Quiz, error) {
	var quizzes []*Quiz
	if err := withOrderedQuestions(r.db.WithContext(ctx)).
		Where("module_id = ?", moduleID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) QuestionIDs(ctx context.Context, quizID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&Question{}).Where("quiz_id = ?", quizID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *quizRepository) OptionIDs(ctx context.Context, questionIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&Option{}).Where("question_id IN ?", questionIDs).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Replace overwrites the quiz header and its whole question list.
func (r *quizRepository) Replace(ctx context.Context, q *Quiz) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Quiz{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
			"title":        q.Title,
			"description":  q.Description,
			"is_published": q.IsPublished,
			"updated_at":   time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuizNotFound
		}

		if err := deleteQuestions(tx, q.ID); err != nil {
			return err
		}

		for i := range q.Questions {
			q.Questions[i].QuizID = q.ID
		}
		if len(q.Questions) == 0 {
			return nil
		}
		return tx.Create(&q.Questions).Error
	})
}

func (r *quizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteQuestions(tx, id); err != nil {
			return err
		}
		res := tx.Delete(&Quiz{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuizNotFound
		}
		return nil
	})
}

func deleteQuestions(tx *gorm.DB, quizID uuid.UUID) error {
	questionIDs := tx.Model(&Question{}).Select("id").Where("quiz_id = ?", quizID)
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&Option{}).Error; err != nil {
		return err
	}
	return tx.Where("quiz_id = ?", quizID).Delete(&Question{}).Error
}
