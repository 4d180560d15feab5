package submission

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lambda/internal/grading"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
)

const (
	StatusGraded       = "Graded"
	StatusNeedsGrading = "Needs Grading"
)

// Submission is the single live attempt of a student at a quiz. A retake
// overwrites it in place.
type Submission struct {
	ID              uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID          uuid.UUID                           `gorm:"type:uuid;not null;uniqueIndex:idx_submission_quiz_student" json:"quiz_id"`
	StudentID       uuid.UUID                           `gorm:"type:uuid;not null;uniqueIndex:idx_submission_quiz_student;index" json:"student_id"`
	Answers         datatypes.JSONSlice[grading.Answer] `gorm:"not null" json:"answers"`
	SubmittedAt     time.Time                           `gorm:"not null;index" json:"submitted_at"`
	IsGraded        bool                                `gorm:"not null" json:"is_graded"`
	Score           int                                 `gorm:"not null" json:"score"`
	MaxScore        int                                 `gorm:"not null" json:"max_score"`
	TeacherFeedback string                              `gorm:"type:text" json:"teacher_feedback,omitempty"`
	GradedAt        *time.Time                          `json:"graded_at,omitempty"`
	Attempts        int                                 `gorm:"not null" json:"attempts"`
	CreatedAt       time.Time                           `json:"created_at"`
	UpdatedAt       time.Time                           `json:"updated_at"`

	Quiz *quiz.Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Submission) Status() string {
	if s.IsGraded {
		return StatusGraded
	}
	return StatusNeedsGrading
}
