package submission

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/grading"
)

type SubmitDTO struct {
	Answers []grading.Answer `json:"answers"`
}

type GradeDTO struct {
	Score           *int   `json:"score" validate:"required,min=0"`
	TeacherFeedback string `json:"teacher_feedback" validate:"max=5000"`
}

type SubmissionResponse struct {
	ID              uuid.UUID           `json:"id"`
	QuizID          uuid.UUID           `json:"quiz_id"`
	StudentID       uuid.UUID           `json:"student_id"`
	Answers         []grading.Answer    `json:"answers"`
	SubmittedAt     time.Time           `json:"submitted_at"`
	IsGraded        bool                `json:"is_graded"`
	Status          string              `json:"status"`
	Score           int                 `json:"score"`
	MaxScore        int                 `json:"max_score"`
	TeacherFeedback string              `json:"teacher_feedback,omitempty"`
	GradedAt        *time.Time          `json:"graded_at,omitempty"`
	Attempts        int                 `json:"attempts"`
	Review          []grading.ReviewRow `json:"review,omitempty"`
}

type SubmitResponse struct {
	Submission *SubmissionResponse `json:"submission"`
	IsRetake   bool                `json:"is_retake"`
}

func toResponse(s *Submission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:              s.ID,
		QuizID:          s.QuizID,
		StudentID:       s.StudentID,
		Answers:         []grading.Answer(s.Answers),
		SubmittedAt:     s.SubmittedAt,
		IsGraded:        s.IsGraded,
		Status:          s.Status(),
		Score:           s.Score,
		MaxScore:        s.MaxScore,
		TeacherFeedback: s.TeacherFeedback,
		GradedAt:        s.GradedAt,
		Attempts:        s.Attempts,
	}
}
