package grading

import (
	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
)

// NotAvailable stands in for a question or option deleted after the answer was recorded.
const NotAvailable = "answer not available"

type ReviewRow struct {
	QuestionID    uuid.UUID         `json:"question_id"`
	QuestionText  string            `json:"question_text"`
	Type          quiz.QuestionType `json:"type,omitempty"`
	Available     bool              `json:"available"`
	YourAnswer    []string          `json:"your_answer"`
	CorrectAnswer []string          `json:"correct_answer"`
	IsCorrect     bool              `json:"is_correct"`
	NeedsTeacher  bool              `json:"needs_teacher"`
}

// Review lays out each recorded answer next to the current correct answer.
// Rows follow the order the answers were recorded in.
func Review(q *quiz.Quiz, answers []Answer) []ReviewRow {
	rows := make([]ReviewRow, 0, len(answers))

	for _, a := range answers {
		question, ok := q.QuestionByID(a.QuestionID)
		if !ok {
			rows = append(rows, ReviewRow{
				QuestionID:    a.QuestionID,
				QuestionText:  NotAvailable,
				YourAnswer:    []string{NotAvailable},
				CorrectAnswer: []string{NotAvailable},
			})
			continue
		}

		row := ReviewRow{
			QuestionID:   question.ID,
			QuestionText: question.Text,
			Type:         question.Type,
			Available:    true,
		}

		switch question.Type {
		case quiz.MultipleChoice, quiz.TrueFalse:
			for _, id := range a.SelectedOptions {
				o, ok := question.OptionByID(id)
				if !ok {
					row.Available = false
					row.YourAnswer = append(row.YourAnswer, NotAvailable)
					continue
				}
				row.YourAnswer = append(row.YourAnswer, o.Text)
			}
			for _, o := range question.Options {
				if o.IsCorrect {
					row.CorrectAnswer = append(row.CorrectAnswer, o.Text)
				}
			}
			row.IsCorrect = IsCorrect(question, a.SelectedOptions)
		case quiz.ShortAnswer:
			if a.HasText() {
				row.YourAnswer = []string{a.TextAnswer}
			} else if a.HasSelection() {
				// Selections made before the question became short answer.
				row.Available = false
				row.YourAnswer = []string{NotAvailable}
			}
			row.NeedsTeacher = true
		}
		rows = append(rows, row)
	}
	return rows
}
