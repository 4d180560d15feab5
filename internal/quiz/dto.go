package quiz

import "github.com/google/uuid"

// QuizInput is the authoring form payload for both create and update.
type QuizInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions"`
}

type QuestionInput struct {
	ID      uuid.UUID     `json:"id,omitempty"`
	Text    string        `json:"text"`
	Type    QuestionType  `json:"type"`
	Points  int           `json:"points"`
	Options []OptionInput `json:"options"`
}

type OptionInput struct {
	ID        uuid.UUID `json:"id,omitempty"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"is_correct"`
}
