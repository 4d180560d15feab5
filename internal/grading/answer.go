// Package grading scores answers against a quiz. Everything here is pure and
// shared by the server, the API client and the quiz-taking engine.
package grading

import (
	"strings"

	"github.com/google/uuid"
)

type Answer struct {
	QuestionID      uuid.UUID   `json:"question_id"`
	SelectedOptions []uuid.UUID `json:"selected_options"`
	TextAnswer      string      `json:"text_answer,omitempty"`
}

// HasSelection reports whether at least one option was picked.
func (a Answer) HasSelection() bool {
	return len(a.SelectedOptions) > 0
}

func (a Answer) HasText() bool {
	return strings.TrimSpace(a.TextAnswer) != ""
}

// Index returns the answers keyed by question. When a question appears more
// than once the last answer wins.
func Index(answers []Answer) map[uuid.UUID]Answer {
	byQuestion := make(map[uuid.UUID]Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	return byQuestion
}
