package quizsession

import (
	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/grading"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
)

type OptionView struct {
	ID       uuid.UUID
	Text     string
	Selected bool
	// Correct is only filled in while reviewing.
	Correct bool
}

// View is what the current step shows. On the scoreboard Question is nil and
// Results is set.
type View struct {
	Phase    Phase
	Step     int
	Total    int
	Question *quiz.Question
	Options  []OptionView
	Text     string

	// Input hints for the answering phase.
	AdvancesOnSelect bool
	AcceptsText      bool

	// Review fields.
	Answered  bool
	IsCorrect bool
	Review    *grading.ReviewRow
	Results   *grading.Result
}

func (s *Session) Current() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Loading {
		return View{}, ErrNotLoaded
	}

	v := View{Phase: s.phase, Step: s.step, Total: len(s.quiz.Questions)}
	if s.step == ResultsStep {
		v.Results = s.result
		return v, nil
	}

	question := &s.quiz.Questions[s.step]
	answer := s.answers[s.step]
	reviewing := s.phase == Reviewing
	v.Question = question

	switch question.Type {
	case quiz.MultipleChoice, quiz.TrueFalse:
		selected := make(map[uuid.UUID]bool, len(answer.SelectedOptions))
		for _, id := range answer.SelectedOptions {
			selected[id] = true
		}
		for _, o := range question.Options {
			ov := OptionView{ID: o.ID, Text: o.Text, Selected: selected[o.ID]}
			if reviewing {
				ov.Correct = o.IsCorrect
			}
			v.Options = append(v.Options, ov)
		}
		v.AdvancesOnSelect = question.Type == quiz.MultipleChoice && s.step < len(s.quiz.Questions)-1
	case quiz.ShortAnswer:
		v.Text = answer.TextAnswer
		v.AcceptsText = true
	}

	if reviewing {
		v.AdvancesOnSelect = false
		v.AcceptsText = false
		if s.result != nil && s.step < len(s.result.Questions) {
			v.Answered = s.result.Questions[s.step].Answered
			v.IsCorrect = s.result.Questions[s.step].IsCorrect
		}
		rows := grading.Review(s.quiz, []grading.Answer{answer})
		v.Review = &rows[0]
	}
	return v, nil
}
