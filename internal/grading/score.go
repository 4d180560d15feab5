package grading

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
)

// IsCorrect compares the selection with the correct options as sets. Any
// missing, extra or repeated option makes the answer incorrect. Short answer
// questions are never auto-correct.
func IsCorrect(q *quiz.Question, selected []uuid.UUID) bool {
	switch q.Type {
	case quiz.MultipleChoice, quiz.TrueFalse:
		correct := q.CorrectOptionIDs()
		if len(selected) != len(correct) || len(correct) == 0 {
			return false
		}

		want := make(map[uuid.UUID]bool, len(correct))
		for _, id := range correct {
			want[id] = true
		}
		for _, id := range selected {
			if !want[id] {
				return false
			}
			delete(want, id)
		}
		return len(want) == 0
	case quiz.ShortAnswer:
		return false
	default:
		return false
	}
}

type QuestionResult struct {
	QuestionID uuid.UUID `json:"question_id"`
	Answered   bool      `json:"answered"`
	IsCorrect  bool      `json:"is_correct"`
}

// Result is the provisional local score. Short answers count toward Total
// but never toward Correct; the teacher's grade supersedes it.
type Result struct {
	Questions []QuestionResult `json:"questions"`
	Correct   int              `json:"correct"`
	Total     int              `json:"total"`
}

func (r Result) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

func (r Result) String() string {
	return fmt.Sprintf("%d/%d", r.Correct, r.Total)
}

func Evaluate(q *quiz.Quiz, answers []Answer) Result {
	byQuestion := Index(answers)
	res := Result{Total: len(q.Questions)}

	for i := range q.Questions {
		question := &q.Questions[i]
		a, ok := byQuestion[question.ID]

		qr := QuestionResult{QuestionID: question.ID, Answered: ok && isAnswered(question, a)}
		if ok {
			qr.IsCorrect = IsCorrect(question, a.SelectedOptions)
		}
		if qr.IsCorrect {
			res.Correct++
		}
		res.Questions = append(res.Questions, qr)
	}
	return res
}

// CheckComplete fails with a field per unanswered question, keyed like the
// authoring form (questions[i]).
func CheckComplete(q *quiz.Quiz, answers []Answer) error {
	byQuestion := Index(answers)
	verr := apperr.NewValidation()

	for i := range q.Questions {
		question := &q.Questions[i]
		if a, ok := byQuestion[question.ID]; !ok || !isAnswered(question, a) {
			verr.Add(fmt.Sprintf("questions[%d]", i), "this question has not been answered")
		}
	}
	return verr.OrNil()
}

// CheckReferences rejects answers naming questions or options that are not
// part of the quiz.
func CheckReferences(q *quiz.Quiz, answers []Answer) error {
	verr := apperr.NewValidation()

	for i, a := range answers {
		path := fmt.Sprintf("answers[%d]", i)
		question, ok := q.QuestionByID(a.QuestionID)
		if !ok {
			verr.Add(path+".question_id", "question does not belong to this quiz")
			continue
		}
		for _, id := range a.SelectedOptions {
			if _, ok := question.OptionByID(id); !ok {
				verr.Add(path+".selected_options", "option does not belong to this question")
				break
			}
		}
		if question.Type.IsObjective() && a.TextAnswer != "" {
			verr.Add(path+".text_answer", "objective questions take no text")
		}
	}
	return verr.OrNil()
}

func isAnswered(q *quiz.Question, a Answer) bool {
	switch q.Type {
	case quiz.MultipleChoice, quiz.TrueFalse:
		return a.HasSelection()
	case quiz.ShortAnswer:
		return a.HasText()
	default:
		return false
	}
}
