package grading_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/grading"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
)

func option(text string, correct bool) quiz.Option {
	return quiz.Option{ID: uuid.New(), Text: text, IsCorrect: correct}
}

// twoQuestionQuiz is Q1 (correct B) and Q2 (correct True).
func twoQuestionQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		ID:    uuid.New(),
		Title: "Warm-up",
		Questions: []quiz.Question{
			{ID: uuid.New(), Text: "Pick B", Type: quiz.MultipleChoice, Points: 1, Options: []quiz.Option{
				option("A", false), option("B", true), option("C", false),
			}},
			{ID: uuid.New(), Text: "The sky is blue", Type: quiz.TrueFalse, Points: 1, Options: []quiz.Option{
				option("True", true), option("False", false),
			}},
		},
	}
}

func TestIsCorrect(t *testing.T) {
	a, b, c := option("A", true), option("B", true), option("C", false)
	q := &quiz.Question{Type: quiz.MultipleChoice, Options: []quiz.Option{a, b, c}}

	tests := []struct {
		name     string
		selected []uuid.UUID
		want     bool
	}{
		{"ExactSet", []uuid.UUID{a.ID, b.ID}, true},
		{"OrderIrrelevant", []uuid.UUID{b.ID, a.ID}, true},
		{"Subset", []uuid.UUID{a.ID}, false},
		{"Superset", []uuid.UUID{a.ID, b.ID, c.ID}, false},
		{"Duplicate", []uuid.UUID{a.ID, a.ID}, false},
		{"Wrong", []uuid.UUID{c.ID}, false},
		{"Empty", nil, false},
		{"Unknown", []uuid.UUID{uuid.New(), uuid.New()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grading.IsCorrect(q, tt.selected))
		})
	}

	t.Run("ShortAnswerNeverCorrect", func(t *testing.T) {
		sa := &quiz.Question{Type: quiz.ShortAnswer}
		assert.False(t, grading.IsCorrect(sa, nil))
	})
}

func TestEvaluateHalfRight(t *testing.T) {
	q := twoQuestionQuiz()
	answers := []grading.Answer{
		{QuestionID: q.Questions[0].ID, SelectedOptions: []uuid.UUID{q.Questions[0].Options[1].ID}},
		{QuestionID: q.Questions[1].ID, SelectedOptions: []uuid.UUID{q.Questions[1].Options[1].ID}},
	}

	res := grading.Evaluate(q, answers)

	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "1/2", res.String())
	assert.InDelta(t, 0.5, res.Ratio(), 1e-9)
	require.Len(t, res.Questions, 2)
	assert.True(t, res.Questions[0].IsCorrect)
	assert.False(t, res.Questions[1].IsCorrect)
	assert.True(t, res.Questions[1].Answered)
}

func TestEvaluateCountsShortAnswerInTotal(t *testing.T) {
	q := twoQuestionQuiz()
	q.Questions = append(q.Questions, quiz.Question{ID: uuid.New(), Text: "Why?", Type: quiz.ShortAnswer, Points: 3})

	res := grading.Evaluate(q, []grading.Answer{{QuestionID: q.Questions[2].ID, TextAnswer: "Because"}})

	assert.Equal(t, 0, res.Correct)
	assert.Equal(t, 3, res.Total)
	assert.True(t, res.Questions[2].Answered)
	assert.False(t, res.Questions[0].Answered)
}

func TestCheckComplete(t *testing.T) {
	q := twoQuestionQuiz()
	q.Questions = append(q.Questions, quiz.Question{ID: uuid.New(), Text: "Why?", Type: quiz.ShortAnswer, Points: 1})

	answers := []grading.Answer{
		{QuestionID: q.Questions[0].ID, SelectedOptions: []uuid.UUID{q.Questions[0].Options[0].ID}},
		{QuestionID: q.Questions[1].ID},
		{QuestionID: q.Questions[2].ID, TextAnswer: "   "},
	}

	err := grading.CheckComplete(q, answers)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, verr.Has("questions[0]"))
	assert.True(t, verr.Has("questions[1]"))
	assert.True(t, verr.Has("questions[2]"), "blank text does not count")

	answers[1].SelectedOptions = []uuid.UUID{q.Questions[1].Options[0].ID}
	answers[2].TextAnswer = "Because"
	assert.NoError(t, grading.CheckComplete(q, answers))
}

func TestCheckReferences(t *testing.T) {
	q := twoQuestionQuiz()
	other := twoQuestionQuiz()

	err := grading.CheckReferences(q, []grading.Answer{
		{QuestionID: q.Questions[0].ID, SelectedOptions: []uuid.UUID{q.Questions[1].Options[0].ID}},
		{QuestionID: other.Questions[0].ID},
		{QuestionID: q.Questions[1].ID, SelectedOptions: []uuid.UUID{q.Questions[1].Options[0].ID}, TextAnswer: "also some text"},
	})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("answers[0].selected_options"))
	assert.True(t, verr.Has("answers[1].question_id"))
	assert.True(t, verr.Has("answers[2].text_answer"))
	assert.False(t, verr.Has("answers[2].selected_options"))
}

func TestReviewSelectionOnShortAnswer(t *testing.T) {
	q := &quiz.Quiz{ID: uuid.New(), Questions: []quiz.Question{
		{ID: uuid.New(), Text: "Explain", Type: quiz.ShortAnswer, Points: 2},
	}}
	rows := grading.Review(q, []grading.Answer{
		{QuestionID: q.Questions[0].ID, SelectedOptions: []uuid.UUID{uuid.New()}},
	})

	require.Len(t, rows, 1)
	assert.False(t, rows[0].Available, "question type changed after submitting")
	assert.Equal(t, []string{grading.NotAvailable}, rows[0].YourAnswer)
	assert.True(t, rows[0].NeedsTeacher)
}

func TestReview(t *testing.T) {
	q := twoQuestionQuiz()
	removedQuestion := uuid.New()
	answers := []grading.Answer{
		{QuestionID: q.Questions[0].ID, SelectedOptions: []uuid.UUID{q.Questions[0].Options[0].ID}},
		{QuestionID: removedQuestion, SelectedOptions: []uuid.UUID{uuid.New()}},
		{QuestionID: q.Questions[1].ID, SelectedOptions: []uuid.UUID{uuid.New()}},
	}

	rows := grading.Review(q, answers)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].Available)
	assert.Equal(t, []string{"A"}, rows[0].YourAnswer)
	assert.Equal(t, []string{"B"}, rows[0].CorrectAnswer)
	assert.False(t, rows[0].IsCorrect)

	assert.False(t, rows[1].Available)
	assert.Equal(t, grading.NotAvailable, rows[1].QuestionText)

	assert.False(t, rows[2].Available, "deleted option")
	assert.Equal(t, []string{grading.NotAvailable}, rows[2].YourAnswer)
	assert.Equal(t, []string{"True"}, rows[2].CorrectAnswer)
}
