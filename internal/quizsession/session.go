// Package quizsession drives a student through a quiz: answering question by
// question, submitting, then walking the graded review.
package quizsession

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/grading"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
)

type Phase int

const (
	Loading Phase = iota
	InProgress
	Reviewing
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case InProgress:
		return "in-progress"
	case Reviewing:
		return "reviewing"
	default:
		return "unknown"
	}
}

// ResultsStep is the step of the scoreboard shown right after submitting.
const ResultsStep = -1

var (
	ErrNotLoaded        = errors.New("quizsession: no quiz loaded")
	ErrEmptyQuiz        = errors.New("quizsession: quiz has no questions")
	ErrAlreadySubmitted = errors.New("quizsession: answers are read-only after submitting")
	ErrNotSubmitted     = errors.New("quizsession: quiz has not been submitted")
	ErrWrongType        = errors.New("quizsession: operation does not apply to this question type")
	ErrUnknownOption    = errors.New("quizsession: option does not belong to this question")
	ErrOutOfRange       = errors.New("quizsession: question index out of range")
)

// Receipt is what the server answered to a submit.
type Receipt struct {
	SubmissionID uuid.UUID
	IsRetake     bool
}

// Submitter transmits answers. The API client implements it.
type Submitter interface {
	SubmitQuiz(ctx context.Context, quizID uuid.UUID, answers []grading.Answer) (*Receipt, error)
}

type NoticeKind string

const SaveFailed NoticeKind = "save-failed"

// Notice is a non-blocking message for the student. It never undoes the local result.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

type Session struct {
	mu        sync.Mutex
	submitter Submitter

	quiz    *quiz.Quiz
	phase   Phase
	step    int
	answers []grading.Answer
	result  *grading.Result
	receipt *Receipt
	notice  *Notice

	// generation changes on every Load so a late submit response for a
	// previous quiz is dropped.
	generation int
}

func New(submitter Submitter) *Session {
	return &Session{submitter: submitter, phase: Loading}
}

// Load starts a fresh attempt at step 0.
func (s *Session) Load(q *quiz.Quiz) error {
	if q == nil {
		return ErrNotLoaded
	}
	if len(q.Questions) == 0 {
		return ErrEmptyQuiz
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.quiz = q
	s.phase = InProgress
	s.step = 0
	s.answers = make([]grading.Answer, len(q.Questions))
	for i, question := range q.Questions {
		s.answers[i] = grading.Answer{QuestionID: question.ID}
	}
	s.result = nil
	s.receipt = nil
	s.notice = nil
	s.generation++
	return nil
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Next moves one question forward. It returns false, leaving the step
// unchanged, on the last question. From the scoreboard it goes to the first
// question.
func (s *Session) Next() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Loading {
		return false, ErrNotLoaded
	}

	if s.step == ResultsStep {
		s.step = 0
		return true, nil
	}
	if s.step >= len(s.quiz.Questions)-1 {
		return false, nil
	}
	s.step++
	return true, nil
}

func (s *Session) Previous() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Loading {
		return false, ErrNotLoaded
	}

	if s.step <= 0 {
		return false, nil
	}
	s.step--
	return true, nil
}

// Select picks an option on the current question. Multiple choice moves on
// to the next question unless this is the last one; true/false stays put.
func (s *Session) Select(optionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	question, err := s.editable()
	if err != nil {
		return err
	}
	if _, ok := question.OptionByID(optionID); !ok {
		return ErrUnknownOption
	}

	switch question.Type {
	case quiz.MultipleChoice:
		s.answers[s.step].SelectedOptions = []uuid.UUID{optionID}
		if s.step < len(s.quiz.Questions)-1 {
			s.step++
		}
		return nil
	case quiz.TrueFalse:
		s.answers[s.step].SelectedOptions = []uuid.UUID{optionID}
		return nil
	case quiz.ShortAnswer:
		return ErrWrongType
	default:
		return ErrWrongType
	}
}

// SetText stores a short answer without moving.
func (s *Session) SetText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	question, err := s.editable()
	if err != nil {
		return err
	}
	if question.Type != quiz.ShortAnswer {
		return ErrWrongType
	}
	s.answers[s.step].TextAnswer = text
	return nil
}

func (s *Session) editable() (*quiz.Question, error) {
	switch s.phase {
	case Loading:
		return nil, ErrNotLoaded
	case Reviewing:
		return nil, ErrAlreadySubmitted
	}
	return &s.quiz.Questions[s.step], nil
}

// CanSubmit reports whether every question has an answer.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == InProgress && grading.CheckComplete(s.quiz, s.answers) == nil
}

// Submit scores the attempt locally, switches to the scoreboard and then
// transmits the answers. A transmission failure is kept as a SaveFailed
// notice; the returned result stays valid either way.
func (s *Session) Submit(ctx context.Context) (grading.Result, error) {
	s.mu.Lock()
	switch s.phase {
	case Loading:
		s.mu.Unlock()
		return grading.Result{}, ErrNotLoaded
	case Reviewing:
		s.mu.Unlock()
		return grading.Result{}, ErrAlreadySubmitted
	}
	if err := grading.CheckComplete(s.quiz, s.answers); err != nil {
		s.mu.Unlock()
		return grading.Result{}, err
	}

	result := grading.Evaluate(s.quiz, s.answers)
	s.result = &result
	s.phase = Reviewing
	s.step = ResultsStep

	quizID := s.quiz.ID
	answers := cloneAnswers(s.answers)
	generation := s.generation
	s.mu.Unlock()

	if s.submitter == nil {
		return result, nil
	}
	receipt, err := s.submitter.SubmitQuiz(ctx, quizID, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return result, nil
	}
	if err != nil {
		s.notice = &Notice{
			Kind:    SaveFailed,
			Message: "your answers were scored but could not be saved",
			Err:     err,
		}
		return result, nil
	}
	s.receipt = receipt
	return result, nil
}

// ShowResults returns to the scoreboard.
func (s *Session) ShowResults() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reviewing(); err != nil {
		return err
	}
	s.step = ResultsStep
	return nil
}

// JumpTo opens question i of the review.
func (s *Session) JumpTo(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reviewing(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.quiz.Questions) {
		return ErrOutOfRange
	}
	s.step = i
	return nil
}

func (s *Session) reviewing() error {
	switch s.phase {
	case Loading:
		return ErrNotLoaded
	case InProgress:
		return ErrNotSubmitted
	}
	return nil
}

func (s *Session) Answers() ([]grading.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Loading {
		return nil, ErrNotLoaded
	}
	return cloneAnswers(s.answers), nil
}

// Result is nil until the quiz has been submitted.
func (s *Session) Result() *grading.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) Receipt() *Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receipt
}

func (s *Session) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

func (s *Session) DismissNotice() {
	s.mu.Lock()
	s.notice = nil
	s.mu.Unlock()
}

func cloneAnswers(answers []grading.Answer) []grading.Answer {
	out := make([]grading.Answer, len(answers))
	for i, a := range answers {
		out[i] = a
		out[i].SelectedOptions = append([]uuid.UUID(nil), a.SelectedOptions...)
	}
	return out
}
