package quiz_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
	"github.com/saulo-duarte/classroom-lambda/internal/testutil"
)

type fixture struct {
	svc      quiz.QuizService
	repo     quiz.QuizRepository
	moduleID uuid.UUID
	teacher  context.Context
	other    context.Context
	student  context.Context
	outsider context.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t,
		&coursemodule.Module{}, &coursemodule.Enrollment{},
		&quiz.Quiz{}, &quiz.Question{}, &quiz.Option{},
	)

	modules := coursemodule.NewService(coursemodule.NewRepository(db))
	teacherID := uuid.New()
	m, err := modules.Create(testutil.As(uuid.New(), auth.RoleAdmin), coursemodule.CreateModuleDTO{
		Title:     "Maths",
		TeacherID: teacherID.String(),
	})
	require.NoError(t, err)

	student := testutil.As(uuid.New(), auth.RoleStudent)
	require.NoError(t, modules.Enroll(student, m.ID))

	repo := quiz.NewRepository(db)
	return fixture{
		svc:      quiz.NewService(repo, modules),
		repo:     repo,
		moduleID: m.ID,
		teacher:  testutil.As(teacherID, auth.RoleTeacher),
		other:    testutil.As(uuid.New(), auth.RoleTeacher),
		student:  student,
		outsider: testutil.As(uuid.New(), auth.RoleStudent),
	}
}

func TestCreateQuiz(t *testing.T) {
	f := newFixture(t)

	q, err := f.svc.CreateQuiz(f.teacher, f.moduleID, validDraft())
	require.NoError(t, err)

	assert.True(t, q.IsPublished)
	assert.Equal(t, f.moduleID, q.ModuleID)
	require.Len(t, q.Questions, 3)
	assert.Equal(t, "1/2 + 1/4?", q.Questions[0].Text)
	assert.Equal(t, quiz.DefaultPoints, q.Questions[1].Points, "missing points default to 1")
	assert.Equal(t, 8, q.MaxScore())

	require.Len(t, q.Questions[1].Options, 2)
	assert.Equal(t, "True", q.Questions[1].Options[0].Text)
	assert.Equal(t, []uuid.UUID{q.Questions[1].Options[0].ID}, q.Questions[1].CorrectOptionIDs())
	assert.Empty(t, q.Questions[2].Options)
}

func TestCreateQuizRejectsInvalidDraft(t *testing.T) {
	f := newFixture(t)

	in := validDraft()
	in.Questions[0].Options[0].Text = ""
	_, err := f.svc.CreateQuiz(f.teacher, f.moduleID, in)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("questions[0].options[0].text"))

	quizzes, err := f.svc.ListQuizzes(f.teacher, f.moduleID)
	require.NoError(t, err)
	assert.Empty(t, quizzes, "nothing is persisted")
}

func TestQuizAccess(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.CreateQuiz(f.teacher, f.moduleID, validDraft())
	require.NoError(t, err)

	_, err = f.svc.CreateQuiz(f.other, f.moduleID, validDraft())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.CreateQuiz(f.student, f.moduleID, validDraft())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := f.svc.GetQuiz(f.student, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)

	_, err = f.svc.GetQuiz(f.outsider, q.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.UpdateQuiz(f.other, q.ID, validDraft())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = f.svc.DeleteQuiz(f.student, q.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUpdateQuizReplacesQuestions(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.CreateQuiz(f.teacher, f.moduleID, validDraft())
	require.NoError(t, err)

	kept := q.Questions[0]
	foreign := uuid.New()
	in := quiz.QuizInput{
		Title: "Fractions v2",
		Questions: []quiz.QuestionInput{
			{ID: foreign, Text: "New first", Type: quiz.ShortAnswer, Points: 3},
			{ID: kept.ID, Text: kept.Text, Type: kept.Type, Points: 4, Options: []quiz.OptionInput{
				{ID: kept.Options[0].ID, Text: "3/4", IsCorrect: true},
				{Text: "1/6"},
			}},
		},
	}

	updated, err := f.svc.UpdateQuiz(f.teacher, q.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Fractions v2", updated.Title)
	assert.True(t, updated.IsPublished)
	require.Len(t, updated.Questions, 2)
	assert.Equal(t, 7, updated.MaxScore())

	assert.NotEqual(t, foreign, updated.Questions[0].ID, "ids from elsewhere are not adopted")
	assert.Equal(t, kept.ID, updated.Questions[1].ID)
	assert.Equal(t, kept.Options[0].ID, updated.Questions[1].Options[0].ID)
	assert.Equal(t, "1/6", updated.Questions[1].Options[1].Text)

	_, found := updated.QuestionByID(q.Questions[2].ID)
	assert.False(t, found, "dropped questions are removed")
}

func TestDeleteQuiz(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.CreateQuiz(f.teacher, f.moduleID, validDraft())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteQuiz(f.teacher, q.ID))

	_, err = f.repo.GetByID(context.Background(), q.ID)
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
	ids, err := f.repo.QuestionIDs(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	err = f.svc.DeleteQuiz(f.teacher, q.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
