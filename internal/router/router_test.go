package router_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/client"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
	"github.com/saulo-duarte/classroom-lambda/internal/container"
	"github.com/saulo-duarte/classroom-lambda/internal/content"
	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
	"github.com/saulo-duarte/classroom-lambda/internal/quizsession"
	"github.com/saulo-duarte/classroom-lambda/internal/router"
	"github.com/saulo-duarte/classroom-lambda/internal/submission"
	"github.com/saulo-duarte/classroom-lambda/internal/testutil"
	"github.com/saulo-duarte/classroom-lambda/internal/user"
)

const pdfHeader = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"

type stack struct {
	url      string
	moduleID uuid.UUID
}

func newStack(t *testing.T) *stack {
	t.Helper()
	auth.Init(&config.Settings{JWTSecret: "router-test-secret"})

	db := testutil.NewDB(t)
	require.NoError(t, container.Migrate(db))

	c, err := container.Wire(db, &config.Settings{
		Env:             config.EnvDevelopment,
		UploadDir:       t.TempDir(),
		MaxUploadBytes:  1 << 20,
		TempFileTTL:     time.Hour,
		JanitorSchedule: "@every 1h",
		RetakePolicy:    "keep-grade",
	})
	require.NoError(t, err)

	ctx := context.Background()
	users := c.UserContainer.Service
	teacher, err := users.CreateUser(ctx, user.CreateUserDTO{Name: "Teacher", Email: "teacher@school.edu", Password: "teacher-pass", Role: auth.RoleTeacher})
	require.NoError(t, err)
	student, err := users.CreateUser(ctx, user.CreateUserDTO{Name: "Student", Email: "student@school.edu", Password: "student-pass", Role: auth.RoleStudent})
	require.NoError(t, err)

	modules := c.ModuleContainer.Service
	module, err := modules.Create(ctx, coursemodule.CreateModuleDTO{Title: "Biology", TeacherID: teacher.ID.String()})
	require.NoError(t, err)
	require.NoError(t, modules.Enroll(testutil.As(student.ID, auth.RoleStudent), module.ID))

	srv := httptest.NewServer(router.New(router.RouterConfig{
		UserHandler:       c.UserContainer.Handler,
		ModuleHandler:     c.ModuleContainer.Handler,
		QuizHandler:       c.QuizContainer.Handler,
		SubmissionHandler: c.SubmissionContainer.Handler,
		ContentHandler:    c.ContentContainer.Handler,
	}))
	t.Cleanup(srv.Close)

	return &stack{url: srv.URL + "/api", moduleID: module.ID}
}

func (s *stack) login(t *testing.T, email, password string) *client.Client {
	t.Helper()
	c := client.New(client.Options{BaseURL: s.url, Timeout: 5 * time.Second, MaxUploadBytes: 1 << 20})
	_, err := c.Login(context.Background(), email, password)
	require.NoError(t, err)
	return c
}

func cellQuiz() quiz.QuizInput {
	return quiz.QuizInput{
		Title: "Cells",
		Questions: []quiz.QuestionInput{
			{Text: "Powerhouse of the cell?", Type: quiz.MultipleChoice, Points: 2, Options: []quiz.OptionInput{
				{Text: "Mitochondria", IsCorrect: true},
				{Text: "Ribosome"},
			}},
			{Text: "Describe osmosis.", Type: quiz.ShortAnswer, Points: 3},
		},
	}
}

func TestQuizLifecycleOverHTTP(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	teacher := s.login(t, "teacher@school.edu", "teacher-pass")
	student := s.login(t, "student@school.edu", "student-pass")

	created, err := teacher.CreateQuiz(ctx, s.moduleID, cellQuiz())
	require.NoError(t, err)

	_, err = student.CreateQuiz(ctx, s.moduleID, cellQuiz())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	quizzes, err := student.ListQuizzes(ctx, s.moduleID)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)

	q, err := student.GetQuiz(ctx, created.ID)
	require.NoError(t, err)

	session := quizsession.New(student.Submitter())
	require.NoError(t, session.Load(q))
	require.NoError(t, session.Select(q.Questions[0].Options[0].ID))
	require.NoError(t, session.SetText("Water moves across a membrane."))

	result, err := session.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1/2", result.String())
	require.Nil(t, session.Notice())
	require.NotNil(t, session.Receipt())
	assert.False(t, session.Receipt().IsRetake)

	list, err := teacher.ListSubmissions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, submission.StatusNeedsGrading, list[0].Status)
	assert.Equal(t, 5, list[0].MaxScore)

	_, err = teacher.GradeSubmission(ctx, list[0].ID, 6, "")
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("score"))

	_, err = teacher.GradeSubmission(ctx, list[0].ID, 4, "Good")
	require.NoError(t, err)

	mine, err := student.MySubmission(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.StatusGraded, mine.Status)
	assert.Equal(t, 4, mine.Score)

	again := quizsession.New(student.Submitter())
	require.NoError(t, again.Load(q))
	require.NoError(t, again.Select(q.Questions[0].Options[1].ID))
	require.NoError(t, again.SetText("Second try."))
	_, err = again.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, again.Receipt())
	assert.True(t, again.Receipt().IsRetake)
	assert.Equal(t, session.Receipt().SubmissionID, again.Receipt().SubmissionID)
}

func TestFilesOverHTTP(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	teacher := s.login(t, "teacher@school.edu", "teacher-pass")
	student := s.login(t, "student@school.edu", "student-pass")

	uploaded, err := teacher.UploadBatch(ctx, s.moduleID, content.Chapter, []client.UploadFile{
		{Name: "one.pdf", Reader: strings.NewReader(pdfHeader + "one")},
		{Name: "two.pdf", Size: 2 << 20, Reader: strings.NewReader(pdfHeader + "two")},
		{Name: "three.pdf", Reader: strings.NewReader(pdfHeader + "three")},
	})
	require.Len(t, uploaded, 2)
	var batchErr *client.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, "two.pdf", batchErr.Failures[0].Name)

	staged, err := student.ListFiles(ctx, s.moduleID, content.Chapter)
	require.NoError(t, err)
	assert.Empty(t, staged, "staged files stay hidden from students")

	committed, err := teacher.CommitFiles(ctx, s.moduleID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, committed)

	files, err := student.ListFiles(ctx, s.moduleID, content.Chapter)
	require.NoError(t, err)
	require.Len(t, files, 2)

	var buf bytes.Buffer
	require.NoError(t, student.Download(ctx, uploaded[1].ID, true, &buf))
	assert.Equal(t, pdfHeader+"three", buf.String())

	assert.ErrorIs(t, student.DeleteFile(ctx, uploaded[0].ID), apperr.ErrForbidden)
	require.NoError(t, teacher.DeleteFile(ctx, uploaded[0].ID))
}

func TestExpiredSessionSignsOut(t *testing.T) {
	s := newStack(t)
	signedOut := false

	session := &client.Session{}
	session.Set("not-a-token", uuid.NewString(), "student")
	c := client.New(client.Options{BaseURL: s.url, Session: session, OnUnauthorized: func() { signedOut = true }})

	_, err := c.ListModules(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.True(t, signedOut)
	assert.False(t, session.SignedIn())
}

func TestHealthz(t *testing.T) {
	s := newStack(t)
	resp, err := http.Get(strings.TrimSuffix(s.url, "/api") + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
