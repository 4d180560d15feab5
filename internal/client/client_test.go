package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	"github.com/saulo-duarte/classroom-lambda/internal/client"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
	"github.com/saulo-duarte/classroom-lambda/internal/content"
	"github.com/saulo-duarte/classroom-lambda/internal/grading"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
	"github.com/saulo-duarte/classroom-lambda/internal/quizsession"
	"github.com/saulo-duarte/classroom-lambda/internal/submission"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, handler http.HandlerFunc, onUnauthorized func()) (*client.Client, *client.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session := &client.Session{}
	session.Set("token-123", uuid.NewString(), "student")
	c := client.New(client.Options{
		BaseURL:        srv.URL + "/api",
		Session:        session,
		Timeout:        5 * time.Second,
		OnUnauthorized: onUnauthorized,
	})
	return c, session
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://school.example/api", client.BaseURL(config.EnvProduction, "https://school.example/"))
	assert.Equal(t, "/api", client.BaseURL(config.EnvProduction, ""))
	assert.Equal(t, "http://localhost:5000/api", client.BaseURL(config.EnvDevelopment, "https://school.example"))
}

func TestBearerToken(t *testing.T) {
	var got string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []interface{}{})
	}, nil)

	_, err := c.ListModules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", got)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	var fired int32
	c, session := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, apperr.Body{Error: "unauthorized"})
	}, func() { atomic.AddInt32(&fired, 1) })

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.False(t, session.SignedIn())
	assert.EqualValues(t, 1, atomic.LoadInt32(&fired))
}

func TestPasswordChangeKeepsSession(t *testing.T) {
	var fired int32
	c, session := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/me/password", r.URL.Path)
		writeJSON(w, http.StatusUnauthorized, apperr.Body{Error: "incorrect password"})
	}, func() { atomic.AddInt32(&fired, 1) })

	err := c.ChangePassword(context.Background(), "wrong-password", "a-new-password")
	assert.ErrorIs(t, err, client.ErrIncorrectPassword)
	assert.True(t, session.SignedIn())
	assert.Zero(t, atomic.LoadInt32(&fired))
}

func TestValidationErrorsAreTyped(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, apperr.Body{
			Error:  "validation failed",
			Fields: map[string]string{"questions[1]": "this question has not been answered"},
		})
	}, nil)

	_, err := c.SubmitQuiz(context.Background(), uuid.New(), nil)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("questions[1]"))
}

func TestPlainTextErrors(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
	}, nil)

	_, err := c.GetQuiz(context.Background(), uuid.New())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid quiz id", apiErr.Message)
}

func TestDraftValidatedBeforeSending(t *testing.T) {
	var calls int32
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusCreated, quiz.Quiz{})
	}, nil)

	_, err := c.CreateQuiz(context.Background(), uuid.New(), quiz.QuizInput{Title: "Empty"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestUploadBatchPartialFailure(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if header.Filename == "two.pdf" {
			// Drop the connection to simulate a network failure.
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		writeJSON(w, http.StatusCreated, content.FileDescriptor{
			ID:           uuid.New(),
			OriginalName: header.Filename,
			Size:         header.Size,
			Temporary:    true,
		})
	}, nil)

	files := []client.UploadFile{
		{Name: "one.pdf", Reader: strings.NewReader("1")},
		{Name: "two.pdf", Reader: strings.NewReader("2")},
		{Name: "three.pdf", Reader: strings.NewReader("3")},
	}
	uploaded, err := c.UploadBatch(context.Background(), uuid.New(), content.Chapter, files)

	require.Len(t, uploaded, 2)
	assert.Equal(t, "one.pdf", uploaded[0].OriginalName)
	assert.Equal(t, "three.pdf", uploaded[1].OriginalName)

	var batchErr *client.BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Failures, 1)
	assert.Equal(t, "two.pdf", batchErr.Failures[0].Name)
	assert.Equal(t, "failed to upload two.pdf", err.Error())
}

func TestUploadRefusesOversizedFileLocally(t *testing.T) {
	var calls int32
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusCreated, content.FileDescriptor{})
	}, nil)

	_, err := c.UploadBatch(context.Background(), uuid.New(), content.Syllabus, []client.UploadFile{
		{Name: "huge.mp4", Size: client.DefaultMaxUploadBytes + 1, Reader: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, apperr.ErrTooLarge)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmitterDrivesSession(t *testing.T) {
	q := &quiz.Quiz{ID: uuid.New(), Questions: []quiz.Question{
		{ID: uuid.New(), Type: quiz.TrueFalse, Points: 1, Options: []quiz.Option{
			{ID: uuid.New(), Text: "True", IsCorrect: true},
			{ID: uuid.New(), Text: "False"},
		}},
	}}
	submissionID := uuid.New()

	var received submission.SubmitDTO
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quizzes/"+q.ID.String()+"/submit", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		writeJSON(w, http.StatusOK, submission.SubmitResponse{
			Submission: &submission.SubmissionResponse{ID: submissionID},
			IsRetake:   true,
		})
	}, nil)

	s := quizsession.New(c.Submitter())
	require.NoError(t, s.Load(q))
	require.NoError(t, s.Select(q.Questions[0].Options[0].ID))

	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Correct)

	require.NotNil(t, s.Receipt())
	assert.Equal(t, submissionID, s.Receipt().SubmissionID)
	assert.True(t, s.Receipt().IsRetake)
	require.Len(t, received.Answers, 1)
	assert.Equal(t, []grading.Answer{{QuestionID: q.Questions[0].ID, SelectedOptions: []uuid.UUID{q.Questions[0].Options[0].ID}}}, received.Answers)
}

func TestSubmitterFailureBecomesNotice(t *testing.T) {
	q := &quiz.Quiz{ID: uuid.New(), Questions: []quiz.Question{
		{ID: uuid.New(), Type: quiz.ShortAnswer, Points: 1},
	}}
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, apperr.Body{Error: "internal server error"})
	}, nil)

	s := quizsession.New(c.Submitter())
	require.NoError(t, s.Load(q))
	require.NoError(t, s.SetText("an answer"))

	_, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s.Notice())
	assert.Equal(t, quizsession.SaveFailed, s.Notice().Kind)

	var apiErr *client.APIError
	assert.True(t, errors.As(s.Notice().Err, &apiErr))
}

func TestLatestDropsStaleResults(t *testing.T) {
	var latest client.Latest

	first := latest.Begin()
	second := latest.Begin()

	assert.False(t, first.Current(), "superseded")
	assert.True(t, second.Current())
}
