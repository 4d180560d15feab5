package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
	"github.com/saulo-duarte/classroom-lambda/internal/grading"
	"github.com/saulo-duarte/classroom-lambda/internal/quiz"
	"github.com/saulo-duarte/classroom-lambda/internal/quizsession"
	"github.com/saulo-duarte/classroom-lambda/internal/submission"
	"github.com/saulo-duarte/classroom-lambda/internal/user"
)

func (c *Client) Login(ctx context.Context, email, password string) (*user.LoginResponse, error) {
	dto := user.LoginDTO{Email: email, Password: password}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	var out user.LoginResponse
	if err := do(c.request(ctx).SetBody(dto).SetResult(&out), http.MethodPost, "/auth/login"); err != nil {
		return nil, err
	}
	c.session.Set(out.Token, out.User.ID.String(), string(out.User.Role))
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := do(c.request(ctx), http.MethodPost, "/auth/logout")
	c.session.Clear()
	return err
}

func (c *Client) Me(ctx context.Context) (*user.UserResponse, error) {
	var out user.UserResponse
	if err := do(c.request(ctx).SetResult(&out), http.MethodGet, "/users/me"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword reports a wrong current password as ErrIncorrectPassword and
// keeps the session.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	dto := user.ChangePasswordDTO{CurrentPassword: current, NewPassword: next}
	if err := apperr.Validate(dto); err != nil {
		return err
	}

	ctx = context.WithValue(ctx, passwordChangeKey{}, true)
	err := do(c.request(ctx).SetBody(dto), http.MethodPut, "/users/me/password")

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return ErrIncorrectPassword
	}
	return err
}

func (c *Client) ListModules(ctx context.Context) ([]*coursemodule.Module, error) {
	var out []*coursemodule.Module
	if err := do(c.request(ctx).SetResult(&out), http.MethodGet, "/modules"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListQuizzes(ctx context.Context, moduleID uuid.UUID) ([]*quiz.Quiz, error) {
	var out []*quiz.Quiz
	if err := do(c.request(ctx).SetResult(&out), http.MethodGet, fmt.Sprintf("/modules/%s/quizzes", moduleID)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetQuiz(ctx context.Context, id uuid.UUID) (*quiz.Quiz, error) {
	var out quiz.Quiz
	if err := do(c.request(ctx).SetResult(&out), http.MethodGet, "/quizzes/"+id.String()); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateQuiz validates the draft locally so form errors never reach the server.
func (c *Client) CreateQuiz(ctx context.Context, moduleID uuid.UUID, in quiz.QuizInput) (*quiz.Quiz, error) {
	if err := quiz.ValidateDraft(in); err != nil {
		return nil, err
	}

	var out quiz.Quiz
	if err := do(c.request(ctx).SetBody(in).SetResult(&out), http.MethodPost, fmt.Sprintf("/modules/%s/quizzes", moduleID)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, id uuid.UUID, in quiz.QuizInput) (*quiz.Quiz, error) {
	if err := quiz.ValidateDraft(in); err != nil {
		return nil, err
	}

	var out quiz.Quiz
	if err := do(c.request(ctx).SetBody(in).SetResult(&out), http.MethodPut, "/quizzes/"+id.String()); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	return do(c.request(ctx), http.MethodDelete, "/quizzes/"+id.String())
}

func (c *Client) SubmitQuiz(ctx context.Context, quizID uuid.UUID, answers []grading.Answer) (*submission.SubmitResponse, error) {
	var out submission.SubmitResponse
	req := c.request(ctx).SetBody(submission.SubmitDTO{Answers: answers}).SetResult(&out)
	if err := do(req, http.MethodPost, fmt.Sprintf("/quizzes/%s/submit", quizID)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSubmission(ctx context.Context, id uuid.UUID) (*submission.SubmissionResponse, error) {
	var out submission.SubmissionResponse
	if err := do(c.request(ctx).SetResult(&out), http.MethodGet, "/submissions/"+id.String()); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MySubmission(ctx context.Context, quizID uuid.UUID) (*submission.SubmissionResponse, error) {
	var out submission.SubmissionResponse
	if err := do(c.request(ctx).SetResult(&out), http.MethodGet, fmt.Sprintf("/quizzes/%s/submissions/me", quizID)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSubmissions(ctx context.Context, quizID uuid.UUID) ([]*submission.SubmissionResponse, error) {
	var out []*submission.SubmissionResponse
	if err := do(c.request(ctx).SetResult(&out), http.MethodGet, fmt.Sprintf("/quizzes/%s/submissions", quizID)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GradeSubmission(ctx context.Context, id uuid.UUID, score int, feedback string) (*submission.SubmissionResponse, error) {
	dto := submission.GradeDTO{Score: &score, TeacherFeedback: feedback}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	var out submission.SubmissionResponse
	if err := do(c.request(ctx).SetBody(dto).SetResult(&out), http.MethodPut, fmt.Sprintf("/submissions/%s/grade", id)); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submitter adapts the client to the quiz-taking engine.
func (c *Client) Submitter() quizsession.Submitter {
	return engineSubmitter{c: c}
}

type engineSubmitter struct {
	c *Client
}

func (s engineSubmitter) SubmitQuiz(ctx context.Context, quizID uuid.UUID, answers []grading.Answer) (*quizsession.Receipt, error) {
	resp, err := s.c.SubmitQuiz(ctx, quizID, answers)
	if err != nil {
		return nil, err
	}
	return &quizsession.Receipt{SubmissionID: resp.Submission.ID, IsRetake: resp.IsRetake}, nil
}

// Download writes a file's bytes to w. attachment asks the server for an
// attachment disposition instead of inline.
func (c *Client) Download(ctx context.Context, fileID uuid.UUID, attachment bool, w io.Writer) error {
	req := c.request(ctx).SetDoNotParseResponse(true)
	if attachment {
		req.SetQueryParam("download", "true")
	}

	resp, err := req.Get("/files/" + fileID.String())
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		// Raw responses skip the response hooks.
		c.interceptUnauthorized(nil, resp)
		msg, _ := io.ReadAll(io.LimitReader(body, 4096))
		return &APIError{Status: resp.StatusCode(), Message: string(msg)}
	}
	_, err = io.Copy(w, body)
	return err
}
