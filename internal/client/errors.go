package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
)

var ErrIncorrectPassword = errors.New("current password is incorrect")

// APIError is a non-validation error answered by the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap maps the status back to the server's sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusConflict:
		return apperr.ErrConflict
	case http.StatusUnauthorized:
		return apperr.ErrUnauthorized
	case http.StatusForbidden:
		return apperr.ErrForbidden
	case http.StatusRequestEntityTooLarge:
		return apperr.ErrTooLarge
	default:
		return nil
	}
}

// responseError turns an error response into a ValidationError for 422 and
// an APIError otherwise.
func responseError(resp *resty.Response) error {
	body, _ := resp.Error().(*apperr.Body)

	if resp.StatusCode() == http.StatusUnprocessableEntity && body != nil && len(body.Fields) > 0 {
		return &apperr.ValidationError{Fields: body.Fields}
	}

	msg := ""
	if body != nil {
		msg = body.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(resp.Body()))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}
