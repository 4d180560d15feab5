package apperr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/classroom-lambda/internal/apperr"
)

func TestStatus(t *testing.T) {
	verr := apperr.NewValidation()
	verr.Add("title", "is required")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", verr, http.StatusUnprocessableEntity},
		{"wrapped not found", fmt.Errorf("quiz: %w", apperr.ErrNotFound), http.StatusNotFound},
		{"conflict", apperr.ErrConflict, http.StatusConflict},
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden},
		{"too large", apperr.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.Status(tt.err))
		})
	}
}

func TestValidationErrorOrNil(t *testing.T) {
	assert.NoError(t, apperr.NewValidation().OrNil())

	verr := apperr.NewValidation()
	verr.Add("score", "must be at most 10")
	verr.Add("score", "ignored second message")
	require.Error(t, verr.OrNil())
	assert.Equal(t, "must be at most 10", verr.Fields["score"])
	assert.Equal(t, "validation failed: score: must be at most 10", verr.Error())
}

func TestRespondHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	apperr.Respond(rec, req, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apperr.Body
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal server error", body.Error)
}

func TestRespondValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	verr := apperr.NewValidation()
	verr.Add("questions[0].text", "is required")

	apperr.Respond(rec, req, verr)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body apperr.Body
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "is required", body.Fields["questions[0].text"])
}

func TestValidateUsesJSONNames(t *testing.T) {
	type dto struct {
		Email string `json:"email" validate:"required,email"`
		Score *int   `json:"score" validate:"required,min=0"`
	}

	err := apperr.Validate(dto{Email: "nope"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a valid email", verr.Fields["email"])
	assert.Equal(t, "is required", verr.Fields["score"])

	zero := 0
	assert.NoError(t, apperr.Validate(dto{Email: "a@b.co", Score: &zero}))
}
