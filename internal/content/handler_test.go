package content_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/classroom-lambda/internal/auth"
	"github.com/saulo-duarte/classroom-lambda/internal/content"
)

func newRouter(f *fixture, maxBytes int64) http.Handler {
	h := content.NewHandler(f.svc, maxBytes)
	claims, _ := auth.GetUserClaimsFromContext(f.teacher)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithClaims(req.Context(), claims)))
		})
	})
	r.Mount("/modules/{id}/files", content.ModuleRoutes(h))
	r.Mount("/files", content.Routes(h))
	return r
}

func multipartBody(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadAndDownloadHandlers(t *testing.T) {
	f := newFixture(t, 1<<20)
	router := newRouter(f, 1<<20)

	body, contentType := multipartBody(t, "notes.pdf", []byte(pdfHeader+"notes"))
	req := httptest.NewRequest(http.MethodPost, "/modules/"+f.moduleID.String()+"/files/chapter", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var desc content.FileDescriptor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&desc))
	assert.Equal(t, "notes.pdf", desc.OriginalName)

	tests := []struct {
		query string
		want  string
	}{
		{"", `inline; filename=notes.pdf`},
		{"?download=true", `attachment; filename=notes.pdf`},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, desc.Path+tt.query, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tt.want, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, pdfHeader+"notes", rec.Body.String())
	}
}

func TestUploadHandlerLimits(t *testing.T) {
	f := newFixture(t, 8)
	router := newRouter(f, 8)

	body, contentType := multipartBody(t, "big.bin", make([]byte, 9))
	req := httptest.NewRequest(http.MethodPost, "/modules/"+f.moduleID.String()+"/files/reference", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/modules/"+f.moduleID.String()+"/files/reference", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
