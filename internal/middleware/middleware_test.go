package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"treelink/internal/auth"
	"treelink/internal/domain"
	"treelink/internal/domain/models"
	"treelink/internal/httputil"
)

type stubVerifier struct {
	valid string
}

func (s *stubVerifier) VerifyToken(token string) (*models.ActorClaims, error) {
	if token != s.valid {
		return nil, errors.New("bad token")
	}
	claims := &models.ActorClaims{}
	claims.Subject = "user-42"
	return claims, nil
}

func (s *stubVerifier) Close() error { return nil }

var _ auth.JWTVerifier = (*stubVerifier)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoActor(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(httputil.GetUserID(r)))
}

func TestActor(t *testing.T) {
	handler := Actor(&stubVerifier{valid: "good"}, discardLogger())(http.HandlerFunc(echoActor))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "anonymous", header: "", wantStatus: http.StatusOK, wantBody: ""},
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantBody: "user-42"},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/structures", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestActor_NilVerifier(t *testing.T) {
	handler := Actor(nil, discardLogger())(http.HandlerFunc(echoActor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(domain.ErrNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
