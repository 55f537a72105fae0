package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondProblem(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondProblem(rec, http.StatusConflict, "duplicate_found", "already exists", map[string]interface{}{
		"suggested_code": "DOC_1234abcd",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "duplicate_found", body["reason"])
	assert.Equal(t, "already exists", body["detail"])
	assert.Equal(t, "Conflict", body["title"])
	assert.Equal(t, float64(409), body["status"])
	assert.Equal(t, "DOC_1234abcd", body["suggested_code"])
}

func TestOptionalString(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantValue   *string
	}{
		{name: "absent", body: `{}`, wantPresent: false},
		{name: "null", body: `{"description": null}`, wantPresent: true},
		{name: "value", body: `{"description": "text"}`, wantPresent: true, wantValue: strPtr("text")},
		{name: "empty", body: `{"description": ""}`, wantPresent: true, wantValue: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest struct {
				Description OptionalString `json:"description"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.body), &dest))
			assert.Equal(t, tt.wantPresent, dest.Description.Present)
			assert.Equal(t, tt.wantValue, dest.Description.Value)
		})
	}
}

func strPtr(s string) *string { return &s }
