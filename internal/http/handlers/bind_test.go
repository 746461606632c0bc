package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/milescape/server/internal/http/handlers"
)

type bindTarget struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
}

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var target bindTarget
		if !handlers.BindJSON(c, &target) {
			return
		}
		c.JSON(http.StatusOK, target)
	})
	return r
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantInBody     string
	}{
		{
			name:           "valid",
			body:           `{"email":"runner@example.com","name":"Rafi"}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_required",
			body:           `{"email":"runner@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "required",
		},
		{
			name:           "bad_email",
			body:           `{"email":"nope","name":"Rafi"}`,
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "email",
		},
		{
			name:           "invalid_syntax",
			body:           `{"email":`,
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "invalid_json_syntax",
		},
		{
			name:           "type_mismatch",
			body:           `{"email":"runner@example.com","name":42}`,
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "invalid_json_type",
		},
	}

	r := bindRouter()

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantInBody != "" && !strings.Contains(w.Body.String(), tt.wantInBody) {
				t.Fatalf("body %s does not mention %q", w.Body.String(), tt.wantInBody)
			}

			if tt.wantStatusCode == http.StatusOK {
				var out bindTarget
				if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if out.Email != "runner@example.com" {
					t.Fatalf("round-tripped email = %q", out.Email)
				}
			}
		})
	}
}
