package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/milescape/server/internal/auth"
	"github.com/milescape/server/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}
	return nil, errors.New("no verifier configured")
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		cookie         string
		verifyFn       func(token string) (*auth.Claims, error)
		wantStatusCode int
		wantHandlerRun bool
		wantEmail      string
	}{
		{
			name:           "missing_cookie",
			cookie:         "",
			wantStatusCode: http.StatusUnauthorized,
			wantHandlerRun: false,
		},
		{
			name:   "invalid_token",
			cookie: "bad-token",
			verifyFn: func(token string) (*auth.Claims, error) {
				return nil, errors.New("invalid token")
			},
			wantStatusCode: http.StatusUnauthorized,
			wantHandlerRun: false,
		},
		{
			name:   "valid_token",
			cookie: "good-token",
			verifyFn: func(token string) (*auth.Claims, error) {
				if token != "good-token" {
					return nil, errors.New("unexpected token")
				}
				return &auth.Claims{Email: "runner@example.com"}, nil
			},
			wantStatusCode: http.StatusOK,
			wantHandlerRun: true,
			wantEmail:      "runner@example.com",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			m := middlewares.NewAuthMiddleware(&fakeVerifier{verifyFn: tt.verifyFn})

			handlerRan := false
			var gotEmail string

			r := gin.New()
			r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
				handlerRan = true
				gotEmail, _ = middlewares.EmailFromContext(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middlewares.TokenCookieName, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			// a rejected request must never reach the handler
			if handlerRan != tt.wantHandlerRun {
				t.Fatalf("handler ran = %v, want %v", handlerRan, tt.wantHandlerRun)
			}

			if tt.wantHandlerRun && gotEmail != tt.wantEmail {
				t.Fatalf("got context email %q, want %q", gotEmail, tt.wantEmail)
			}
		})
	}
}
