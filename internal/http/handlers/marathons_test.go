package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/milescape/server/internal/auth"
	"github.com/milescape/server/internal/domain/marathon"
	"github.com/milescape/server/internal/http/handlers"
	"github.com/milescape/server/internal/http/middlewares"
	"github.com/milescape/server/internal/repo/postgres"
)

// Fake implementation of the handlers.MarathonsStore interface

type fakeMarathonsRepo struct {
	createFn          func(ctx context.Context, req marathon.CreateMarathonRequest) (marathon.Marathon, error)
	listAllFn         func(ctx context.Context, sort string) ([]marathon.Marathon, error)
	listFeaturedFn    func(ctx context.Context, limit int) ([]marathon.Marathon, error)
	listByOrganizerFn func(ctx context.Context, email string) ([]marathon.Marathon, error)
	getFn             func(ctx context.Context, id string) (marathon.Marathon, error)
	upsertFn          func(ctx context.Context, id string, req marathon.UpdateMarathonRequest) (postgres.UpdateResult, error)
	deleteFn          func(ctx context.Context, id string) (postgres.DeleteResult, error)
	incrementFn       func(ctx context.Context, marathonID string) error
}

func (f *fakeMarathonsRepo) Create(ctx context.Context, req marathon.CreateMarathonRequest) (marathon.Marathon, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return marathon.Marathon{}, nil
}

func (f *fakeMarathonsRepo) ListAll(ctx context.Context, sort string) ([]marathon.Marathon, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx, sort)
	}
	return []marathon.Marathon{}, nil
}

func (f *fakeMarathonsRepo) ListFeatured(ctx context.Context, limit int) ([]marathon.Marathon, error) {
	if f.listFeaturedFn != nil {
		return f.listFeaturedFn(ctx, limit)
	}
	return []marathon.Marathon{}, nil
}

func (f *fakeMarathonsRepo) ListByOrganizer(ctx context.Context, email string) ([]marathon.Marathon, error) {
	if f.listByOrganizerFn != nil {
		return f.listByOrganizerFn(ctx, email)
	}
	return []marathon.Marathon{}, nil
}

func (f *fakeMarathonsRepo) GetByID(ctx context.Context, id string) (marathon.Marathon, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return marathon.Marathon{}, nil
}

func (f *fakeMarathonsRepo) Upsert(ctx context.Context, id string, req marathon.UpdateMarathonRequest) (postgres.UpdateResult, error) {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, id, req)
	}
	return postgres.UpdateResult{}, nil
}

func (f *fakeMarathonsRepo) Delete(ctx context.Context, id string) (postgres.DeleteResult, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return postgres.DeleteResult{}, nil
}

func (f *fakeMarathonsRepo) IncrementRegistrations(ctx context.Context, marathonID string) error {
	if f.incrementFn != nil {
		return f.incrementFn(ctx, marathonID)
	}
	return nil
}

// helpers shared by the protected-route tests

const testEmail = "organizer@example.com"

func authedRouter(t *testing.T) (*gin.Engine, *http.Cookie) {
	t.Helper()

	m := auth.NewManager("test-secret", time.Hour)

	token, err := m.Generate(testEmail)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := gin.New()
	r.Use(middlewares.NewAuthMiddleware(m).RequireAuth())

	return r, &http.Cookie{Name: middlewares.TokenCookieName, Value: token}
}

func sampleMarathonBody(t *testing.T) string {
	t.Helper()

	now := time.Now().UTC().Format(time.RFC3339)

	return `{
		"title": "Lakeside Marathon",
		"startRegDate": "` + now + `",
		"endRegDate": "` + now + `",
		"marathonStartDate": "` + now + `",
		"location": "Chittagong",
		"distance": "25k",
		"description": "Flat and fast along the water",
		"image": "https://img.example.com/lakeside.jpg",
		"organizer_email": "` + testEmail + `"
	}`
}

func TestCreateMarathon(t *testing.T) {
	tests := []struct {
		name           string
		body           func(t *testing.T) string
		repoSetUp      func(*fakeMarathonsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: sampleMarathonBody,
			repoSetUp: func(f *fakeMarathonsRepo) {
				f.createFn = func(ctx context.Context, req marathon.CreateMarathonRequest) (marathon.Marathon, error) {
					return marathon.NewFromCreateRequest(req), nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "validation_error",
			body: func(t *testing.T) string { return `{"title": ""}` },
			// repo stays unset: an invalid payload must never reach it
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: sampleMarathonBody,
			repoSetUp: func(f *fakeMarathonsRepo) {
				f.createFn = func(ctx context.Context, req marathon.CreateMarathonRequest) (marathon.Marathon, error) {
					return marathon.Marathon{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeMarathonsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewMarathonsHandler(fakeRepo)

			r := gin.New()
			r.POST("/marathons", h.Create)

			req := httptest.NewRequest(http.MethodPost, "/marathons", strings.NewReader(tt.body(t)))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusCreated {
				return
			}

			var created marathon.Marathon
			if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if created.TotalRegistrations != 0 {
				t.Fatalf("new marathon counter = %d, want 0", created.TotalRegistrations)
			}
			if created.ID == "" {
				t.Fatal("new marathon has no id")
			}
		})
	}
}

func TestListAllMarathonsSort(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		wantSort       string
		wantStatusCode int
	}{
		{name: "no_sort", url: "/allMarathons", wantSort: "", wantStatusCode: http.StatusOK},
		{name: "asc", url: "/allMarathons?sort=asc", wantSort: "asc", wantStatusCode: http.StatusOK},
		{name: "desc", url: "/allMarathons?sort=desc", wantSort: "desc", wantStatusCode: http.StatusOK},
		{name: "bogus", url: "/allMarathons?sort=upwards", wantStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			var gotSort string
			called := false

			fakeRepo := &fakeMarathonsRepo{
				listAllFn: func(ctx context.Context, sort string) ([]marathon.Marathon, error) {
					called = true
					gotSort = sort
					return []marathon.Marathon{}, nil
				},
			}

			h := handlers.NewMarathonsHandler(fakeRepo)

			r := gin.New()
			r.GET("/allMarathons", h.ListAll)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				if !called {
					t.Fatal("repo was not called")
				}
				if gotSort != tt.wantSort {
					t.Fatalf("repo got sort %q, want %q", gotSort, tt.wantSort)
				}
			} else if called {
				t.Fatal("repo should not be called for an invalid sort")
			}
		})
	}
}

func TestListFeaturedCapsAtSix(t *testing.T) {
	var gotLimit int

	fakeRepo := &fakeMarathonsRepo{
		listFeaturedFn: func(ctx context.Context, limit int) ([]marathon.Marathon, error) {
			gotLimit = limit
			return []marathon.Marathon{}, nil
		},
	}

	h := handlers.NewMarathonsHandler(fakeRepo)

	r := gin.New()
	r.GET("/marathons", h.ListFeatured)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/marathons", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
	if gotLimit != 6 {
		t.Fatalf("featured limit = %d, want 6", gotLimit)
	}
}

func TestListMineOwnership(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		withCookie     bool
		wantStatusCode int
	}{
		{
			name:           "no_token",
			url:            "/myMarathons?email=" + testEmail,
			withCookie:     false,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "email_mismatch",
			url:            "/myMarathons?email=somebody.else@example.com",
			withCookie:     true,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "owner",
			url:            "/myMarathons?email=" + testEmail,
			withCookie:     true,
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repoCalled := false

			fakeRepo := &fakeMarathonsRepo{
				listByOrganizerFn: func(ctx context.Context, email string) ([]marathon.Marathon, error) {
					repoCalled = true
					if email != testEmail {
						t.Fatalf("repo got email %q, want %q", email, testEmail)
					}
					return []marathon.Marathon{}, nil
				},
			}

			h := handlers.NewMarathonsHandler(fakeRepo)

			r, cookie := authedRouter(t)
			r.GET("/myMarathons", h.ListMine)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.withCookie {
				req.AddCookie(cookie)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if repoCalled != (tt.wantStatusCode == http.StatusOK) {
				t.Fatalf("repo called = %v for status %d", repoCalled, tt.wantStatusCode)
			}
		})
	}
}

func TestUpdateMarathonUpsert(t *testing.T) {
	id := uuid.NewString()

	now := time.Now().UTC().Format(time.RFC3339)
	body := `{
		"title": "Lakeside Marathon",
		"startRegDate": "` + now + `",
		"endRegDate": "` + now + `",
		"marathonStartDate": "` + now + `",
		"location": "Chittagong",
		"distance": "42k"
	}`

	upserted := id
	fakeRepo := &fakeMarathonsRepo{
		upsertFn: func(ctx context.Context, gotID string, req marathon.UpdateMarathonRequest) (postgres.UpdateResult, error) {
			if gotID != id {
				t.Fatalf("repo got id %q, want %q", gotID, id)
			}
			// missing row: upsert path creates it
			return postgres.UpdateResult{UpsertedID: &upserted}, nil
		},
	}

	h := handlers.NewMarathonsHandler(fakeRepo)

	r, cookie := authedRouter(t)
	r.PUT("/myMarathons/:id", h.Update)

	req := httptest.NewRequest(http.MethodPut, "/myMarathons/"+id+"?email="+testEmail, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var res postgres.UpdateResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.UpsertedID == nil || *res.UpsertedID != id {
		t.Fatalf("upsertedId = %v, want %q", res.UpsertedID, id)
	}
}

func TestUpdateMarathonForbiddenForOtherOwner(t *testing.T) {
	fakeRepo := &fakeMarathonsRepo{
		upsertFn: func(ctx context.Context, id string, req marathon.UpdateMarathonRequest) (postgres.UpdateResult, error) {
			t.Fatal("repo should not be called on an ownership mismatch")
			return postgres.UpdateResult{}, nil
		},
	}

	h := handlers.NewMarathonsHandler(fakeRepo)

	r, cookie := authedRouter(t)
	r.PUT("/myMarathons/:id", h.Update)

	req := httptest.NewRequest(http.MethodPut, "/myMarathons/abc?email=somebody.else@example.com", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403, body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteMarathon(t *testing.T) {
	tests := []struct {
		name        string
		deletedRows int64
	}{
		{name: "existing", deletedRows: 1},
		// deleting an id that is already gone is not an error
		{name: "missing", deletedRows: 0},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeMarathonsRepo{
				deleteFn: func(ctx context.Context, id string) (postgres.DeleteResult, error) {
					return postgres.DeleteResult{DeletedCount: tt.deletedRows}, nil
				},
			}

			h := handlers.NewMarathonsHandler(fakeRepo)

			r, cookie := authedRouter(t)
			r.DELETE("/myMarathons/:id", h.Delete)

			req := httptest.NewRequest(http.MethodDelete, "/myMarathons/"+uuid.NewString(), nil)
			req.AddCookie(cookie)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
			}

			var res postgres.DeleteResult
			if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if res.DeletedCount != tt.deletedRows {
				t.Fatalf("deletedCount = %d, want %d", res.DeletedCount, tt.deletedRows)
			}
		})
	}
}

func TestGetMarathonByID(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name           string
		getFn          func(ctx context.Context, id string) (marathon.Marathon, error)
		wantStatusCode int
	}{
		{
			name: "found",
			getFn: func(ctx context.Context, gotID string) (marathon.Marathon, error) {
				return marathon.Marathon{ID: gotID, Title: "Lakeside Marathon"}, nil
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "missing",
			getFn: func(ctx context.Context, gotID string) (marathon.Marathon, error) {
				return marathon.Marathon{}, marathon.ErrNotFound
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewMarathonsHandler(&fakeMarathonsRepo{getFn: tt.getFn})

			r, cookie := authedRouter(t)
			r.GET("/marathons/:id", h.GetByID)

			req := httptest.NewRequest(http.MethodGet, "/marathons/"+id, nil)
			req.AddCookie(cookie)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
