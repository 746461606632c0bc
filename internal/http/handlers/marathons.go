package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/milescape/server/internal/config"
	"github.com/milescape/server/internal/domain/marathon"
	"github.com/milescape/server/internal/http/middlewares"
	"github.com/milescape/server/internal/repo/postgres"
)

// featuredLimit caps the home page marathon rail.
const featuredLimit = 6

type MarathonsStore interface {
	Create(ctx context.Context, req marathon.CreateMarathonRequest) (marathon.Marathon, error)
	ListAll(ctx context.Context, sort string) ([]marathon.Marathon, error)
	ListFeatured(ctx context.Context, limit int) ([]marathon.Marathon, error)
	ListByOrganizer(ctx context.Context, email string) ([]marathon.Marathon, error)
	GetByID(ctx context.Context, id string) (marathon.Marathon, error)
	Upsert(ctx context.Context, id string, req marathon.UpdateMarathonRequest) (postgres.UpdateResult, error)
	Delete(ctx context.Context, id string) (postgres.DeleteResult, error)
}

type MarathonsHandler struct {
	repo MarathonsStore
}

func NewMarathonsHandler(repo MarathonsStore) *MarathonsHandler {
	return &MarathonsHandler{repo: repo}
}

func (h *MarathonsHandler) Create(ctx *gin.Context) {
	var req marathon.CreateMarathonRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	m, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create marathon")
		return
	}

	ctx.JSON(http.StatusCreated, m)
}

// ListAll serves the browse page. sort=asc|desc orders by creation time;
// anything else is rejected rather than silently ignored.
func (h *MarathonsHandler) ListAll(ctx *gin.Context) {
	sort := ctx.Query("sort")

	if sort != "" && sort != "asc" && sort != "desc" {
		RespondBadRequest(ctx, "sort must be asc or desc", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	marathons, err := h.repo.ListAll(cctx, sort)

	if err != nil {
		RespondInternal(ctx, "Error fetching marathons")
		return
	}

	ctx.JSON(http.StatusOK, marathons)
}

func (h *MarathonsHandler) ListFeatured(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	marathons, err := h.repo.ListFeatured(cctx, featuredLimit)

	if err != nil {
		RespondInternal(ctx, "Error fetching marathons")
		return
	}

	ctx.JSON(http.StatusOK, marathons)
}

func (h *MarathonsHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	m, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, marathon.ErrNotFound) {
			RespondNotFound(ctx, "Marathon not found")
			return
		}
		RespondInternal(ctx, "Could not fetch marathon")
		return
	}

	ctx.JSON(http.StatusOK, m)
}

// ListMine returns the marathons the caller organizes. The email query param
// must match the token identity.
func (h *MarathonsHandler) ListMine(ctx *gin.Context) {
	email := ctx.Query("email")

	if !ownEmail(ctx, email) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	marathons, err := h.repo.ListByOrganizer(cctx, email)

	if err != nil {
		RespondInternal(ctx, "Could not list marathons")
		return
	}

	ctx.JSON(http.StatusOK, marathons)
}

func (h *MarathonsHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	if !ownEmail(ctx, ctx.Query("email")) {
		return
	}

	var req marathon.UpdateMarathonRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	res, err := h.repo.Upsert(cctx, id, req)

	if err != nil {
		RespondInternal(ctx, "Could not update marathon")
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *MarathonsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	res, err := h.repo.Delete(cctx, id)

	if err != nil {
		RespondInternal(ctx, "Could not delete marathon")
		return
	}

	// deleting a missing id is fine, the count just comes back zero
	ctx.JSON(http.StatusOK, res)
}

// ownEmail enforces the ownership contract shared by the "my" endpoints: the
// caller-supplied email must equal the verified token identity. Writes the
// 403 itself so callers can just bail out.
func ownEmail(ctx *gin.Context, email string) bool {
	decoded, ok := middlewares.EmailFromContext(ctx)

	if !ok || decoded == "" {
		RespondUnAuthorized(ctx, "unauthorized", "unauthorized access")
		return false
	}

	if decoded != email {
		RespondForbidden(ctx)
		return false
	}

	return true
}
