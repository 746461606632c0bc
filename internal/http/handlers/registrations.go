package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/milescape/server/internal/config"
	"github.com/milescape/server/internal/domain/registration"
	"github.com/milescape/server/internal/repo/postgres"
)

type RegistrationsStore interface {
	Create(ctx context.Context, req registration.CreateRegistrationRequest) (registration.Registration, error)
	List(ctx context.Context, filter registration.ListFilter) ([]registration.Registration, error)
	GetByID(ctx context.Context, id string) (registration.Registration, error)
	Upsert(ctx context.Context, id string, req registration.UpdateRegistrationRequest) (postgres.UpdateResult, error)
	Delete(ctx context.Context, id string) (postgres.DeleteResult, error)
}

// RegistrationCounter is the slice of the marathons store the registration
// flow needs: the atomic bump of totalRegistrations.
type RegistrationCounter interface {
	IncrementRegistrations(ctx context.Context, marathonID string) error
}

type RegistrationsHandler struct {
	repo      RegistrationsStore
	marathons RegistrationCounter
}

func NewRegistrationsHandler(repo RegistrationsStore, marathons RegistrationCounter) *RegistrationsHandler {
	return &RegistrationsHandler{repo: repo, marathons: marathons}
}

// Create rejects duplicates per (email, marathonId), then inserts the
// registration and bumps the marathon's counter. The insert and the
// increment are two separate store calls with no transaction across them:
// a failure in between leaves the counter under-counted, which the product
// accepts rather than paying for cross-collection coordination.
func (h *RegistrationsHandler) Create(ctx *gin.Context) {
	var req registration.CreateRegistrationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	reg, err := h.repo.Create(cctx, req)

	if err != nil {
		if errors.Is(err, registration.ErrAlreadyRegistered) {
			RespondError(ctx, http.StatusBadRequest, "already_registered",
				"You have already registered for this marathon!", nil)
			return
		}

		RespondInternal(ctx, "Could not create registration")
		return
	}

	if err := h.marathons.IncrementRegistrations(cctx, reg.MarathonID); err != nil {
		// registration is saved; surface the failure instead of pretending
		// the counter moved
		RespondInternal(ctx, "Registration saved but counter update failed")
		return
	}

	ctx.JSON(http.StatusCreated, reg)
}

// List returns the caller's registrations, searchable by marathon title and
// filterable by location. The email query param must match the token
// identity.
func (h *RegistrationsHandler) List(ctx *gin.Context) {
	email := ctx.Query("email")

	if !ownEmail(ctx, email) {
		return
	}

	filter := registration.ListFilter{
		Email:    email,
		Search:   ctx.Query("search"),
		Location: ctx.Query("filter"),
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	regs, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list registrations")
		return
	}

	ctx.JSON(http.StatusOK, regs)
}

func (h *RegistrationsHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	reg, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			RespondNotFound(ctx, "Registration not found")
			return
		}
		RespondInternal(ctx, "Could not fetch registration")
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

func (h *RegistrationsHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req registration.UpdateRegistrationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	res, err := h.repo.Upsert(cctx, id, req)

	if err != nil {
		RespondInternal(ctx, "Could not update registration")
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *RegistrationsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	res, err := h.repo.Delete(cctx, id)

	if err != nil {
		RespondInternal(ctx, "Could not delete registration")
		return
	}

	ctx.JSON(http.StatusOK, res)
}
