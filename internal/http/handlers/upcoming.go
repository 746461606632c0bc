package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/milescape/server/internal/config"
	"github.com/milescape/server/internal/domain/upcoming"
)

type UpcomingMarathonsStore interface {
	List(ctx context.Context) ([]upcoming.UpcomingMarathon, error)
}

type UpcomingMarathonsHandler struct {
	repo UpcomingMarathonsStore
}

func NewUpcomingMarathonsHandler(repo UpcomingMarathonsStore) *UpcomingMarathonsHandler {
	return &UpcomingMarathonsHandler{repo: repo}
}

func (h *UpcomingMarathonsHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	upcomingMarathons, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Error fetching upcoming marathons")
		return
	}

	ctx.JSON(http.StatusOK, upcomingMarathons)
}
