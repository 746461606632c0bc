package marathon

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateMarathonRequest) Marathon {
	return Marathon{
		ID:                uuid.NewString(),
		Title:             req.Title,
		StartRegDate:      req.StartRegDate,
		EndRegDate:        req.EndRegDate,
		MarathonStartDate: req.MarathonStartDate,
		Location:          req.Location,
		Distance:          req.Distance,
		Description:       req.Description,
		Image:             req.Image,
		OrganizerEmail:    req.OrganizerEmail,
		// counter starts at zero no matter what the client sent
		TotalRegistrations: 0,
		CreatedAt:          time.Now().UTC(),
	}
}
