package registration

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Registration struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Phone          string    `json:"phone,omitempty"`
	AdditionalInfo string    `json:"additionalInfo,omitempty"`
	MarathonID     string    `json:"marathonId"`
	// title and location are denormalized from the marathon so the
	// "my registrations" page can search and filter without a join
	MarathonTitle string    `json:"marathonTitle"`
	Location      string    `json:"location,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

var ErrAlreadyRegistered = errors.New("already registered for this marathon")
var ErrNotFound = errors.New("registration not found")

type CreateRegistrationRequest struct {
	Email          string `json:"email" binding:"required,email"`
	FirstName      string `json:"firstName" binding:"required,min=1,max=80"`
	LastName       string `json:"lastName" binding:"required,min=1,max=80"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	AdditionalInfo string `json:"additionalInfo" binding:"omitempty,max=2000"`
	MarathonID     string `json:"marathonId" binding:"required"`
	MarathonTitle  string `json:"marathonTitle" binding:"required"`
	Location       string `json:"location" binding:"omitempty,max=80"`
}

// UpdateRegistrationRequest is the fixed field set a PUT may touch. The
// marathon reference and the denormalized title stay as they were created.
type UpdateRegistrationRequest struct {
	Email          string `json:"email" binding:"required,email"`
	FirstName      string `json:"firstName" binding:"required,min=1,max=80"`
	LastName       string `json:"lastName" binding:"required,min=1,max=80"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	AdditionalInfo string `json:"additionalInfo" binding:"omitempty,max=2000"`
}

type ListFilter struct {
	Email    string
	Search   string
	Location string
}

func NewFromCreateRequest(req CreateRegistrationRequest) Registration {
	return Registration{
		ID:             uuid.NewString(),
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		AdditionalInfo: req.AdditionalInfo,
		MarathonID:     req.MarathonID,
		MarathonTitle:  req.MarathonTitle,
		Location:       req.Location,
		CreatedAt:      time.Now().UTC(),
	}
}
