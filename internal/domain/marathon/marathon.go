package marathon

import (
	"errors"
	"time"
)

type Marathon struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	StartRegDate       time.Time `json:"startRegDate"`
	EndRegDate         time.Time `json:"endRegDate"`
	MarathonStartDate  time.Time `json:"marathonStartDate"`
	Location           string    `json:"location"`
	Distance           string    `json:"distance"`
	Description        string    `json:"description,omitempty"`
	Image              string    `json:"image,omitempty"`
	OrganizerEmail     string    `json:"organizer_email"`
	TotalRegistrations int       `json:"totalRegistrations"`
	CreatedAt          time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("marathon not found")

type CreateMarathonRequest struct {
	Title             string    `json:"title" binding:"required,min=3,max=120"`
	StartRegDate      time.Time `json:"startRegDate" binding:"required"`
	EndRegDate        time.Time `json:"endRegDate" binding:"required"`
	MarathonStartDate time.Time `json:"marathonStartDate" binding:"required"`
	Location          string    `json:"location" binding:"required,min=2,max=80"`
	Distance          string    `json:"distance" binding:"required,max=20"`
	Description       string    `json:"description" binding:"omitempty,max=2000"`
	Image             string    `json:"image" binding:"omitempty,url"`
	OrganizerEmail    string    `json:"organizer_email" binding:"required,email"`
}

// UpdateMarathonRequest is the fixed field set a PUT may touch. The organizer
// email and the registration counter are deliberately absent: ownership never
// changes hands and the counter only moves through the registration path.
type UpdateMarathonRequest struct {
	Title             string    `json:"title" binding:"required,min=3,max=120"`
	StartRegDate      time.Time `json:"startRegDate" binding:"required"`
	EndRegDate        time.Time `json:"endRegDate" binding:"required"`
	MarathonStartDate time.Time `json:"marathonStartDate" binding:"required"`
	Location          string    `json:"location" binding:"required,min=2,max=80"`
	Distance          string    `json:"distance" binding:"required,max=20"`
	Description       string    `json:"description" binding:"omitempty,max=2000"`
	Image             string    `json:"image" binding:"omitempty,url"`
}
