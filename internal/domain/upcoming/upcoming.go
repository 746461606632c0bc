package upcoming

import "time"

// UpcomingMarathon is a read-only listing shape. Nothing in the API mutates
// these rows, they are loaded out of band by the content team.
type UpcomingMarathon struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	StartRegDate      time.Time `json:"startRegDate"`
	EndRegDate        time.Time `json:"endRegDate"`
	MarathonStartDate time.Time `json:"marathonStartDate"`
	Location          string    `json:"location"`
	Distance          string    `json:"distance"`
	Description       string    `json:"description,omitempty"`
	Image             string    `json:"image,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
