package domain

import "time"

// Technician is a staff member eligible for ticket assignment. A technician
// only ever receives tickets from their own organization.
type Technician struct {
	ID             string
	OrganizationID string
	UserID         *string
	Name           string
	Specialty      Category
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TechnicianWorkload pairs a technician with their current count of
// OPEN/IN_PROGRESS assigned tickets. The count is derived live, never stored.
type TechnicianWorkload struct {
	Technician Technician
	Active     int
}
