package dto

import (
	"time"

	"github.com/propos/maintenance-engine/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	UnitID      string                `json:"unit_id" validate:"required"`
	Title       string                `json:"title" validate:"required,max=100"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH EMERGENCY"`
	ImagePath   *string               `json:"image_path"`
}

// UpdateTicketRequest payload. Absent fields stay untouched; which fields a
// caller may set depends on their role.
type UpdateTicketRequest struct {
	Title           *string                `json:"title" validate:"omitempty,max=100"`
	Description     *string                `json:"description"`
	Priority        *domain.TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH EMERGENCY"`
	Status          *domain.TicketStatus   `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Category        *domain.Category       `json:"category" validate:"omitempty,oneof=PLUMBING ELECTRICAL HVAC STRUCTURAL PEST_CONTROL PAINTING APPLIANCE GENERAL"`
	AssignedTo      *string                `json:"assigned_to"`
	ResolutionNotes *string                `json:"resolution_notes"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID              string                `json:"id"`
	OrganizationID  string                `json:"organization_id"`
	UnitID          string                `json:"unit_id"`
	TenantID        *string               `json:"tenant_id,omitempty"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	Source          domain.TicketSource   `json:"source"`
	Category        domain.Category       `json:"category"`
	AssignedTo      *string               `json:"assigned_to,omitempty"`
	ResolutionNotes *string               `json:"resolution_notes,omitempty"`
	ImagePath       *string               `json:"image_path,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// TechnicianResponse pairs a technician with their live workload.
type TechnicianResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Specialty     domain.Category `json:"specialty"`
	ActiveTickets int             `json:"active_tickets"`
}
