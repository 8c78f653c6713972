package events

import (
	"time"

	"github.com/propos/maintenance-engine/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketTriaged       EventType = "ticket_triaged"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Actor identifies who caused an event. System-initiated events (triage,
// auto-assignment) carry no user id.
type Actor struct {
	Role   domain.Role `json:"role,omitempty"`
	UserID *string     `json:"user_id,omitempty"`
	System bool        `json:"system,omitempty"`
}

// Event is a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	OrganizationID string                `json:"organization_id"`
	UnitID         string                `json:"unit_id"`
	Priority       domain.TicketPriority `json:"priority"`
	Source         domain.TicketSource   `json:"source"`
	Title          string                `json:"title"`
}

// TicketTriagedPayload payload.
type TicketTriagedPayload struct {
	Priority     domain.TicketPriority `json:"priority"`
	Category     domain.Category       `json:"category"`
	ImageApplied bool                  `json:"image_applied"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID *string         `json:"technician_id,omitempty"`
	Specialty    domain.Category `json:"specialty,omitempty"`
	Tier         int             `json:"tier,omitempty"`
}

// TicketEscalatedPayload payload. Carries everything the escalation notifier
// needs to compose an alert without further lookups.
type TicketEscalatedPayload struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Priority       domain.TicketPriority `json:"priority"`
	Category       domain.Category       `json:"category"`
	TechnicianID   *string               `json:"technician_id,omitempty"`
	TechnicianName string                `json:"technician_name,omitempty"`
	UnitNumber     string                `json:"unit_number"`
	PropertyName   string                `json:"property_name"`
	Recipient      string                `json:"recipient"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}
