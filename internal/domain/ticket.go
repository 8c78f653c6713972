package domain

import "time"

// TicketStatus enumerates lifecycle states for maintenance tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// ValidStatus reports whether v is a known status value.
func ValidStatus(v TicketStatus) bool {
	switch v {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ActiveStatuses are the states that count toward a technician's workload.
var ActiveStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress}

// TicketPriority enumerates urgency. Ordering matters for escalation;
// compare with Rank, never lexically.
type TicketPriority string

const (
	TicketPriorityLow       TicketPriority = "LOW"
	TicketPriorityMedium    TicketPriority = "MEDIUM"
	TicketPriorityHigh      TicketPriority = "HIGH"
	TicketPriorityEmergency TicketPriority = "EMERGENCY"
)

var priorityRank = map[TicketPriority]int{
	TicketPriorityLow:       0,
	TicketPriorityMedium:    1,
	TicketPriorityHigh:      2,
	TicketPriorityEmergency: 3,
}

// Rank returns the ordinal position of the priority (LOW=0 .. EMERGENCY=3).
// Unknown values rank below LOW.
func (p TicketPriority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return -1
}

// ValidPriority reports whether v is a known priority value.
func ValidPriority(v TicketPriority) bool {
	_, ok := priorityRank[v]
	return ok
}

// TicketSource records who reported the issue.
type TicketSource string

const (
	TicketSourceTenant TicketSource = "TENANT"
	TicketSourceAdmin  TicketSource = "ADMIN"
	TicketSourceSystem TicketSource = "SYSTEM"
)

// Ticket is the aggregate for a reported maintenance issue.
// OrganizationID is set once at creation, derived from the unit's property,
// and never changes afterwards.
type Ticket struct {
	ID              string
	OrganizationID  string
	UnitID          string
	TenantID        *string
	Title           string
	Description     string
	Priority        TicketPriority
	Status          TicketStatus
	Source          TicketSource
	Category        Category
	AssignedTo      *string
	ResolutionNotes *string
	ImagePath       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
