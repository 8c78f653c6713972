package domain

import "time"

// Organization is a customer company and the top-level data isolation boundary.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Property is a building owned by an organization.
type Property struct {
	ID             string
	OrganizationID string
	Name           string
	Address        string
}

// Unit is a rentable unit within a property.
type Unit struct {
	ID         string
	PropertyID string
	UnitNumber string
}

// UnitContext is the denormalized lookup used to resolve a ticket's owning
// organization from the reported unit.
type UnitContext struct {
	Unit         Unit
	PropertyName string
	Organization string
}

// Tenant is a renter profile linked to a platform user.
type Tenant struct {
	ID     string
	UserID string
	Name   string
	Email  string
	UnitID *string
}
