package domain

import "time"

// Role enumerates platform actors, from the organization owner down to tenants.
type Role string

const (
	RoleOwner       Role = "OWNER"
	RoleManager     Role = "MANAGER"
	RoleAgent       Role = "AGENT"
	RoleMaintenance Role = "MAINTENANCE"
	RoleTenant      Role = "TENANT"
)

// StaffRoles are roles that belong to an organization's own staff.
var StaffRoles = []Role{RoleOwner, RoleManager, RoleAgent, RoleMaintenance}

// ManagerialRoles may edit any ticket field within their organization.
var ManagerialRoles = []Role{RoleOwner, RoleManager, RoleAgent}

// IsStaff reports whether the role is an organization staff role.
func (r Role) IsStaff() bool {
	for _, role := range StaffRoles {
		if role == r {
			return true
		}
	}
	return false
}

// IsManagerial reports whether the role may edit any ticket field.
func (r Role) IsManagerial() bool {
	for _, role := range ManagerialRoles {
		if role == r {
			return true
		}
	}
	return false
}

// User is an authenticated platform account. Staff users carry an
// organization reference; tenant users are linked to a Tenant profile instead.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	OrganizationID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
