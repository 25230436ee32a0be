package models

import "time"

type OrganizationRole string

const (
	RoleAdmin    OrganizationRole = "admin"
	RoleManager  OrganizationRole = "manager"
	RoleEmployee OrganizationRole = "employee"
)

// IsValidRole reports whether the given string is a declared organization role.
func IsValidRole(role OrganizationRole) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// OrganizationMembership links a user to an organization with a role.
// The composite primary key guarantees at most one membership per (user, org).
type OrganizationMembership struct {
	OrganizationID uint64           `gorm:"primarykey" json:"organization_id"`
	UserID         uint64           `gorm:"primarykey" json:"user_id"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt       time.Time        `json:"joined_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsAdminOrManager reports whether the membership grants org-wide management rights.
func (m OrganizationMembership) IsAdminOrManager() bool {
	return m.Role == RoleAdmin || m.Role == RoleManager
}
