package models

import "time"

// ProjectMembership is a flat user-project link. It deliberately carries no
// role column: the effective role is always derived from the user's
// OrganizationMembership for the project's organization, so an org role
// change can never leave a stale project role behind.
type ProjectMembership struct {
	ProjectID uint64    `gorm:"primarykey" json:"project_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
