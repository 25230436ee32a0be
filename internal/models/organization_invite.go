package models

import "time"

// OrganizationInvite is consumed exactly once: acceptance flips IsAccepted and
// any further accept attempt with the same token fails the not-yet-accepted lookup.
type OrganizationInvite struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	Email          string           `gorm:"type:varchar(255);not null" json:"email"`
	OrganizationID uint64           `gorm:"not null;index" json:"organization_id"`
	InviterID      *uint64          `json:"inviter_id"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null" json:"role"`
	Token          string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	IsAccepted     bool             `gorm:"not null;default:false" json:"is_accepted"`
	CreatedAt      time.Time        `json:"created_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Inviter      *User        `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
}
