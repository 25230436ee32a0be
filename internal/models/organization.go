package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	CreatorID uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator     User                     `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Memberships []OrganizationMembership `gorm:"foreignKey:OrganizationID" json:"memberships,omitempty"`
	Projects    []Project                `gorm:"foreignKey:OrganizationID" json:"projects,omitempty"`
	Invites     []OrganizationInvite     `gorm:"foreignKey:OrganizationID" json:"-"`
}
