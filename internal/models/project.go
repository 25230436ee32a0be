package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatorID      *uint64        `json:"creator_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization        `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Creator      *User               `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members      []ProjectMembership `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks        []Task              `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
