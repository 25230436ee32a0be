package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string         `gorm:"type:varchar(255);not null" json:"full_name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships   []OrganizationMembership `gorm:"foreignKey:UserID" json:"-"`
	CreatedTasks  []Task                   `gorm:"foreignKey:CreatorID" json:"-"`
	AssignedTasks []Task                   `gorm:"foreignKey:AssigneeID" json:"-"`
	Comments      []Comment                `gorm:"foreignKey:AuthorID" json:"-"`
}
