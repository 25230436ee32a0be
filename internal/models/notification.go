package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type NotificationType string

const (
	NotificationTaskAssigned      NotificationType = "task_assigned"
	NotificationTaskStatusChanged NotificationType = "task_status_changed"
	NotificationTaskComment       NotificationType = "task_comment"
	NotificationOrgInvite         NotificationType = "organization_invite"
)

// NotificationRef tags the entity that triggered a notification, so payload
// rendering can switch exhaustively on the kind instead of chasing an untyped
// foreign key.
type NotificationRef string

const (
	RefTask    NotificationRef = "task"
	RefComment NotificationRef = "comment"
	RefInvite  NotificationRef = "organization_invite"
)

// JSONMap stores an arbitrary JSON object in a single column. It marshals
// through database/sql so the same model works on postgres and the sqlite
// test driver.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for JSONMap")
	}
}

type Notification struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	RecipientID uint64           `gorm:"not null;index:idx_notifications_recipient_created;index:idx_notifications_recipient_read" json:"recipient_id"`
	SenderID    *uint64          `json:"sender_id"`
	Type        NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	RefType     NotificationRef  `gorm:"type:varchar(30)" json:"ref_type,omitempty"`
	RefID       *uint64          `json:"ref_id,omitempty"`
	Payload     JSONMap          `gorm:"type:text" json:"payload"`
	IsRead      bool             `gorm:"not null;default:false;index:idx_notifications_recipient_read" json:"is_read"`
	ReadAt      *time.Time       `json:"read_at"`
	CreatedAt   time.Time        `gorm:"index:idx_notifications_recipient_created" json:"created_at"`

	// Relations
	Recipient User  `gorm:"foreignKey:RecipientID" json:"-"`
	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
