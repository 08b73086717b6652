package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is addressed to exactly one of UserID or AdminID. The XOR
// invariant is enforced at dispatch time, never at read time.
type Notification struct {
	BaseModel
	UserID    *string          `gorm:"index"`
	AdminID   *string          `gorm:"index"`
	Type      string           `gorm:"not null"` // cause category: "property_match", "subscription_expiring", ...
	Kind      NotificationKind `gorm:"not null;default:'info'"`
	Title     string           `gorm:"not null"`
	Message   string
	Data      datatypes.JSON `gorm:"type:jsonb"` // {"property_id": "...", "alert_id": "..."}
	ActionURL *string
	IsRead    bool `gorm:"default:false"`
	ReadAt    *time.Time
}

// Recipient returns the addressed ID regardless of which side is set.
func (n *Notification) Recipient() string {
	if n.UserID != nil {
		return *n.UserID
	}
	if n.AdminID != nil {
		return *n.AdminID
	}
	return ""
}
