package models

import "time"

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	Name         string     `gorm:"not null"`
	PasswordHash string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsActive     bool       `gorm:"default:true"`

	// Subscription expiry drives the expiry sweep; nil means no subscription.
	SubscriptionExpiry *time.Time

	Preferences NotificationPreferences `gorm:"embedded;embeddedPrefix:pref_"`

	// Relations
	Alerts []Alert `gorm:"foreignKey:UserID"`
}

// NotificationPreferences are read-only inputs to the dispatcher; the
// user-settings surface owns mutation.
type NotificationPreferences struct {
	Email          bool `gorm:"default:true"`
	Push           bool `gorm:"default:true"`
	SMS            bool `gorm:"default:false"`
	PropertyAlerts bool `gorm:"default:true"`
	PriceUpdates   bool `gorm:"default:true"`
	NewProperties  bool `gorm:"default:true"`
	WeeklyDigest   bool `gorm:"default:false"`
}

// DefaultNotificationPreferences mirrors the column defaults for code paths
// that build users outside GORM (tests, seeding).
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		Email:          true,
		Push:           true,
		PropertyAlerts: true,
		PriceUpdates:   true,
		NewProperties:  true,
	}
}

// SubscriptionStateAt classifies the user's subscription against now using
// ceil((expiry-now)/24h): days <= 0 is expired, 1..7 is expiring soon.
func (u *User) SubscriptionStateAt(now time.Time) (SubscriptionState, int) {
	if u.SubscriptionExpiry == nil {
		return SubscriptionStateActive, 0
	}
	diff := u.SubscriptionExpiry.Sub(now)
	daysLeft := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		daysLeft++
	}
	switch {
	case daysLeft <= 0:
		return SubscriptionStateExpired, daysLeft
	case daysLeft <= 7:
		return SubscriptionStateExpiringSoon, daysLeft
	default:
		return SubscriptionStateActive, daysLeft
	}
}
