package models

// Alert is a user-owned filter description used to detect newly matching
// property listings. TransactionType and Category are mandatory; every other
// field acts as a wildcard when nil.
type Alert struct {
	BaseModel
	UserID          string        `gorm:"not null;index"`
	TransactionType ListingType   `gorm:"not null"`
	Category        AlertCategory `gorm:"not null"`
	MinBudget       *float64
	MaxBudget       *float64
	Location        *string
	MinRooms        *float64
	IsActive        bool `gorm:"default:true;index"`
}
