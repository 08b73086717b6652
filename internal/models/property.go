package models

type Property struct {
	BaseModel
	OwnerUserID  string       `gorm:"index"`
	Title        string       `gorm:"not null"`
	ListingType  ListingType  `gorm:"not null;index"`
	PropertyType PropertyType `gorm:"not null;index"`
	City         string       `gorm:"index"`
	Neighborhood string
	Rooms        float64 // half-steps allowed (3.5 rooms)
	PriceText    string  // free text; empty or "on request" means undisclosed
	Description  string
	IsPublished  bool `gorm:"default:true"`
}
