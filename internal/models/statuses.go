package models

type UserStatus string
type UserRole string
type ListingType string
type PropertyType string
type AlertCategory string
type NotificationKind string
type SubscriptionState string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"

	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeLoft      PropertyType = "loft"
	PropertyTypePenthouse PropertyType = "penthouse"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeDuplex    PropertyType = "duplex"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeChalet    PropertyType = "chalet"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeCastle    PropertyType = "castle"

	AlertCategoryApartment AlertCategory = "apartment"
	AlertCategoryHouse     AlertCategory = "house"
	AlertCategoryVilla     AlertCategory = "villa"
	AlertCategoryLand      AlertCategory = "land"

	NotificationKindInfo    NotificationKind = "info"
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindWarning NotificationKind = "warning"
	NotificationKindError   NotificationKind = "error"

	SubscriptionStateActive       SubscriptionState = "active"
	SubscriptionStateExpiringSoon SubscriptionState = "expiring_soon"
	SubscriptionStateExpired      SubscriptionState = "expired"
)

// Category maps a concrete property type onto the coarse alert category.
// The switch is exhaustive over the catalog: an unknown type returns ok=false
// instead of silently falling into a default bucket. No concrete type maps to
// AlertCategoryLand, so land alerts cannot match anything in the current
// catalog.
func (t PropertyType) Category() (AlertCategory, bool) {
	switch t {
	case PropertyTypeApartment, PropertyTypeLoft, PropertyTypePenthouse, PropertyTypeStudio, PropertyTypeDuplex:
		return AlertCategoryApartment, true
	case PropertyTypeHouse, PropertyTypeChalet:
		return AlertCategoryHouse, true
	case PropertyTypeVilla, PropertyTypeCastle:
		return AlertCategoryVilla, true
	}
	return "", false
}

// Valid reports whether t is a known concrete property type.
func (t PropertyType) Valid() bool {
	_, ok := t.Category()
	return ok
}

func (l ListingType) Valid() bool {
	return l == ListingTypeSale || l == ListingTypeRent
}

func (c AlertCategory) Valid() bool {
	switch c {
	case AlertCategoryApartment, AlertCategoryHouse, AlertCategoryVilla, AlertCategoryLand:
		return true
	}
	return false
}

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationKindInfo, NotificationKindSuccess, NotificationKindWarning, NotificationKindError:
		return true
	}
	return false
}
