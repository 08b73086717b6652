package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

// registerCustomRules registers the domain validation tags. A registration
// failure is a startup error.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-listing-type", validateListingType)
	mustRegister("is-alert-category", validateAlertCategory)
	mustRegister("is-property-type", validatePropertyType)
	mustRegister("is-notification-kind", validateNotificationKind)
	mustRegister("is-user-role", validateUserRole)
}

// --- Validation functions ---

func validateListingType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empties
	}
	return models.ListingType(value).Valid()
}

func validateAlertCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.AlertCategory(value).Valid()
}

func validatePropertyType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PropertyType(value).Valid()
}

func validateNotificationKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.NotificationKind(value).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleUser, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}
