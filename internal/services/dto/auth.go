package dto

import "github.com/jafrydeep2/offmarket-sub000/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  models.UserRole `json:"role"`
	State string          `json:"subscription_state,omitempty"`
	Prefs PreferenceView  `json:"notification_preferences"`
}

type PreferenceView struct {
	Email          bool `json:"email"`
	Push           bool `json:"push"`
	SMS            bool `json:"sms"`
	PropertyAlerts bool `json:"property_alerts"`
	PriceUpdates   bool `json:"price_updates"`
	NewProperties  bool `json:"new_properties"`
	WeeklyDigest   bool `json:"weekly_digest"`
}

type UpdatePreferencesRequest struct {
	Email          *bool `json:"email"`
	Push           *bool `json:"push"`
	SMS            *bool `json:"sms"`
	PropertyAlerts *bool `json:"property_alerts"`
	PriceUpdates   *bool `json:"price_updates"`
	NewProperties  *bool `json:"new_properties"`
	WeeklyDigest   *bool `json:"weekly_digest"`
}

func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		Prefs: PreferenceView{
			Email:          user.Preferences.Email,
			Push:           user.Preferences.Push,
			SMS:            user.Preferences.SMS,
			PropertyAlerts: user.Preferences.PropertyAlerts,
			PriceUpdates:   user.Preferences.PriceUpdates,
			NewProperties:  user.Preferences.NewProperties,
			WeeklyDigest:   user.Preferences.WeeklyDigest,
		},
	}
}
