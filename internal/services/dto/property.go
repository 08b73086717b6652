package dto

import (
	"time"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

type CreatePropertyRequest struct {
	Title        string              `json:"title" validate:"required,min=3,max=200"`
	ListingType  models.ListingType  `json:"listing_type" validate:"required,is-listing-type"`
	PropertyType models.PropertyType `json:"property_type" validate:"required,is-property-type"`
	City         string              `json:"city" validate:"required,max=120"`
	Neighborhood string              `json:"neighborhood" validate:"omitempty,max=120"`
	Rooms        float64             `json:"rooms" validate:"gte=0"`
	PriceText    string              `json:"price_text" validate:"required,max=60"`
	Description  string              `json:"description" validate:"omitempty,max=5000"`
	IsPublished  *bool               `json:"is_published"`
}

// UpdatePropertyRequest edits the descriptive fields of a listing.
// Listing and property type are fixed at creation so saved-alert
// semantics never shift under an existing listing.
type UpdatePropertyRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=3,max=200"`
	City         *string  `json:"city" validate:"omitempty,min=1,max=120"`
	Neighborhood *string  `json:"neighborhood" validate:"omitempty,max=120"`
	Rooms        *float64 `json:"rooms" validate:"omitempty,gte=0"`
	PriceText    *string  `json:"price_text" validate:"omitempty,min=1,max=60"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	IsPublished  *bool    `json:"is_published"`
}

type PropertyResponse struct {
	ID           string              `json:"id"`
	OwnerUserID  string              `json:"owner_user_id"`
	Title        string              `json:"title"`
	ListingType  models.ListingType  `json:"listing_type"`
	PropertyType models.PropertyType `json:"property_type"`
	City         string              `json:"city"`
	Neighborhood string              `json:"neighborhood,omitempty"`
	Rooms        float64             `json:"rooms"`
	PriceText    string              `json:"price_text"`
	Description  string              `json:"description,omitempty"`
	IsPublished  bool                `json:"is_published"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type PropertyListResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Total      int64              `json:"total"`
}

type PropertyInquiryRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

func ToPropertyResponse(property *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:           property.ID,
		OwnerUserID:  property.OwnerUserID,
		Title:        property.Title,
		ListingType:  property.ListingType,
		PropertyType: property.PropertyType,
		City:         property.City,
		Neighborhood: property.Neighborhood,
		Rooms:        property.Rooms,
		PriceText:    property.PriceText,
		Description:  property.Description,
		IsPublished:  property.IsPublished,
		CreatedAt:    property.CreatedAt,
		UpdatedAt:    property.UpdatedAt,
	}
}

func ToPropertyListResponse(properties []models.Property, total int64) PropertyListResponse {
	out := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		out = append(out, ToPropertyResponse(&properties[i]))
	}
	return PropertyListResponse{Properties: out, Total: total}
}
