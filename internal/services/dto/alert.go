package dto

import (
	"time"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

type CreateAlertRequest struct {
	TransactionType models.ListingType   `json:"transaction_type" validate:"required,is-listing-type"`
	Category        models.AlertCategory `json:"category" validate:"required,is-alert-category"`
	MinBudget       *float64             `json:"min_budget" validate:"omitempty,gte=0"`
	MaxBudget       *float64             `json:"max_budget" validate:"omitempty,gte=0"`
	Location        *string              `json:"location" validate:"omitempty,max=120"`
	MinRooms        *float64             `json:"min_rooms" validate:"omitempty,gte=0"`
}

type UpdateAlertRequest struct {
	TransactionType *models.ListingType   `json:"transaction_type" validate:"omitempty,is-listing-type"`
	Category        *models.AlertCategory `json:"category" validate:"omitempty,is-alert-category"`
	MinBudget       *float64              `json:"min_budget" validate:"omitempty,gte=0"`
	MaxBudget       *float64              `json:"max_budget" validate:"omitempty,gte=0"`
	Location        *string               `json:"location" validate:"omitempty,max=120"`
	MinRooms        *float64              `json:"min_rooms" validate:"omitempty,gte=0"`
	IsActive        *bool                 `json:"is_active"`
}

type AlertResponse struct {
	ID              string               `json:"id"`
	UserID          string               `json:"user_id"`
	TransactionType models.ListingType   `json:"transaction_type"`
	Category        models.AlertCategory `json:"category"`
	MinBudget       *float64             `json:"min_budget,omitempty"`
	MaxBudget       *float64             `json:"max_budget,omitempty"`
	Location        *string              `json:"location,omitempty"`
	MinRooms        *float64             `json:"min_rooms,omitempty"`
	IsActive        bool                 `json:"is_active"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type AlertListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
	Total  int64           `json:"total"`
}

func ToAlertResponse(alert *models.Alert) AlertResponse {
	return AlertResponse{
		ID:              alert.ID,
		UserID:          alert.UserID,
		TransactionType: alert.TransactionType,
		Category:        alert.Category,
		MinBudget:       alert.MinBudget,
		MaxBudget:       alert.MaxBudget,
		Location:        alert.Location,
		MinRooms:        alert.MinRooms,
		IsActive:        alert.IsActive,
		CreatedAt:       alert.CreatedAt,
		UpdatedAt:       alert.UpdatedAt,
	}
}

func ToAlertListResponse(alerts []models.Alert, total int64) AlertListResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for i := range alerts {
		out = append(out, ToAlertResponse(&alerts[i]))
	}
	return AlertListResponse{Alerts: out, Total: total}
}
