package services

import (
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
)

// maxAlertsPerUser caps saved searches per account so one user cannot
// inflate the fan-out working set.
const maxAlertsPerUser = 100

type AlertService interface {
	Create(userID string, req dto.CreateAlertRequest) (*dto.AlertResponse, error)
	GetByID(id, requesterID string, isAdmin bool) (*dto.AlertResponse, error)
	ListForUser(userID string, limit, offset int) (*dto.AlertListResponse, error)
	Update(id, requesterID string, isAdmin bool, req dto.UpdateAlertRequest) (*dto.AlertResponse, error)
	SetActive(id, requesterID string, isAdmin bool, active bool) error
	Delete(id, requesterID string, isAdmin bool) error
}

type AlertServiceImpl struct {
	alertRepo repositories.AlertRepository
}

func NewAlertService(alertRepo repositories.AlertRepository) AlertService {
	return &AlertServiceImpl{alertRepo: alertRepo}
}

// validateBudget refuses inverted ranges up front. Match evaluation
// assumes every stored alert has a coherent range.
func validateBudget(min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return apperrors.ErrBudgetRange
	}
	return nil
}

func (s *AlertServiceImpl) Create(userID string, req dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	if !req.TransactionType.Valid() {
		return nil, apperrors.ErrInvalidListingType
	}
	if !req.Category.Valid() {
		return nil, apperrors.ErrInvalidAlertCategory
	}
	if err := validateBudget(req.MinBudget, req.MaxBudget); err != nil {
		return nil, err
	}

	count, err := s.alertRepo.CountByUser(userID)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	if count >= maxAlertsPerUser {
		return nil, apperrors.ErrTooManyAlerts
	}

	alert := &models.Alert{
		UserID:          userID,
		TransactionType: req.TransactionType,
		Category:        req.Category,
		MinBudget:       req.MinBudget,
		MaxBudget:       req.MaxBudget,
		Location:        req.Location,
		MinRooms:        req.MinRooms,
		IsActive:        true,
	}

	if err := s.alertRepo.Create(alert); err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	resp := dto.ToAlertResponse(alert)
	return &resp, nil
}

func (s *AlertServiceImpl) GetByID(id, requesterID string, isAdmin bool) (*dto.AlertResponse, error) {
	alert, err := s.findAuthorized(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	resp := dto.ToAlertResponse(alert)
	return &resp, nil
}

func (s *AlertServiceImpl) ListForUser(userID string, limit, offset int) (*dto.AlertListResponse, error) {
	criteria := repositories.AlertCriteria{
		UserID: &userID,
		Limit:  limit,
		Offset: offset,
	}
	alerts, total, err := s.alertRepo.FindByCriteria(criteria)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	resp := dto.ToAlertListResponse(alerts, total)
	return &resp, nil
}

func (s *AlertServiceImpl) Update(id, requesterID string, isAdmin bool, req dto.UpdateAlertRequest) (*dto.AlertResponse, error) {
	alert, err := s.findAuthorized(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.TransactionType != nil {
		if !req.TransactionType.Valid() {
			return nil, apperrors.ErrInvalidListingType
		}
		alert.TransactionType = *req.TransactionType
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, apperrors.ErrInvalidAlertCategory
		}
		alert.Category = *req.Category
	}
	if req.MinBudget != nil {
		alert.MinBudget = req.MinBudget
	}
	if req.MaxBudget != nil {
		alert.MaxBudget = req.MaxBudget
	}
	if err := validateBudget(alert.MinBudget, alert.MaxBudget); err != nil {
		return nil, err
	}
	if req.Location != nil {
		alert.Location = req.Location
	}
	if req.MinRooms != nil {
		alert.MinRooms = req.MinRooms
	}
	if req.IsActive != nil {
		alert.IsActive = *req.IsActive
	}

	if err := s.alertRepo.Update(alert); err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	resp := dto.ToAlertResponse(alert)
	return &resp, nil
}

func (s *AlertServiceImpl) SetActive(id, requesterID string, isAdmin bool, active bool) error {
	if _, err := s.findAuthorized(id, requesterID, isAdmin); err != nil {
		return err
	}
	if err := s.alertRepo.SetActive(id, active); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// Delete removes the alert permanently. Alerts are small criteria rows
// with no history worth keeping, so this is a hard delete.
func (s *AlertServiceImpl) Delete(id, requesterID string, isAdmin bool) error {
	if _, err := s.findAuthorized(id, requesterID, isAdmin); err != nil {
		return err
	}
	if err := s.alertRepo.Delete(id); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

func (s *AlertServiceImpl) findAuthorized(id, requesterID string, isAdmin bool) (*models.Alert, error) {
	alert, err := s.alertRepo.FindByID(id)
	if err == repositories.ErrAlertNotFound {
		return nil, apperrors.ErrNotFound(err)
	}
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	if !isAdmin && alert.UserID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return alert, nil
}
