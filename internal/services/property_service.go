package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/jafrydeep2/offmarket-sub000/internal/logger"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
)

type PropertyService interface {
	Create(ctx context.Context, ownerUserID string, req dto.CreatePropertyRequest) (*dto.PropertyResponse, error)
	Update(ctx context.Context, id, requesterID string, isAdmin bool, req dto.UpdatePropertyRequest) (*dto.PropertyResponse, error)
	GetByID(id string) (*dto.PropertyResponse, error)
	List(criteria repositories.PropertyCriteria) (*dto.PropertyListResponse, error)
	Delete(id, requesterID string, isAdmin bool) error
	SendInquiry(ctx context.Context, propertyID, fromUserID, message string) error
}

type PropertyServiceImpl struct {
	propertyRepo repositories.PropertyRepository
	fanout       FanoutService
	notification NotificationService
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	fanout FanoutService,
	notification NotificationService,
) PropertyService {
	return &PropertyServiceImpl{
		propertyRepo: propertyRepo,
		fanout:       fanout,
		notification: notification,
	}
}

// Create persists the listing and, when it is published, kicks off the
// alert fan-out in the background. Listing creation never waits on
// notification delivery.
func (s *PropertyServiceImpl) Create(ctx context.Context, ownerUserID string, req dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	if !req.ListingType.Valid() {
		return nil, apperrors.ErrInvalidListingType
	}
	if !req.PropertyType.Valid() {
		return nil, apperrors.ErrInvalidPropertyType
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	property := &models.Property{
		OwnerUserID:  ownerUserID,
		Title:        req.Title,
		ListingType:  req.ListingType,
		PropertyType: req.PropertyType,
		City:         req.City,
		Neighborhood: req.Neighborhood,
		Rooms:        req.Rooms,
		PriceText:    req.PriceText,
		Description:  req.Description,
		IsPublished:  published,
	}

	if err := s.propertyRepo.Create(property); err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	if published {
		s.dispatchFanout(property)
	}

	resp := dto.ToPropertyResponse(property)
	return &resp, nil
}

// Update merges the supplied fields into the listing. Flipping
// IsPublished from false to true counts as publication and runs the
// alert fan-out, same as a published create.
func (s *PropertyServiceImpl) Update(ctx context.Context, id, requesterID string, isAdmin bool, req dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(id)
	if err == repositories.ErrPropertyNotFound {
		return nil, apperrors.ErrNotFound(err)
	}
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	if !isAdmin && property.OwnerUserID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	wasPublished := property.IsPublished

	if req.Title != nil {
		property.Title = *req.Title
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.Neighborhood != nil {
		property.Neighborhood = *req.Neighborhood
	}
	if req.Rooms != nil {
		property.Rooms = *req.Rooms
	}
	if req.PriceText != nil {
		property.PriceText = *req.PriceText
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.IsPublished != nil {
		property.IsPublished = *req.IsPublished
	}

	if err := s.propertyRepo.Update(property); err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	if !wasPublished && property.IsPublished {
		s.dispatchFanout(property)
	}

	resp := dto.ToPropertyResponse(property)
	return &resp, nil
}

// dispatchFanout runs the alert fan-out in the background so listing
// writes never wait on notification delivery.
func (s *PropertyServiceImpl) dispatchFanout(property *models.Property) {
	if s.fanout == nil {
		return
	}
	go func(p models.Property) {
		fanoutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.fanout.OnPropertyPublished(fanoutCtx, &p); err != nil {
			logger.WithError(err).Error("alert fan-out failed", "property_id", p.ID)
		}
	}(*property)
}

func (s *PropertyServiceImpl) GetByID(id string) (*dto.PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(id)
	if err == repositories.ErrPropertyNotFound {
		return nil, apperrors.ErrNotFound(err)
	}
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	resp := dto.ToPropertyResponse(property)
	return &resp, nil
}

func (s *PropertyServiceImpl) List(criteria repositories.PropertyCriteria) (*dto.PropertyListResponse, error) {
	properties, total, err := s.propertyRepo.FindByCriteria(criteria)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	resp := dto.ToPropertyListResponse(properties, total)
	return &resp, nil
}

func (s *PropertyServiceImpl) Delete(id, requesterID string, isAdmin bool) error {
	property, err := s.propertyRepo.FindByID(id)
	if err == repositories.ErrPropertyNotFound {
		return apperrors.ErrNotFound(err)
	}
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if !isAdmin && property.OwnerUserID != requesterID {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.propertyRepo.Delete(id); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// SendInquiry notifies the listing owner that a user asked about their
// property, and mirrors the event to the admin feed.
func (s *PropertyServiceImpl) SendInquiry(ctx context.Context, propertyID, fromUserID, message string) error {
	property, err := s.propertyRepo.FindByID(propertyID)
	if err == repositories.ErrPropertyNotFound {
		return apperrors.ErrNotFound(err)
	}
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}

	data, _ := json.Marshal(map[string]string{
		"property_id":  property.ID,
		"from_user_id": fromUserID,
	})

	ownerID := property.OwnerUserID
	_, err = s.notification.Create(ctx, dto.CreateNotificationRequest{
		UserID:  &ownerID,
		Type:    CausePropertyInquiry,
		Kind:    models.NotificationKindInfo,
		Title:   "New inquiry on your listing",
		Message: fmt.Sprintf("%q received an inquiry: %s", property.Title, message),
		Data:    datatypes.JSON(data),
	})
	if err != nil {
		return err
	}

	if _, err := s.notification.NotifyAdmins(ctx, CausePropertyInquiry, models.NotificationKindInfo,
		"Property inquiry", fmt.Sprintf("Inquiry received for %q", property.Title), datatypes.JSON(data)); err != nil {
		logger.WithError(err).Warn("admin inquiry notification failed", "property_id", property.ID)
	}

	return nil
}
