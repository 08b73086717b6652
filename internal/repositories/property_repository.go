package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
)

// PropertyCriteria filters property listings.
type PropertyCriteria struct {
	OwnerUserID  *string              `form:"owner_user_id"`
	ListingType  *models.ListingType  `form:"listing_type"`
	PropertyType *models.PropertyType `form:"property_type"`
	City         *string              `form:"city"`
	IsPublished  *bool                `form:"is_published"`
	Limit        int                  `form:"limit"`
	Offset       int                  `form:"offset"`
}

type PropertyRepository interface {
	Create(property *models.Property) error
	FindByID(id string) (*models.Property, error)
	FindByCriteria(criteria PropertyCriteria) ([]models.Property, int64, error)
	Update(property *models.Property) error
	Delete(id string) error
	CountCreatedSince(since time.Time) (int64, error)
}

type PropertyRepositoryImpl struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &PropertyRepositoryImpl{db: db}
}

func (r *PropertyRepositoryImpl) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

func (r *PropertyRepositoryImpl) FindByID(id string) (*models.Property, error) {
	var property models.Property
	err := r.db.First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepositoryImpl) FindByCriteria(criteria PropertyCriteria) ([]models.Property, int64, error) {
	query := r.db.Model(&models.Property{})

	if criteria.OwnerUserID != nil {
		query = query.Where("owner_user_id = ?", *criteria.OwnerUserID)
	}
	if criteria.ListingType != nil {
		query = query.Where("listing_type = ?", *criteria.ListingType)
	}
	if criteria.PropertyType != nil {
		query = query.Where("property_type = ?", *criteria.PropertyType)
	}
	if criteria.City != nil {
		query = query.Where("LOWER(city) = LOWER(?)", *criteria.City)
	}
	if criteria.IsPublished != nil {
		query = query.Where("is_published = ?", *criteria.IsPublished)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Limit > 0 {
		query = query.Limit(criteria.Limit)
	}
	if criteria.Offset > 0 {
		query = query.Offset(criteria.Offset)
	}

	var properties []models.Property
	err := query.Order("created_at DESC").Find(&properties).Error
	return properties, total, err
}

func (r *PropertyRepositoryImpl) Update(property *models.Property) error {
	return r.db.Save(property).Error
}

func (r *PropertyRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Property{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
