package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

var (
	ErrAlertNotFound = errors.New("alert not found")
)

// AlertCriteria filters saved search alerts.
type AlertCriteria struct {
	UserID          *string               `form:"user_id"`
	TransactionType *models.ListingType   `form:"transaction_type"`
	Category        *models.AlertCategory `form:"category"`
	IsActive        *bool                 `form:"is_active"`
	Limit           int                   `form:"limit"`
	Offset          int                   `form:"offset"`
}

type AlertRepository interface {
	Create(alert *models.Alert) error
	FindByID(id string) (*models.Alert, error)
	FindByCriteria(criteria AlertCriteria) ([]models.Alert, int64, error)
	// FindAllActive returns every active alert across all users.
	// The fan-out after a property is published walks this set.
	FindAllActive() ([]models.Alert, error)
	Update(alert *models.Alert) error
	SetActive(id string, active bool) error
	Delete(id string) error
	CountByUser(userID string) (int64, error)
}

type AlertRepositoryImpl struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &AlertRepositoryImpl{db: db}
}

func (r *AlertRepositoryImpl) Create(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

func (r *AlertRepositoryImpl) FindByID(id string) (*models.Alert, error) {
	var alert models.Alert
	err := r.db.First(&alert, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepositoryImpl) FindByCriteria(criteria AlertCriteria) ([]models.Alert, int64, error) {
	query := r.db.Model(&models.Alert{})

	if criteria.UserID != nil {
		query = query.Where("user_id = ?", *criteria.UserID)
	}
	if criteria.TransactionType != nil {
		query = query.Where("transaction_type = ?", *criteria.TransactionType)
	}
	if criteria.Category != nil {
		query = query.Where("category = ?", *criteria.Category)
	}
	if criteria.IsActive != nil {
		query = query.Where("is_active = ?", *criteria.IsActive)
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

	var alerts []models.Alert
	err := query.Order("created_at DESC").Find(&alerts).Error
	return alerts, total, err
}

func (r *AlertRepositoryImpl) FindAllActive() ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.Where("is_active = ?", true).Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepositoryImpl) Update(alert *models.Alert) error {
	return r.db.Save(alert).Error
}

func (r *AlertRepositoryImpl) SetActive(id string, active bool) error {
	result := r.db.Model(&models.Alert{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (r *AlertRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Alert{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (r *AlertRepositoryImpl) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Alert{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
