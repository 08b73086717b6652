package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindAdmins() ([]models.User, error)
	// FindSubscribers returns active users that have a subscription expiry
	// set; the expiry sweep iterates this set.
	FindSubscribers() ([]models.User, error)
	UpdatePreferences(userID string, prefs models.NotificationPreferences) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindAdmins() ([]models.User, error) {
	var admins []models.User
	err := r.db.Where("role = ? AND is_active = ?", models.UserRoleAdmin, true).Find(&admins).Error
	return admins, err
}

func (r *UserRepositoryImpl) FindSubscribers() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("subscription_expiry IS NOT NULL AND is_active = ?", true).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) UpdatePreferences(userID string, prefs models.NotificationPreferences) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"pref_email":           prefs.Email,
		"pref_push":            prefs.Push,
		"pref_sms":             prefs.SMS,
		"pref_property_alerts": prefs.PropertyAlerts,
		"pref_price_updates":   prefs.PriceUpdates,
		"pref_new_properties":  prefs.NewProperties,
		"pref_weekly_digest":   prefs.WeeklyDigest,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
