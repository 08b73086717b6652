package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationCriteria filters the notification feed. A recipient is
// addressed through exactly one of UserID or AdminID.
type NotificationCriteria struct {
	UserID  *string                  `form:"user_id"`
	AdminID *string                  `form:"admin_id"`
	Kind    *models.NotificationKind `form:"kind"`
	Type    *string                  `form:"type"`
	IsRead  *bool                    `form:"is_read"`
	Since   *time.Time               `form:"since"`
	Limit   int                      `form:"limit"`
	Offset  int                      `form:"offset"`
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBatch(notifications []*models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindByCriteria(criteria NotificationCriteria) ([]models.Notification, int64, error)
	FindSince(since time.Time) ([]models.Notification, error)
	MarkAsRead(id string, readAt time.Time) error
	MarkAsUnread(id string) error
	MarkAllAsRead(userID, adminID *string, readAt time.Time) (int64, error)
	CountUnread(userID, adminID *string) (int64, error)
	Delete(id string) error
	DeleteMany(ids []string) (int64, error)
	DeleteAllForRecipient(userID, adminID *string) (int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBatch(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(notifications).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindByCriteria(criteria NotificationCriteria) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{})

	if criteria.UserID != nil {
		query = query.Where("user_id = ?", *criteria.UserID)
	}
	if criteria.AdminID != nil {
		query = query.Where("admin_id = ?", *criteria.AdminID)
	}
	if criteria.Kind != nil {
		query = query.Where("kind = ?", *criteria.Kind)
	}
	if criteria.Type != nil {
		query = query.Where("type = ?", *criteria.Type)
	}
	if criteria.IsRead != nil {
		query = query.Where("is_read = ?", *criteria.IsRead)
	}
	if criteria.Since != nil {
		query = query.Where("created_at >= ?", *criteria.Since)
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

	var notifications []models.Notification
	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) FindSince(since time.Time) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("created_at >= ?", since).Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(id string, readAt time.Time) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": readAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAsUnread(id string) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_read": false,
		"read_at": nil,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID, adminID *string, readAt time.Time) (int64, error) {
	query := r.forRecipient(userID, adminID).Where("is_read = ?", false)
	result := query.Updates(map[string]interface{}{
		"is_read": true,
		"read_at": readAt,
	})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) CountUnread(userID, adminID *string) (int64, error) {
	var count int64
	err := r.forRecipient(userID, adminID).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteMany(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Delete(&models.Notification{}, "id IN ?", ids)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) DeleteAllForRecipient(userID, adminID *string) (int64, error) {
	result := r.forRecipient(userID, adminID).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) forRecipient(userID, adminID *string) *gorm.DB {
	query := r.db.Model(&models.Notification{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if adminID != nil {
		query = query.Where("admin_id = ?", *adminID)
	}
	return query
}
