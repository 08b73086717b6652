package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/jafrydeep2/offmarket-sub000/internal/models"
)

type CreateNotificationRequest struct {
	UserID    *string                 `json:"user_id" validate:"omitempty,uuid4"`
	AdminID   *string                 `json:"admin_id" validate:"omitempty,uuid4"`
	Type      string                  `json:"type" validate:"required,max=60"`
	Kind      models.NotificationKind `json:"kind" validate:"required,is-notification-kind"`
	Title     string                  `json:"title" validate:"required,max=200"`
	Message   string                  `json:"message" validate:"required,max=2000"`
	Data      datatypes.JSON          `json:"data,omitempty"`
	ActionURL *string                 `json:"action_url" validate:"omitempty,max=500"`
}

type BulkNotificationRequest struct {
	UserIDs   []string                `json:"user_ids" validate:"required,min=1,dive,uuid4"`
	Type      string                  `json:"type" validate:"required,max=60"`
	Kind      models.NotificationKind `json:"kind" validate:"required,is-notification-kind"`
	Title     string                  `json:"title" validate:"required,max=200"`
	Message   string                  `json:"message" validate:"required,max=2000"`
	Data      datatypes.JSON          `json:"data,omitempty"`
	ActionURL *string                 `json:"action_url" validate:"omitempty,max=500"`
}

// RecipientOutcome reports the result of one recipient within a bulk
// dispatch. A failed recipient never hides the successes around it.
type RecipientOutcome struct {
	UserID         string  `json:"user_id"`
	Delivered      bool    `json:"delivered"`
	NotificationID *string `json:"notification_id,omitempty"`
	Error          *string `json:"error,omitempty"`
}

type BulkNotificationResponse struct {
	Outcomes  []RecipientOutcome `json:"outcomes"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	UserID    *string                 `json:"user_id,omitempty"`
	AdminID   *string                 `json:"admin_id,omitempty"`
	Type      string                  `json:"type"`
	Kind      models.NotificationKind `json:"kind"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Data      datatypes.JSON          `json:"data,omitempty"`
	ActionURL *string                 `json:"action_url,omitempty"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid4"`
}

type CleanupRequest struct {
	OlderThanDays int `json:"older_than_days" validate:"required,gte=1"`
}

type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

func ToNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		AdminID:   n.AdminID,
		Type:      n.Type,
		Kind:      n.Kind,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		ActionURL: n.ActionURL,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationListResponse(notifications []models.Notification, total int64) NotificationListResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, ToNotificationResponse(&notifications[i]))
	}
	return NotificationListResponse{Notifications: out, Total: total}
}
