package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/jafrydeep2/offmarket-sub000/internal/logger"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/pkg/email"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
	"github.com/jafrydeep2/offmarket-sub000/pkg/apperrors"
)

// Notification cause categories. The cause both labels the feed entry and
// selects which preference flag gates the email side-channel.
const (
	CausePropertyMatch        = "property_match"
	CauseSubscriptionExpiring = "subscription_expiring"
	CauseSubscriptionExpired  = "subscription_expired"
	CausePropertyInquiry      = "property_inquiry"
	CauseAdminBroadcast       = "admin_broadcast"
	CauseSystem               = "system"
)

// DedupStore is the cool-down keyspace behind duplicate suppression.
// Both the Redis-backed store and the in-memory test store satisfy it.
type DedupStore interface {
	MarkOnce(ctx context.Context, key string, window time.Duration) (bool, error)
}

type NotificationService interface {
	Create(ctx context.Context, req dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	CreateBulk(ctx context.Context, req dto.BulkNotificationRequest) (*dto.BulkNotificationResponse, error)

	List(criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetByID(id, requesterID string, isAdmin bool) (*dto.NotificationResponse, error)
	MarkRead(id, requesterID string, isAdmin bool) error
	MarkUnread(id string) error
	MarkAllRead(userID, adminID *string) (int64, error)
	UnreadCount(userID, adminID *string) (int64, error)
	Delete(id, requesterID string, isAdmin bool) error
	DeleteMany(ids []string, requesterID string, isAdmin bool) (int64, error)
	DeleteAll(userID, adminID *string) (int64, error)
	Cleanup(olderThanDays int) (int64, error)

	NotifyPropertyMatch(ctx context.Context, user *models.User, property *models.Property, alert *models.Alert) (bool, error)
	NotifySubscriptionExpiring(ctx context.Context, user *models.User, daysLeft int, dedupKey string) (bool, error)
	NotifySubscriptionExpired(ctx context.Context, user *models.User, dedupKey string) (bool, error)
	NotifyAdmins(ctx context.Context, cause string, kind models.NotificationKind, title, message string, data datatypes.JSON) (int, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	emailSender      email.Sender
	dedup            DedupStore
	dedupWindow      time.Duration
	baseURL          string
}

// NewNotificationService builds the dispatcher. emailSender may be nil
// to disable the email side-channel entirely; pass a nil interface, not
// a nil concrete sender.
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	emailSender email.Sender,
	dedup DedupStore,
	dedupWindow time.Duration,
	baseURL string,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailSender:      emailSender,
		dedup:            dedup,
		dedupWindow:      dedupWindow,
		baseURL:          baseURL,
	}
}

// validateRecipient enforces the exactly-one-recipient rule.
func validateRecipient(userID, adminID *string) error {
	hasUser := userID != nil && *userID != ""
	hasAdmin := adminID != nil && *adminID != ""
	if hasUser == hasAdmin {
		return apperrors.ErrAmbiguousRecipient
	}
	return nil
}

func (s *NotificationServiceImpl) Create(ctx context.Context, req dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if err := validateRecipient(req.UserID, req.AdminID); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, apperrors.ErrInvalidNotificationKind
	}

	notification := &models.Notification{
		UserID:    req.UserID,
		AdminID:   req.AdminID,
		Type:      req.Type,
		Kind:      req.Kind,
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
		ActionURL: req.ActionURL,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	if req.UserID != nil {
		s.sendEmailSideChannel(ctx, *req.UserID, notification)
	}

	resp := dto.ToNotificationResponse(notification)
	return &resp, nil
}

// CreateBulk dispatches the same notification to many users. Each
// recipient is written independently: one failed insert marks only that
// recipient's outcome as failed and the loop continues.
func (s *NotificationServiceImpl) CreateBulk(ctx context.Context, req dto.BulkNotificationRequest) (*dto.BulkNotificationResponse, error) {
	if !req.Kind.Valid() {
		return nil, apperrors.ErrInvalidNotificationKind
	}

	resp := &dto.BulkNotificationResponse{
		Outcomes: make([]dto.RecipientOutcome, 0, len(req.UserIDs)),
	}

	for _, userID := range req.UserIDs {
		uid := userID
		notification := &models.Notification{
			UserID:    &uid,
			Type:      req.Type,
			Kind:      req.Kind,
			Title:     req.Title,
			Message:   req.Message,
			Data:      req.Data,
			ActionURL: req.ActionURL,
		}

		if err := s.notificationRepo.Create(notification); err != nil {
			msg := err.Error()
			resp.Outcomes = append(resp.Outcomes, dto.RecipientOutcome{
				UserID: uid,
				Error:  &msg,
			})
			resp.Failed++
			continue
		}

		s.sendEmailSideChannel(ctx, uid, notification)

		id := notification.ID
		resp.Outcomes = append(resp.Outcomes, dto.RecipientOutcome{
			UserID:         uid,
			Delivered:      true,
			NotificationID: &id,
		})
		resp.Succeeded++
	}

	var batchErr error
	if resp.Failed > 0 {
		batchErr = fmt.Errorf("%d of %d recipients failed", resp.Failed, len(req.UserIDs))
	}
	logger.DispatchLog(req.Type, len(req.UserIDs), resp.Succeeded, batchErr)

	return resp, nil
}

// sendEmailSideChannel mirrors an in-app notification to email when the
// recipient's preferences allow it. Failures are logged and swallowed;
// the in-app write has already committed and must not be rolled back by
// a gateway problem.
func (s *NotificationServiceImpl) sendEmailSideChannel(_ context.Context, userID string, n *models.Notification) {
	if s.emailSender == nil {
		return
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.WithError(err).Warn("email side-channel skipped, recipient lookup failed", "user_id", userID)
		return
	}
	if !emailAllowed(user.Preferences, n.Type) {
		return
	}

	if err := s.emailSender.SendNotification(user.Email, n.Title, n.Message); err != nil {
		appErr := apperrors.GatewayFailure(err, "email")
		logger.WithError(appErr).Error("notification email failed",
			"user_id", userID,
			"cause", n.Type,
		)
	}
}

func emailAllowed(prefs models.NotificationPreferences, cause string) bool {
	if !prefs.Email {
		return false
	}
	switch cause {
	case CausePropertyMatch:
		return prefs.PropertyAlerts
	case CauseSubscriptionExpiring, CauseSubscriptionExpired:
		return true
	default:
		return true
	}
}

func (s *NotificationServiceImpl) List(criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindByCriteria(criteria)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	resp := dto.ToNotificationListResponse(notifications, total)
	return &resp, nil
}

func (s *NotificationServiceImpl) GetByID(id, requesterID string, isAdmin bool) (*dto.NotificationResponse, error) {
	notification, err := s.findAuthorized(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	resp := dto.ToNotificationResponse(notification)
	return &resp, nil
}

func (s *NotificationServiceImpl) MarkRead(id, requesterID string, isAdmin bool) error {
	if _, err := s.findAuthorized(id, requesterID, isAdmin); err != nil {
		return err
	}
	if err := s.notificationRepo.MarkAsRead(id, time.Now().UTC()); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// MarkUnread reverts a read marker. Only admins reach this path; the
// route layer guards it.
func (s *NotificationServiceImpl) MarkUnread(id string) error {
	err := s.notificationRepo.MarkAsUnread(id)
	if err == repositories.ErrNotificationNotFound {
		return apperrors.ErrNotFound(err)
	}
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(userID, adminID *string) (int64, error) {
	if err := validateRecipient(userID, adminID); err != nil {
		return 0, err
	}
	affected, err := s.notificationRepo.MarkAllAsRead(userID, adminID, time.Now().UTC())
	if err != nil {
		return 0, apperrors.PersistenceFailure(err)
	}
	return affected, nil
}

func (s *NotificationServiceImpl) UnreadCount(userID, adminID *string) (int64, error) {
	if err := validateRecipient(userID, adminID); err != nil {
		return 0, err
	}
	count, err := s.notificationRepo.CountUnread(userID, adminID)
	if err != nil {
		return 0, apperrors.PersistenceFailure(err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) Delete(id, requesterID string, isAdmin bool) error {
	if _, err := s.findAuthorized(id, requesterID, isAdmin); err != nil {
		return err
	}
	if err := s.notificationRepo.Delete(id); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

func (s *NotificationServiceImpl) DeleteMany(ids []string, requesterID string, isAdmin bool) (int64, error) {
	if !isAdmin {
		// Ownership check per id; unknown ids are skipped, not fatal.
		owned := make([]string, 0, len(ids))
		for _, id := range ids {
			if _, err := s.findAuthorized(id, requesterID, false); err == nil {
				owned = append(owned, id)
			}
		}
		ids = owned
	}
	affected, err := s.notificationRepo.DeleteMany(ids)
	if err != nil {
		return 0, apperrors.PersistenceFailure(err)
	}
	return affected, nil
}

func (s *NotificationServiceImpl) DeleteAll(userID, adminID *string) (int64, error) {
	if err := validateRecipient(userID, adminID); err != nil {
		return 0, err
	}
	affected, err := s.notificationRepo.DeleteAllForRecipient(userID, adminID)
	if err != nil {
		return 0, apperrors.PersistenceFailure(err)
	}
	return affected, nil
}

func (s *NotificationServiceImpl) Cleanup(olderThanDays int) (int64, error) {
	if olderThanDays < 1 {
		return 0, apperrors.NewBadRequestError("older_than_days must be at least 1")
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	affected, err := s.notificationRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, apperrors.PersistenceFailure(err)
	}
	return affected, nil
}

// ---------------------------------------------------------------------------
// Engine-facing factories
// ---------------------------------------------------------------------------

// NotifyPropertyMatch writes the in-app match notification for one
// alert hit and mirrors it to email when allowed. A cool-down key on
// (user, property) suppresses repeats, so re-publishing the same
// listing does not spam the same user. Returns false when suppressed.
func (s *NotificationServiceImpl) NotifyPropertyMatch(ctx context.Context, user *models.User, property *models.Property, alert *models.Alert) (bool, error) {
	if s.dedup != nil {
		key := fmt.Sprintf("%s:%s:%s", CausePropertyMatch, user.ID, property.ID)
		first, err := s.dedup.MarkOnce(ctx, key, s.dedupWindow)
		if err != nil {
			// Degrade to at-least-once rather than dropping the match.
			logger.WithError(err).Warn("dedup store unavailable, delivering anyway", "key", key)
		} else if !first {
			return false, nil
		}
	}

	actionURL := s.baseURL + "/properties/" + property.ID
	data, _ := json.Marshal(map[string]string{
		"property_id": property.ID,
		"alert_id":    alert.ID,
	})

	notification := &models.Notification{
		UserID:    &user.ID,
		Type:      CausePropertyMatch,
		Kind:      models.NotificationKindInfo,
		Title:     "New property matches your alert",
		Message:   fmt.Sprintf("%s in %s (%s)", property.Title, property.City, property.PriceText),
		Data:      datatypes.JSON(data),
		ActionURL: &actionURL,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return false, apperrors.PersistenceFailure(err)
	}

	if s.emailSender != nil && emailAllowed(user.Preferences, CausePropertyMatch) {
		err := s.emailSender.SendPropertyMatch(user.Email, user.Name, property.Title, property.City, property.PriceText, actionURL)
		if err != nil {
			appErr := apperrors.GatewayFailure(err, "email")
			logger.WithError(appErr).Error("property match email failed", "user_id", user.ID, "property_id", property.ID)
		}
	}

	return true, nil
}

// NotifySubscriptionExpiring warns a user whose subscription runs out
// within the grace window. The message always names the day count. The
// caller supplies the idempotency key so repeated sweeps inside the
// window are no-ops.
func (s *NotificationServiceImpl) NotifySubscriptionExpiring(ctx context.Context, user *models.User, daysLeft int, dedupKey string) (bool, error) {
	if suppressed, err := s.checkDedup(ctx, dedupKey); err != nil || suppressed {
		return false, err
	}

	dayWord := "days"
	if daysLeft == 1 {
		dayWord = "day"
	}

	notification := &models.Notification{
		UserID:  &user.ID,
		Type:    CauseSubscriptionExpiring,
		Kind:    models.NotificationKindWarning,
		Title:   "Subscription expiring soon",
		Message: fmt.Sprintf("Your subscription expires in %d %s. Renew now to keep your alerts active.", daysLeft, dayWord),
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return false, apperrors.PersistenceFailure(err)
	}

	if s.emailSender != nil && emailAllowed(user.Preferences, CauseSubscriptionExpiring) {
		if err := s.emailSender.SendSubscriptionExpiring(user.Email, user.Name, daysLeft); err != nil {
			appErr := apperrors.GatewayFailure(err, "email")
			logger.WithError(appErr).Error("subscription expiring email failed", "user_id", user.ID)
		}
	}

	return true, nil
}

// NotifySubscriptionExpired records the lapse of a subscription.
func (s *NotificationServiceImpl) NotifySubscriptionExpired(ctx context.Context, user *models.User, dedupKey string) (bool, error) {
	if suppressed, err := s.checkDedup(ctx, dedupKey); err != nil || suppressed {
		return false, err
	}

	notification := &models.Notification{
		UserID:  &user.ID,
		Type:    CauseSubscriptionExpired,
		Kind:    models.NotificationKindError,
		Title:   "Subscription expired",
		Message: "Your subscription has expired. Your saved alerts are paused until you renew.",
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return false, apperrors.PersistenceFailure(err)
	}

	if s.emailSender != nil && emailAllowed(user.Preferences, CauseSubscriptionExpired) {
		if err := s.emailSender.SendSubscriptionExpired(user.Email, user.Name); err != nil {
			appErr := apperrors.GatewayFailure(err, "email")
			logger.WithError(appErr).Error("subscription expired email failed", "user_id", user.ID)
		}
	}

	return true, nil
}

// NotifyAdmins fans one event out to every active admin account.
// Returns the number of admins reached.
func (s *NotificationServiceImpl) NotifyAdmins(_ context.Context, cause string, kind models.NotificationKind, title, message string, data datatypes.JSON) (int, error) {
	admins, err := s.userRepo.FindAdmins()
	if err != nil {
		return 0, apperrors.PersistenceFailure(err)
	}

	if len(admins) == 0 {
		return 0, nil
	}

	batch := make([]*models.Notification, 0, len(admins))
	for i := range admins {
		adminID := admins[i].ID
		batch = append(batch, &models.Notification{
			AdminID: &adminID,
			Type:    cause,
			Kind:    kind,
			Title:   title,
			Message: message,
			Data:    data,
		})
	}

	if err := s.notificationRepo.CreateBatch(batch); err != nil {
		logger.WithError(err).Error("admin broadcast failed", "cause", cause, "admins", len(batch))
		return 0, apperrors.PersistenceFailure(err)
	}

	return len(batch), nil
}

// checkDedup reports whether the key is inside its cool-down window.
// A missing or failing store never suppresses delivery.
func (s *NotificationServiceImpl) checkDedup(ctx context.Context, key string) (bool, error) {
	if s.dedup == nil || key == "" {
		return false, nil
	}
	first, err := s.dedup.MarkOnce(ctx, key, s.dedupWindow)
	if err != nil {
		logger.WithError(err).Warn("dedup store unavailable, delivering anyway", "key", key)
		return false, nil
	}
	return !first, nil
}

func (s *NotificationServiceImpl) findAuthorized(id, requesterID string, isAdmin bool) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindByID(id)
	if err == repositories.ErrNotificationNotFound {
		return nil, apperrors.ErrNotFound(err)
	}
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	if !isAdmin && notification.Recipient() != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return notification, nil
}
