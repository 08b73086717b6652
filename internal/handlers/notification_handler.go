package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jafrydeep2/offmarket-sub000/internal/middleware"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/internal/services"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Protected routes - all authenticated users
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.GetFeed)
		notifications.GET("/:notificationId", h.GetNotification)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/:notificationId/read", h.MarkAsRead)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.DELETE("/:notificationId", h.DeleteNotification)
		notifications.DELETE("/multiple", h.DeleteMultiple)
		notifications.DELETE("", h.DeleteAll)
	}

	// Admin routes
	admin := r.Group("/admin/notifications")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.POST("", h.CreateNotification)
		admin.GET("/all", h.GetAllNotifications)
		admin.POST("/bulk-send", h.SendBulkNotification)
		admin.PUT("/:notificationId/unread", h.MarkAsUnread)
		admin.DELETE("/cleanup", h.CleanOldNotifications)
	}
}

// recipient resolves the feed address of the authenticated principal:
// admins read the admin-addressed feed, everyone else their user feed.
func (h *NotificationHandler) recipient(c *gin.Context, requesterID string) (userID, adminID *string) {
	if h.IsAdminRequest(c) {
		return nil, &requesterID
	}
	return &requesterID, nil
}

// --- User feed handlers ---

func (h *NotificationHandler) GetFeed(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria repositories.NotificationCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}
	criteria.UserID, criteria.AdminID = h.recipient(c, requesterID)
	if criteria.Limit <= 0 || criteria.Limit > 100 {
		criteria.Limit = 20
	}

	feed, err := h.notificationService.List(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *NotificationHandler) GetNotification(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.GetByID(c.Param("notificationId"), requesterID, h.IsAdminRequest(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	userID, adminID := h.recipient(c, requesterID)
	count, err := h.notificationService.UnreadCount(userID, adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Param("notificationId"), requesterID, h.IsAdminRequest(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	userID, adminID := h.recipient(c, requesterID)
	affected, err := h.notificationService.MarkAllRead(userID, adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AffectedResponse{Affected: affected})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Param("notificationId"), requesterID, h.IsAdminRequest(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) DeleteMultiple(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BulkDeleteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	affected, err := h.notificationService.DeleteMany(req.IDs, requesterID, h.IsAdminRequest(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AffectedResponse{Affected: affected})
}

func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	userID, adminID := h.recipient(c, requesterID)
	affected, err := h.notificationService.DeleteAll(userID, adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AffectedResponse{Affected: affected})
}

// --- Admin handlers ---

func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	notification, err := h.notificationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) GetAllNotifications(c *gin.Context) {
	var criteria repositories.NotificationCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}
	if criteria.Limit <= 0 || criteria.Limit > 200 {
		criteria.Limit = 50
	}

	feed, err := h.notificationService.List(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *NotificationHandler) SendBulkNotification(c *gin.Context) {
	var req dto.BulkNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.notificationService.CreateBulk(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// Partial failures are reported per recipient, not as a request error.
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) MarkAsUnread(c *gin.Context) {
	if err := h.notificationService.MarkUnread(c.Param("notificationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unread"})
}

func (h *NotificationHandler) CleanOldNotifications(c *gin.Context) {
	var req dto.CleanupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	affected, err := h.notificationService.Cleanup(req.OlderThanDays)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AffectedResponse{Affected: affected})
}
