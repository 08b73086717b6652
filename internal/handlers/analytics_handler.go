package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jafrydeep2/offmarket-sub000/internal/middleware"
	"github.com/jafrydeep2/offmarket-sub000/internal/models"
	"github.com/jafrydeep2/offmarket-sub000/internal/services"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin/analytics")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("/notifications", h.GetNotificationStats)
		admin.GET("/platform", h.GetPlatformStats)
	}
}

func (h *AnalyticsHandler) GetNotificationStats(c *gin.Context) {
	windowDays := ParseQueryInt(c, "days", 30)

	stats, err := h.analyticsService.NotificationStats(windowDays, time.Now().UTC())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetPlatformStats(c *gin.Context) {
	windowDays := ParseQueryInt(c, "days", 30)

	stats, err := h.analyticsService.PlatformStats(windowDays, time.Now().UTC())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
