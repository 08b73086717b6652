package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jafrydeep2/offmarket-sub000/internal/middleware"
	"github.com/jafrydeep2/offmarket-sub000/internal/services"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
)

type AlertHandler struct {
	*BaseHandler
	alertService services.AlertService
}

func NewAlertHandler(base *BaseHandler, alertService services.AlertService) *AlertHandler {
	return &AlertHandler{
		BaseHandler:  base,
		alertService: alertService,
	}
}

func (h *AlertHandler) RegisterRoutes(r *gin.RouterGroup) {
	alerts := r.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware())
	{
		alerts.POST("", h.CreateAlert)
		alerts.GET("", h.GetUserAlerts)
		alerts.GET("/:alertId", h.GetAlert)
		alerts.PUT("/:alertId", h.UpdateAlert)
		alerts.PUT("/:alertId/activate", h.ActivateAlert)
		alerts.PUT("/:alertId/deactivate", h.DeactivateAlert)
		alerts.DELETE("/:alertId", h.DeleteAlert)
	}
}

func (h *AlertHandler) CreateAlert(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAlertRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	alert, err := h.alertService.Create(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alert)
}

func (h *AlertHandler) GetUserAlerts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	alerts, err := h.alertService.ListForUser(userID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) GetAlert(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	alert, err := h.alertService.GetByID(c.Param("alertId"), userID, h.IsAdminRequest(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) UpdateAlert(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAlertRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	alert, err := h.alertService.Update(c.Param("alertId"), userID, h.IsAdminRequest(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) ActivateAlert(c *gin.Context) {
	h.setActive(c, true)
}

func (h *AlertHandler) DeactivateAlert(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AlertHandler) setActive(c *gin.Context, active bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.alertService.SetActive(c.Param("alertId"), userID, h.IsAdminRequest(c), active); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_active": active})
}

func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.alertService.Delete(c.Param("alertId"), userID, h.IsAdminRequest(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
