package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jafrydeep2/offmarket-sub000/internal/middleware"
	"github.com/jafrydeep2/offmarket-sub000/internal/repositories"
	"github.com/jafrydeep2/offmarket-sub000/internal/services"
	"github.com/jafrydeep2/offmarket-sub000/internal/services/dto"
)

type PropertyHandler struct {
	*BaseHandler
	propertyService services.PropertyService
}

func NewPropertyHandler(base *BaseHandler, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler:     base,
		propertyService: propertyService,
	}
}

func (h *PropertyHandler) RegisterRoutes(r *gin.RouterGroup) {
	properties := r.Group("/properties")
	{
		properties.GET("", h.ListProperties)
		properties.GET("/:propertyId", h.GetProperty)
	}

	authed := r.Group("/properties")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("", h.CreateProperty)
		authed.PUT("/:propertyId", h.UpdateProperty)
		authed.DELETE("/:propertyId", h.DeleteProperty)
		authed.POST("/:propertyId/inquiries", h.SendInquiry)
	}
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), c.Param("propertyId"), userID, h.IsAdminRequest(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	property, err := h.propertyService.GetByID(c.Param("propertyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) ListProperties(c *gin.Context) {
	var criteria repositories.PropertyCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}
	if criteria.Limit <= 0 || criteria.Limit > 100 {
		criteria.Limit = 20
	}

	properties, err := h.propertyService.List(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, properties)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Param("propertyId"), userID, h.IsAdminRequest(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PropertyHandler) SendInquiry(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PropertyInquiryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.propertyService.SendInquiry(c.Request.Context(), c.Param("propertyId"), userID, req.Message)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}
