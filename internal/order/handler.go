// File: internal/order/handler.go
package order

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/middleware"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

// Handler exposes the order-service HTTP API. Every endpoint requires the
// gateway-injected identity; all lookups are scoped to the caller.
type Handler struct {
	service *Service
	writer  *response.Writer
	logger  *zap.Logger
}

func NewHandler(service *Service, writer *response.Writer, logger *zap.Logger) *Handler {
	return &Handler{service: service, writer: writer, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	orders := router.Group("/api/orders", middleware.RequireIdentity(h.writer))
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:orderNumber", h.Get)
		orders.PATCH("/:orderNumber/status", h.UpdateStatus)
		orders.DELETE("/:orderNumber", h.Cancel)
	}
}

func (h *Handler) Create(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "at least one item with productId and positive quantity is required")
		return
	}

	o, err := h.service.Create(c.Request.Context(), ident, req)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.Created(c, "ORDER_CREATED", "order created successfully", o)
}

func (h *Handler) List(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)

	filter := ListFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unknown status filter")
			return
		}
		filter.Status = status
	}
	var err error
	if filter.Page, err = intQuery(c, "page", 1); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid page")
		return
	}
	if filter.PageSize, err = intQuery(c, "pageSize", 0); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid pageSize")
		return
	}

	result, err := h.service.List(c.Request.Context(), ident, filter)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "ORDERS_FETCHED", "orders fetched successfully", result)
}

func (h *Handler) Get(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	orderNumber, ok := h.orderNumber(c)
	if !ok {
		return
	}

	o, err := h.service.Get(c.Request.Context(), ident, orderNumber)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "ORDER_FETCHED", "order fetched successfully", o)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	orderNumber, ok := h.orderNumber(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), ident, orderNumber, req.Status)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "ORDER_STATUS_UPDATED", "order status updated", o)
}

func (h *Handler) Cancel(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	orderNumber, ok := h.orderNumber(c)
	if !ok {
		return
	}

	o, err := h.service.Cancel(c.Request.Context(), ident, orderNumber)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "ORDER_CANCELLED", "order cancelled", o)
}

func (h *Handler) orderNumber(c *gin.Context) (string, bool) {
	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		h.writer.FromError(c, apperrors.ErrNotFound)
		return "", false
	}
	return orderNumber, true
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
