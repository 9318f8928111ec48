// File: internal/product/handler.go
package product

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/middleware"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

// Handler exposes the product-service HTTP API. Reads are public; writes
// require an authenticated identity forwarded by the gateway.
type Handler struct {
	service *Service
	writer  *response.Writer
	logger  *zap.Logger
}

func NewHandler(service *Service, writer *response.Writer, logger *zap.Logger) *Handler {
	return &Handler{service: service, writer: writer, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	products := router.Group("/api/products")
	{
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.POST("", middleware.RequireIdentity(h.writer), h.Create)
		products.PUT("/:id", middleware.RequireIdentity(h.writer), h.Update)
		products.DELETE("/:id", middleware.RequireIdentity(h.writer), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{Search: c.Query("search")}

	var err error
	if filter.Page, err = intQuery(c, "page", 1); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid page")
		return
	}
	if filter.PageSize, err = intQuery(c, "pageSize", 0); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid pageSize")
		return
	}
	if filter.MinPriceCents, err = int64Query(c, "minPriceCents"); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid minPriceCents")
		return
	}
	if filter.MaxPriceCents, err = int64Query(c, "maxPriceCents"); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid maxPriceCents")
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "PRODUCTS_FETCHED", "products fetched successfully", result)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "PRODUCT_FETCHED", "product fetched successfully", p)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product payload")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.Created(c, "PRODUCT_CREATED", "product created successfully", p)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product payload")
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "PRODUCT_UPDATED", "product updated successfully", p)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "PRODUCT_DELETED", "product deleted successfully", nil)
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product id")
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func int64Query(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
