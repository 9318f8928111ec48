// File: internal/cart/handler.go
package cart

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/middleware"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

// HeaderSessionID carries the anonymous cart session. The service mints one
// on first contact and the handler echoes it back so the client can keep it.
const HeaderSessionID = "X-Session-Id"

// Handler exposes the cart-service HTTP API. Authenticated users are keyed
// by the gateway-injected identity; guests by the session header.
type Handler struct {
	service *Service
	writer  *response.Writer
	logger  *zap.Logger
}

func NewHandler(service *Service, writer *response.Writer, logger *zap.Logger) *Handler {
	return &Handler{service: service, writer: writer, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	carts := router.Group("/api/carts", middleware.OptionalIdentity())
	{
		carts.GET("", h.Get)
		carts.DELETE("", h.Clear)
		carts.POST("/items", h.AddItem)
		carts.PUT("/items/:productId", h.UpdateQuantity)
		carts.DELETE("/items/:productId", h.RemoveItem)
		carts.POST("/checkout", h.Checkout)
	}
}

func (h *Handler) Get(c *gin.Context) {
	owner := h.owner(c)
	result, err := h.service.Get(c.Request.Context(), owner)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	c.Header(HeaderSessionID, result.SessionID)
	h.writer.OK(c, "CART_FETCHED", "cart fetched successfully", result)
}

func (h *Handler) AddItem(c *gin.Context) {
	owner := h.owner(c)
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "productId and a positive quantity are required")
		return
	}

	result, err := h.service.AddItem(c.Request.Context(), owner, req)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	c.Header(HeaderSessionID, result.SessionID)
	h.writer.OK(c, "CART_ITEM_ADDED", "item added to cart", result)
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	owner := h.owner(c)
	productID, ok := h.productID(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "quantity is required")
		return
	}

	result, err := h.service.UpdateQuantity(c.Request.Context(), owner, productID, req.Quantity)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	c.Header(HeaderSessionID, result.SessionID)
	h.writer.OK(c, "CART_ITEM_UPDATED", "cart item updated", result)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	owner := h.owner(c)
	productID, ok := h.productID(c)
	if !ok {
		return
	}

	result, err := h.service.RemoveItem(c.Request.Context(), owner, productID)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	c.Header(HeaderSessionID, result.SessionID)
	h.writer.OK(c, "CART_ITEM_REMOVED", "item removed from cart", result)
}

func (h *Handler) Clear(c *gin.Context) {
	owner := h.owner(c)
	result, err := h.service.Clear(c.Request.Context(), owner)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	c.Header(HeaderSessionID, result.SessionID)
	h.writer.OK(c, "CART_CLEARED", "cart cleared", result)
}

func (h *Handler) Checkout(c *gin.Context) {
	owner := h.owner(c)
	result, err := h.service.Checkout(c.Request.Context(), owner)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "CART_CHECKED_OUT", "cart checked out", result)
}

// owner resolves whose cart the request targets. An authenticated identity
// wins; otherwise the session header, which may be empty on first contact.
func (h *Handler) owner(c *gin.Context) Owner {
	owner := Owner{SessionID: c.GetHeader(HeaderSessionID)}
	if ident, ok := middleware.IdentityFrom(c); ok {
		owner.UserID = &ident.UserID
	}
	return owner
}

func (h *Handler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product id")
		return 0, false
	}
	return id, true
}
