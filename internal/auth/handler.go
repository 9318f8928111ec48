// File: internal/auth/handler.go
package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/middleware"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/response"
)

// Handler exposes the auth-service HTTP API.
type Handler struct {
	service *Service
	writer  *response.Writer
	logger  *zap.Logger
}

func NewHandler(service *Service, writer *response.Writer, logger *zap.Logger) *Handler {
	return &Handler{service: service, writer: writer, logger: logger}
}

// RegisterRoutes wires the auth endpoints onto the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", middleware.RequireIdentity(h.writer), h.Logout)
	}

	users := router.Group("/api/users", middleware.RequireIdentity(h.writer))
	{
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid registration payload")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.Created(c, "USER_REGISTERED", "user registered successfully", user)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "AUTH_LOGIN_OK", "login successful", resp)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "refreshToken is required")
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "AUTH_TOKEN_REFRESHED", "token refreshed successfully", resp)
}

func (h *Handler) Logout(c *gin.Context) {
	ident, _ := middleware.IdentityFrom(c)
	if err := h.service.Logout(c.Request.Context(), ident.UserID); err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "AUTH_LOGOUT_OK", "logout successful", nil)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := h.ownUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "USER_FETCHED", "user fetched successfully", user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := h.ownUserID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid update payload")
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		h.writer.FromError(c, err)
		return
	}
	h.writer.OK(c, "USER_UPDATED", "user updated successfully", user)
}

// ownUserID parses the path id and enforces that callers only reach their
// own profile. A foreign id is reported as not found, not as forbidden.
func (h *Handler) ownUserID(c *gin.Context) (int64, bool) {
	ident, _ := middleware.IdentityFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writer.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return 0, false
	}
	if id != ident.UserID {
		h.writer.FromError(c, apperrors.ErrNotFound)
		return 0, false
	}
	return id, true
}
