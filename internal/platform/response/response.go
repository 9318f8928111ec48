// File: internal/platform/response/response.go
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
)

const (
	// ContextStartTimeKey holds the request start time, set by the request
	// middleware and used to stamp durationMs into the envelope meta.
	ContextStartTimeKey = "request_start_time"
	// ContextRequestIDKey holds the per-request UUID.
	ContextRequestIDKey = "request_id"
)

// ErrorDetail is a single entry of the errors list in the envelope.
type ErrorDetail struct {
	AppCode string `json:"appCode"`
	Message string `json:"message"`
}

// Meta carries per-response bookkeeping.
type Meta struct {
	RequestID  string    `json:"requestId"`
	Timestamp  time.Time `json:"timestamp"`
	Service    string    `json:"service"`
	Version    string    `json:"version"`
	DurationMs int64     `json:"durationMs"`
}

// Envelope is the uniform response wrapper shared by every service.
type Envelope struct {
	Success    bool          `json:"success"`
	HTTPStatus int           `json:"httpStatus"`
	AppCode    string        `json:"appCode"`
	Message    string        `json:"message"`
	Data       interface{}   `json:"data"`
	Errors     []ErrorDetail `json:"errors"`
	Meta       Meta          `json:"meta"`
}

// Writer builds envelopes stamped with a fixed service identity.
type Writer struct {
	service string
	version string
	logger  *zap.Logger
}

func NewWriter(service, version string, logger *zap.Logger) *Writer {
	return &Writer{service: service, version: version, logger: logger}
}

// OK writes a success envelope with the given payload.
func (w *Writer) OK(c *gin.Context, appCode, message string, data interface{}) {
	w.write(c, http.StatusOK, true, appCode, message, data, nil)
}

// Created writes a 201 success envelope.
func (w *Writer) Created(c *gin.Context, appCode, message string, data interface{}) {
	w.write(c, http.StatusCreated, true, appCode, message, data, nil)
}

// Error writes a failure envelope with an explicit status and code.
func (w *Writer) Error(c *gin.Context, status int, appCode, message string) {
	w.logger.Warn("API error response",
		zap.Int("status_code", status),
		zap.String("app_code", appCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	w.write(c, status, false, appCode, message, nil, []ErrorDetail{{AppCode: appCode, Message: message}})
}

// FromError maps a domain error to its envelope. Unexpected errors are
// logged server-side and surfaced as a generic internal error.
func (w *Writer) FromError(c *gin.Context, err error) {
	status, appCode := apperrors.Map(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		w.logger.Error("unhandled error", zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		message = "internal server error"
	}
	w.Error(c, status, appCode, message)
}

func (w *Writer) write(c *gin.Context, status int, success bool, appCode, message string, data interface{}, details []ErrorDetail) {
	if details == nil {
		details = []ErrorDetail{}
	}
	c.JSON(status, Envelope{
		Success:    success,
		HTTPStatus: status,
		AppCode:    appCode,
		Message:    message,
		Data:       data,
		Errors:     details,
		Meta:       w.meta(c),
	})
}

func (w *Writer) meta(c *gin.Context) Meta {
	m := Meta{
		RequestID: uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Service:   w.service,
		Version:   w.version,
	}
	if id := c.GetString(ContextRequestIDKey); id != "" {
		m.RequestID = id
	}
	if v, ok := c.Get(ContextStartTimeKey); ok {
		if start, ok := v.(time.Time); ok {
			m.DurationMs = time.Since(start).Milliseconds()
		}
	}
	return m
}
