package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error envelope, deriving the status from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	if dto.IsRetryable(code) {
		c.Header("Retry-After", dto.RetryAfterSeconds)
	}
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// HandleError converts an error returned by the application layer into a
// response. Domain errors keep their code; anything else becomes a 500
// without leaking the cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		logger.L(c.Request.Context()).Error("Unhandled error", zap.Error(err))
		h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
		return
	}

	if dto.GetHTTPStatus(domainErr.Code) >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed",
			zap.String("code", domainErr.Code),
			zap.Error(err))
	}

	if len(domainErr.Fields) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			domainErr.Message, middleware.GetRequestID(c), dto.FromFieldErrors(domainErr.Fields)))
		return
	}
	h.Error(c, domainErr.Code, domainErr.Message)
}

// parseUUID parses an invoice id taken from the path or query
func (h *BaseHandler) parseUUID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Error(c, shared.CodeValidation, "Invalid invoice ID format")
		return uuid.Nil, false
	}
	return id, true
}
