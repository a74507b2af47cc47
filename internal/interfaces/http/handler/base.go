package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/domain/shared"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/interfaces/http/dto"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides response helpers shared by all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a base handler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success writes a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 response with data and pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.respondError(c, dto.ErrCodeInvalidInput, message)
}

// BindingError writes a 400 response for a request binding failure,
// formatting validator errors field by field
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, e := range verrs {
			parts = append(parts, e.Field()+": "+middleware.ValidationMessage(e))
		}
		h.respondError(c, dto.ErrCodeValidation, strings.Join(parts, "; "))
		return
	}
	h.respondError(c, dto.ErrCodeInvalidInput, err.Error())
}

// Unauthorized writes a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.respondError(c, dto.ErrCodeUnauthorized, message)
}

// NotFound writes a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.respondError(c, dto.ErrCodeNotFound, message)
}

// HandleDomainError maps a domain error to its HTTP response. Errors
// that do not carry a domain code become opaque 500s.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.respondError(c, domainErr.Code, domainErr.Message)
		return
	}

	if h.logger != nil {
		h.logger.Error("unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
	}
	h.respondError(c, dto.ErrCodeInternal, "An internal error occurred")
}

func (h *BaseHandler) respondError(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// getTenantID resolves the tenant from the validated JWT claims
func (h *BaseHandler) getTenantID(c *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := middleware.GetJWTTenantID(c)
	if !ok {
		h.Unauthorized(c, "Missing tenant identity")
		return uuid.Nil, false
	}
	return tenantID, true
}

// getUserID resolves the acting user from the validated JWT claims.
// Returns nil when the request carries no user identity.
func (h *BaseHandler) getUserID(c *gin.Context) *uuid.UUID {
	userID, ok := middleware.GetJWTUserID(c)
	if !ok {
		return nil
	}
	return &userID
}

// bindID parses the :id path parameter
func (h *BaseHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// bindFilter parses common list parameters into a domain filter
func (h *BaseHandler) bindFilter(c *gin.Context) (shared.Filter, bool) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return shared.Filter{}, false
	}
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
	return filter, true
}
