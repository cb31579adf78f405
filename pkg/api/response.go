package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"github.com/example/storefront/pkg/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
}

// Pagination is the meta block for paged list responses.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Pages int64 `json:"pages"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}

func respondPaged(c *gin.Context, message string, data interface{}, meta Pagination) {
	if meta.Limit > 0 {
		meta.Pages = (meta.Total + meta.Limit - 1) / meta.Limit
	}
	c.JSON(http.StatusOK, Response{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
		Meta:      meta,
	})
}

func respondError(c *gin.Context, status int, message string, details ...string) {
	resp := Response{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if len(details) > 0 {
		resp.Meta = gin.H{"errors": details}
	}
	c.AbortWithStatusJSON(status, resp)
}

// fail maps a domain error onto the HTTP taxonomy. Anything unmapped is an
// internal error, logged with request context.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, models.ErrItemNotFound):
		respondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrEmptyOrder),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidCurrency),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, auth.ErrPasswordTooShort):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDisabled):
		respondError(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSKUTaken),
		errors.Is(err, service.ErrCategoryNameTaken),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, repository.ErrVersionConflict):
		respondError(c, http.StatusConflict, err.Error())

	default:
		s.logger.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, "something went wrong on the server")
	}
}
