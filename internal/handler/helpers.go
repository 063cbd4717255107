package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/vcenk/SmartRealtorAgent/internal/middleware"
	"github.com/vcenk/SmartRealtorAgent/internal/pkg/errcode"
	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
	"github.com/vcenk/SmartRealtorAgent/internal/pkg/response"
)

func getTenantID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextTenantIDKey)
	tenantID, _ := value.(string)
	return tenantID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Warn("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("tenant_id", getTenantID(c)),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, apperr.ErrForbidden), errors.Is(err, apperr.ErrPermissionDenied):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, apperr.ErrInvalid), errors.Is(err, apperr.ErrInvalidInput):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, apperr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	case errors.Is(err, apperr.ErrFetchFailed), errors.Is(err, apperr.ErrRobotsDisallowed), errors.Is(err, apperr.ErrNotHTML):
		response.Error(c, errcode.ErrCrawlFailed, err.Error())
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
