package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/pageza/foodgram/backend/internal/apperrors"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
	Field  string `json:"field,omitempty"`
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Internal errors are recorded on the
// context for the request logger and never shown to the client.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperrors.KindInternal {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal server error"})
		return
	}

	detail := appErr.Message
	if detail == "" {
		detail = string(appErr.Code)
	}
	c.AbortWithStatusJSON(statusFor(appErr.Kind), ErrorResponse{
		Detail: detail,
		Code:   string(appErr.Code),
		Field:  appErr.Field,
	})
}

func badRequest(c *gin.Context, field string, err error) {
	respondError(c, apperrors.Validation(apperrors.CodeInvalidField, field, err.Error()))
}

// pathID parses a positive integer path parameter. Malformed ids are treated
// as missing resources.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperrors.NotFound("not found"))
		return 0, false
	}
	return id, true
}

// recipesLimit reads the optional recipes_limit query parameter; 0 means no
// limit.
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, apperrors.Validation(apperrors.CodeInvalidField, "recipes_limit", "must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

func currentUser(c *gin.Context) uint64 {
	return middleware.UserID(c)
}
