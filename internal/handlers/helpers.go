package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"groupchat/internal/apperrors"
	"groupchat/internal/middleware"
	"groupchat/internal/models"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrInvalidContent),
		errors.Is(err, apperrors.ErrEmailTaken),
		errors.Is(err, apperrors.ErrGroupTooLarge),
		errors.Is(err, apperrors.ErrUnknownMember),
		errors.Is(err, apperrors.ErrAdminSelfRemoval):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAuthRequired),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrUnknownUser),
		errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotAMember),
		errors.Is(err, apperrors.ErrNotGroupAdmin):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrRecipientNotFound),
		errors.Is(err, apperrors.ErrGroupNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrMemberNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure body every endpoint shares. Only internal
// errors are logged; the rest are the caller's mistake.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", slog.String("path", c.FullPath()), slog.Any("error", err))
	}
	c.JSON(status, gin.H{"success": false, "message": apperrors.PublicMessage(err)})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body: " + err.Error()})
}

func identity(c *gin.Context) models.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}

// page reads limit/offset from the query string, clamped to sane bounds.
func page(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
