package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"groupchat/internal/apperrors"
	"groupchat/internal/models"
	"groupchat/internal/utils"
)

// Context keys set for authenticated requests.
const (
	CtxUserID   = "user_id"
	CtxUserName = "user_name"
)

// Authenticator resolves a bearer token to a user that still exists.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// public endpoints that never need a token
func isPublicPath(path string) bool {
	switch path {
	case "/user/sign-up", "/user/sign-in", "/ws":
		return true
	}
	return strings.HasPrefix(path, "/swagger") || strings.HasPrefix(path, "/healthz")
}

func AuthMiddleware(auth Authenticator, log *slog.Logger) gin.HandlerFunc {
	log = log.With(slog.String("component", "auth_middleware"))
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), utils.TokenFromRequest(c.Request))
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, apperrors.ErrInternal) {
				status = http.StatusInternalServerError
				log.Error("authenticate request", slog.String("path", c.FullPath()), slog.Any("error", err))
			}
			c.AbortWithStatusJSON(status, gin.H{"success": false, "message": apperrors.PublicMessage(err)})
			return
		}

		c.Set(CtxUserID, identity.UserID)
		c.Set(CtxUserName, identity.Name)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthMiddleware.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	userID := c.GetString(CtxUserID)
	if userID == "" {
		return models.Identity{}, false
	}
	return models.Identity{UserID: userID, Name: c.GetString(CtxUserName)}, true
}
