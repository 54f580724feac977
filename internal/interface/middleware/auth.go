package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/pkg/apperr"
	"github.com/oksasatya/tasky/pkg/helpers"
	"github.com/oksasatya/tasky/pkg/response"
)

// CtxUserKey holds the resolved *entity.User after Authenticate runs.
const CtxUserKey = "authUser"

// Authenticate extracts the bearer token, verifies it, loads the user it
// names and attaches the identity to the request context. Every failure is a
// uniform 401; the verification failure kind is only logged.
func Authenticate(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			if logger != nil {
				logger.WithError(err).Debug("token rejected")
			}
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		// The user may have been deleted after the token was issued.
		u, err := repo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperr.KindOf(err) == apperr.NotFound {
				response.Error[any](c, http.StatusUnauthorized, "user no longer exists", nil)
				return
			}
			if logger != nil {
				logger.WithError(err).WithField("user_id", claims.UserID).Error("user lookup failed")
			}
			response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
			return
		}

		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// RequireRole composes after Authenticate and rejects requests whose identity
// is not in the allowed set.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	allowed := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		u := UserFrom(c)
		if u == nil {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		if _, ok := allowed[u.Role]; !ok {
			response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
			return
		}
		c.Next()
	}
}

// UserFrom returns the authenticated user attached by Authenticate, or nil.
func UserFrom(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
