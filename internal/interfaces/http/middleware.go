package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/application/service"
	"github.com/garyjia/travel-expense/internal/domain"
	"github.com/garyjia/travel-expense/internal/domain/entity"
)

const currentUserKey = "current_user"

// AuthMiddleware resolves the bearer token to a user and stores it on the context
func AuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			fail(c, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			fail(c, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRoles rejects users whose role is not listed. Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			fail(c, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		fail(c, http.StatusForbidden, "forbidden")
	}
}

func currentUser(c *gin.Context) (*entity.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}

// mustUser is used by handlers mounted behind AuthMiddleware
func mustUser(c *gin.Context) *entity.User {
	user, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return nil
	}
	return user
}
