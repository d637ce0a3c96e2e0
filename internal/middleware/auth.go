package middleware

import (
	"context"
	"strings"

	"praktikmaal_backend/internal/config"
	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LocalUserID is the fixed account used in file persistence mode, where the
// whole store belongs to a single person and there is no login.
const LocalUserID uint = 1

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		secret := cfg.JWT.Secret
		if current := config.Live(); current != nil {
			secret = current.JWT.Secret
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// LocalUserMiddleware stands in for AuthMiddleware in file persistence
// mode: every request acts as the local user.
func LocalUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", &util.Claims{
			UserID: LocalUserID,
			Role:   model.Apprentice,
			Email:  "lokal@praktik",
		})
		c.Next()
	}
}

// SupervisorMiddleware rejects requests from users without an active
// supervisor session. Expiry mid-session surfaces here as a 403, which the
// client treats as a forced sign-out.
func SupervisorMiddleware(check func(c *gin.Context, userID uint) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		ok, err := check(c, claims.UserID)
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}
		if !ok {
			util.Error(c, 403, util.ErrSupervisorSessionExpired.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(ctx context.Context, userID uint) error
}

// ActivityMiddleware records last-seen timestamps asynchronously.
func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			go repo.UpdateLastSeen(context.Background(), claims.UserID)
		}
		c.Next()
	}
}
