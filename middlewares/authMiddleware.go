package middlewares

import (
	"net/http"
	"strings"

	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and puts the session identity
// (user id, company id, username) into the request context. Requests without
// a token pass through; handlers reject them when they need a session.
// When redis is available the token must also still be registered there,
// so logout actually revokes.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")

		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		ctx = utils.SetCompanyIdInContext(ctx, claims.CompanyId)

		// Best-effort revocation check; skipped entirely when redis is down.
		if config.GetRedisDB() != nil {
			username, exists, err := config.GetRedisValue("Token:" + token)
			if err == nil && !exists {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}
			if username != "" {
				ctx = utils.SetUsernameInContext(ctx, username)
			}
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
