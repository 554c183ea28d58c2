package middleware

import (
	"devoverflow_backend/internal/config"
	"devoverflow_backend/internal/repository"
	"devoverflow_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

func extractToken(c *gin.Context) string {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if tokenString == "" {
		tokenString = c.Query("token")
	}

	return tokenString
}

// resolve 校验令牌并把外部身份换成内部用户，用户尚未同步时 UserID 保持为 0
func resolve(c *gin.Context, cfg *config.Config, users *repository.UserRepository) *util.Claims {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil
	}

	claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
	if err != nil {
		return nil
	}

	if claims.ClerkID == "" {
		claims.ClerkID = claims.Subject
	}

	if claims.UserID == 0 && claims.ClerkID != "" {
		if user, err := users.FindByClerkID(claims.ClerkID); err == nil {
			claims.UserID = user.ID
		}
	}

	return claims
}

func AuthMiddleware(cfg *config.Config, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := resolve(c, cfg, users)
		if claims == nil || claims.UserID == 0 {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware 可选认证：有合法令牌则注入用户，否则按游客放行
func TryAuthMiddleware(cfg *config.Config, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := resolve(c, cfg, users); claims != nil && claims.UserID > 0 {
			c.Set("user", claims)
		}
		c.Next()
	}
}
