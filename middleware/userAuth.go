package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"evcharge/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:"

// JWTAuthUserMiddleware authenticates requests with a Bearer token. A valid
// signature plus a live session-cache entry admits the request; on a cache
// outage the signature alone decides, so Redis downtime degrades to
// non-revocable tokens instead of a hard outage.
func JWTAuthUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		cacheKey := sessionKeyPrefix + utils.HashToken(tokenString)
		cachedID, err := utils.GetAuthCacheClient().Get(ctx, cacheKey).Result()
		switch {
		case err == redis.Nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again"})
			return
		case err != nil:
			utils.GetLogger().Warn("auth cache unavailable, admitting on signature alone")
		case cachedID != userID:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session mismatch"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
