package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	requestIDKey = "request_id"
	claimsKey    = "claims"
)

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// requestIDMiddleware tags every request with a unique id, echoed in the
// X-Request-ID header and attached to log lines.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// rateLimitMiddleware enforces a fixed window per client IP backed by redis.
// A redis outage fails open: throttling is protection, not correctness.
func rateLimitMiddleware(cache *repository.Cache, cfg *config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		count, err := cache.CountRequest(c.Request.Context(), key, cfg.Window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count > int64(cfg.Requests) {
			respondError(c, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		c.Next()
	}
}

// extractToken pulls the access token from the Authorization header or the
// jwt cookie.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie
	}
	return ""
}

// authMiddleware requires a valid access token and stores its claims on the
// context.
func authMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "not authorized, no token provided")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// requireRole allows the request through only when the actor holds one of
// the listed roles.
func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := actorClaims(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, http.StatusForbidden,
			fmt.Sprintf("role (%s) is not authorized to access this resource", claims.Role))
	}
}

func actorClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}

// actorID resolves the authenticated actor's user id.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	claims := actorClaims(c)
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
