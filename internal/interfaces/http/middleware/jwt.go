package middleware

import (
	"strings"

	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/auth"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys set by the JWT middleware
const (
	ContextKeyJWTClaims   = "jwt_claims"
	ContextKeyJWTUserID   = "jwt_user_id"
	ContextKeyJWTTenantID = "jwt_tenant_id"
	ContextKeyJWTUsername = "jwt_username"
)

// JWTMiddlewareConfig configures the JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService

	// SkipPaths are exact request paths that bypass authentication
	SkipPaths []string

	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string

	Logger *zap.Logger
}

// JWTAuth returns a middleware that validates Bearer tokens and stores
// the claims on the request context
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString, ok := extractBearerToken(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed Authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("token validation failed",
					zap.String("path", path),
					zap.Error(err))
			}
			abortAuthError(c, err)
			return
		}

		c.Set(ContextKeyJWTClaims, claims)
		c.Set(ContextKeyJWTUserID, claims.UserID)
		c.Set(ContextKeyJWTTenantID, claims.TenantID)
		c.Set(ContextKeyJWTUsername, claims.Username)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortAuthError(c *gin.Context, err error) {
	code := dto.ErrCodeUnauthorized
	message := "Invalid token"
	switch err {
	case auth.ErrExpiredToken:
		message = "Token has expired"
	case auth.ErrTokenNotYetValid:
		message = "Token is not yet valid"
	case auth.ErrMissingTenantID, auth.ErrMissingUserID:
		message = "Token is missing required claims"
	}
	abortUnauthorized(c, code, message)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID := GetRequestID(c)
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// GetJWTClaims returns the validated claims from the context
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextKeyJWTClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetJWTTenantID returns the authenticated tenant ID from the context
func GetJWTTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextKeyJWTTenantID)
	if !ok {
		return uuid.Nil, false
	}
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetJWTUserID returns the authenticated user ID from the context
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextKeyJWTUserID)
	if !ok {
		return uuid.Nil, false
	}
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
