package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/errors"
	"github.com/stepup/stepup-backend/pkg/util"
)

// Context keys for caller information
const (
	UserIDKey         = "user_id"
	UserRoleKey       = "user_role"
	AccessTokenKey    = "access_token"
	TokenExpiresAtKey = "token_expires_at"
)

// TokenChecker reports whether a token was revoked by logout.
type TokenChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	blacklist TokenChecker
}

// NewAuthMiddleware builds the middleware. blacklist may be nil when Redis is
// not configured.
func NewAuthMiddleware(jwtSecret string, blacklist TokenChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		blacklist: blacklist,
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticate validates the bearer token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		if c.GetHeader("Authorization") == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session has expired, please log in again")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		role, err := model.ParseUserRole(claims.Role)
		if err != nil {
			log.Warn("Token carries unknown role", map[string]interface{}{
				"path": c.Request.URL.Path,
				"role": claims.Role,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			c.Abort()
			return
		}

		if m.revoked(c, token, claims.UserID) {
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Session has been logged out")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, role)
		c.Set(AccessTokenKey, token)
		if claims.ExpiresAt != nil {
			c.Set(TokenExpiresAtKey, claims.ExpiresAt.Time)
		}

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"email":   claims.Email,
			"role":    role,
		})

		c.Next()
	}
}

// OptionalAuthenticate sets caller info when a valid token is present and
// otherwise continues as a guest.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		role, err := model.ParseUserRole(claims.Role)
		if err != nil {
			c.Next()
			return
		}

		if m.revoked(c, token, claims.UserID) {
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, role)

		c.Next()
	}
}

// revoked consults the blacklist. A lookup failure counts as not revoked so
// a Redis outage does not lock everyone out.
func (m *AuthMiddleware) revoked(c *gin.Context, token string, userID uint) bool {
	if m.blacklist == nil {
		return false
	}

	log := GetLoggerFromContext(c)
	revoked, err := m.blacklist.IsRevoked(c.Request.Context(), token)
	if err != nil {
		log.Error("Token blacklist lookup failed", err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		return false
	}
	if revoked {
		log.Warn("Revoked token used", map[string]interface{}{
			"path":    c.Request.URL.Path,
			"user_id": userID,
		})
	}
	return revoked
}

// RequireRole lets the request through only for the listed roles.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists || !role.Valid() {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "Role information not found")
			c.Abort()
			return
		}

		userID, _ := GetUserID(c)

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, "You do not have permission to access this resource")
		c.Abort()
	}
}

// GetUserID extracts the caller ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserRole extracts the caller role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}

// GetAccessToken returns the raw bearer token and its expiry.
func GetAccessToken(c *gin.Context) (string, time.Time, bool) {
	token := c.GetString(AccessTokenKey)
	if token == "" {
		return "", time.Time{}, false
	}
	expiresAt, _ := c.Get(TokenExpiresAtKey)
	exp, _ := expiresAt.(time.Time)
	return token, exp, true
}
