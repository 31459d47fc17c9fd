package middleware

import (
	"net/http"
	"strings"

	"billettigue/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	accountIDKey = "account_id"
	carrierIDKey = "carrier_id"
	roleKey      = "user_role"
)

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func parseClaims(c *gin.Context, secret, raw string) bool {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	if v, ok := claims["account_id"].(float64); ok {
		c.Set(accountIDKey, int64(v))
	}
	if v, ok := claims["carrier_id"].(float64); ok {
		c.Set(carrierIDKey, int64(v))
	}
	if v, ok := claims["role"].(string); ok {
		c.Set(roleKey, v)
	}
	return true
}

// Auth rejects requests without a valid bearer token.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" || !parseClaims(c, secret, raw) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and lets
// guests pass through untouched.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			parseClaims(c, secret, raw)
		}
		c.Next()
	}
}

// RequireRoles allows only the named roles past; assumes Auth ran first.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(roleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing role"})
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role not allowed"})
			return
		}
		c.Next()
	}
}

// GetRequestContext extracts the authenticated caller info, zero-valued
// for guests.
func GetRequestContext(c *gin.Context) domain.RequestContext {
	rc := domain.RequestContext{Role: c.GetString(roleKey)}
	if v, ok := c.Get(accountIDKey); ok {
		if id, ok := v.(int64); ok {
			rc.AccountID = domain.ID(id)
		}
	}
	if v, ok := c.Get(carrierIDKey); ok {
		if id, ok := v.(int64); ok {
			rc.CarrierID = domain.ID(id)
		}
	}
	return rc
}
