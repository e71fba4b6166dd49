package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/carelinkhq/carechat-core/internal/models"
	"github.com/carelinkhq/carechat-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const contextKeyAppScope = "app_scope"

// AppScope is the (tenant, app) ownership key resolved from the request
// token. Every record a request touches is partitioned by it.
type AppScope struct {
	TenantID string
	AppID    string
}

// AppAuth returns a middleware that resolves the opaque service-API token
// into an AppScope, rejecting the request if the token is missing, unknown,
// or expired.
func AppAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, err := ResolveToken(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(contextKeyAppScope, scope)
		c.Next()
	}
}

// ResolveToken validates an app token and returns its scope.
func ResolveToken(db *gorm.DB, rawToken string) (AppScope, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return AppScope{}, errors.New("token is required")
	}

	var row models.AppTokenModel
	err := db.Where("token = ?", token).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AppScope{}, errors.New("app token not found")
		}
		return AppScope{}, err
	}
	if row.ExpiredAt != nil && row.ExpiredAt.Before(time.Now()) {
		return AppScope{}, errors.New("app token expired")
	}
	return AppScope{TenantID: row.TenantID, AppID: row.AppID}, nil
}

// ScopeFrom extracts the authenticated app scope from context.
func ScopeFrom(c *gin.Context) AppScope {
	v, _ := c.Get(contextKeyAppScope)
	scope, _ := v.(AppScope)
	return scope
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
