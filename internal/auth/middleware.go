package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"carmate-platform/internal/apperr"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	// AccessTokenCookie mirrors the access token for browser clients that
	// cannot set the Authorization header.
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// extractToken pulls the bearer token from the Authorization header, falling
// back to the access token cookie. Returns "" when neither is present.
func extractToken(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if strings.HasPrefix(raw, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix))
	}
	if tok, err := c.Cookie(AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}

// Authenticate verifies an access token and injects the identity into the
// request context. It performs no role or tenant checks; those are separate
// stages so each route composes exactly the chain it needs.
func Authenticate(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := extractToken(c)
		if tok == "" {
			abort(c, apperr.Unauthorized("authentication token required"))
			return
		}

		id, err := m.VerifyAccess(tok, time.Now())
		if err != nil {
			abort(c, apperr.Unauthorized("invalid or expired token"))
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// OptionalAuthenticate attaches an identity when a valid token is present
// and lets the request through untouched otherwise. For endpoints serving
// both anonymous and authenticated callers.
func OptionalAuthenticate(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := extractToken(c); tok != "" {
			if id, err := m.VerifyAccess(tok, time.Now()); err == nil {
				c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
			}
		}
		c.Next()
	}
}

// RequireAdmin blocks non-admin identities. Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c.Request.Context())
		if !ok {
			abort(c, apperr.Unauthorized("authentication required"))
			return
		}
		if !id.IsAdmin {
			abort(c, apperr.Forbidden("admin privileges required"))
			return
		}
		c.Next()
	}
}

// RequireCompanyUser blocks identities that belong to no company.
// Platform admins bypass.
func RequireCompanyUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c.Request.Context())
		if !ok {
			abort(c, apperr.Unauthorized("authentication required"))
			return
		}
		if id.IsAdmin {
			c.Next()
			return
		}
		if id.CompanyID == "" {
			abort(c, apperr.Forbidden("company membership required"))
			return
		}
		c.Next()
	}
}

// CheckTenantAccess enforces tenant isolation: a non-admin identity may only
// address its own company. The target company id is taken from the path
// param, then the JSON body, then the query string; the first non-empty one
// wins. No target means the route is not company-addressed and scoping is
// enforced at the query level instead.
func CheckTenantAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c.Request.Context())
		if !ok {
			abort(c, apperr.Unauthorized("authentication required"))
			return
		}
		if id.IsAdmin {
			c.Next()
			return
		}

		target := targetCompanyID(c)
		if target != "" && target != id.CompanyID {
			abort(c, apperr.TenantIsolation())
			return
		}
		c.Next()
	}
}

func targetCompanyID(c *gin.Context) string {
	if v := c.Param("companyId"); v != "" {
		return v
	}
	if v := bodyCompanyID(c); v != "" {
		return v
	}
	return c.Query("companyId")
}

// bodyCompanyID peeks at a JSON body for a companyId field and restores the
// body so downstream handlers can still bind it.
func bodyCompanyID(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	if ct := c.ContentType(); ct != "" && !strings.Contains(ct, "json") {
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		CompanyID string `json:"companyId"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.CompanyID
}

// abort short-circuits the chain with the standard error envelope.
func abort(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.Status, gin.H{
		"success": false,
		"error":   gin.H{"code": err.Code, "message": err.Message},
	})
}
