package httpapi

import (
	"net/http"
	"time"

	"carmate-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls how token cookies are written. Tokens are delivered
// in the JSON body and mirrored into HttpOnly cookies so browser clients
// never have to touch them from script.
type CookieConfig struct {
	Secure     bool
	SameSite   http.SameSite
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewCookieConfig derives cookie policy from the deployment environment:
// secure + strict in production, lax otherwise.
func NewCookieConfig(production bool, accessTTL, refreshTTL time.Duration) CookieConfig {
	sameSite := http.SameSiteLaxMode
	if production {
		sameSite = http.SameSiteStrictMode
	}
	return CookieConfig{
		Secure:     production,
		SameSite:   sameSite,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

func (cfg CookieConfig) setTokenCookies(c *gin.Context, pair auth.TokenPair) {
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(auth.AccessTokenCookie, pair.AccessToken, int(cfg.AccessTTL.Seconds()), "/", "", cfg.Secure, true)
	c.SetCookie(auth.RefreshTokenCookie, pair.RefreshToken, int(cfg.RefreshTTL.Seconds()), "/", "", cfg.Secure, true)
}

func (cfg CookieConfig) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(auth.AccessTokenCookie, "", -1, "/", "", cfg.Secure, true)
	c.SetCookie(auth.RefreshTokenCookie, "", -1, "/", "", cfg.Secure, true)
}
