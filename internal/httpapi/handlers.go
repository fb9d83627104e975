package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"carmate-platform/internal/auth"
	"carmate-platform/internal/company"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups HTTP handlers for dependency injection. Constructed once
// at process start; no module-level service instances anywhere.
// Keep these thin: parse input, call internal services, translate errors.
type Handlers struct {
	Auth      *auth.Service
	Companies *company.Service
	Cookies   CookieConfig

	// DB and Redis back the health check only.
	DB    *sql.DB
	Redis *redis.Client
}

// Health reports process liveness plus dependency reachability.
func (h Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			checks["database"] = "down"
			healthy = false
		} else {
			checks["database"] = "up"
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			healthy = false
		} else {
			checks["redis"] = "up"
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// NotImplemented backs the route groups that exist in the API surface but
// are not built yet (cars, customers, contracts).
func NotImplemented(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, errorEnvelope{
		Success: false,
		Error:   errorBody{Code: "NOT_IMPLEMENTED", Message: "this endpoint is not implemented yet"},
	})
}
