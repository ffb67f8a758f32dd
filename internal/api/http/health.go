package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything whose liveness can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Remote    string    `json:"remote"`
	Cache     string    `json:"cache"`
}

type HealthHandler struct {
	serviceName string
	version     string
	remote      Pinger
	cache       Pinger
	timeout     time.Duration
}

func NewHealthHandler(serviceName, version string, remote, cache Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		remote:      remote,
		cache:       cache,
		timeout:     time.Second,
	}
}

// HealthCheck reports "degraded" while the remote store is down, since
// reads and writes keep working against the cache. A dead cache is unhealthy.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	remote := h.probe(c.Request.Context(), h.remote)
	cache := h.probe(c.Request.Context(), h.cache)

	status, code := "healthy", http.StatusOK
	switch {
	case cache == "down":
		status, code = "unhealthy", http.StatusServiceUnavailable
	case remote == "down":
		status = "degraded"
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Remote:    remote,
		Cache:     cache,
	})
}

func (h *HealthHandler) probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
