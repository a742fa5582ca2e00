package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/logger"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthController struct {
	checks map[string]Pinger
}

func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks}
}

func (hc *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{}
	healthy := true
	for name, ping := range hc.checks {
		if err := ping(ctx); err != nil {
			logger.Warn(c, "health check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		response.JSON(c, http.StatusServiceUnavailable, status, "Service degraded")
		return
	}
	response.OK(c, status, "Health check passed")
}
