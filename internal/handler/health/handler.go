package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadyFunc reports whether the service can serve traffic.
type ReadyFunc func(ctx context.Context) error

// Handler manages health check endpoints
type Handler struct {
	readyFn ReadyFunc
}

// NewHandler creates a new health check handler. A nil readyFn always
// reports ready.
func NewHandler(readyFn ReadyFunc) *Handler {
	return &Handler{readyFn: readyFn}
}

// Health is the liveness probe endpoint
// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready is the readiness probe endpoint. With the geo store as readyFn the
// first probe opens the database.
// GET /ready
func (h *Handler) Ready(c *gin.Context) {
	if h.readyFn != nil {
		if err := h.readyFn(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
