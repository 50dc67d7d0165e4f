package info

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/TomasB/clientinfo/internal/clientinfo"
	"github.com/gin-gonic/gin"
)

// ContextKey is the gin context key under which Middleware stores the
// resolved clientinfo.Info.
const ContextKey = "client_info"

// Resolver produces client info for a request.
type Resolver interface {
	GetClientInfo(ctx context.Context, req *http.Request, opts clientinfo.Options) (clientinfo.Info, error)
}

// ErrorResponse is returned when client info cannot be produced.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler manages client info endpoints.
type Handler struct {
	resolver Resolver
}

// NewHandler creates a new client info handler.
func NewHandler(resolver Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// ClientInfo handles GET and POST /api/v1/client-info. The screen size comes
// from the "screen" query parameter or the JSON body.
func (h *Handler) ClientInfo(c *gin.Context) {
	var opts clientinfo.Options
	if err := c.ShouldBind(&opts); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request: " + err.Error(),
		})
		return
	}

	info, err := h.resolver.GetClientInfo(c.Request.Context(), c.Request, opts)
	if err != nil {
		slog.Error("client info lookup failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "lookup failed",
		})
		return
	}

	slog.Debug("client info resolved", "ip", info.IP, "country", info.Country, "device", info.Device)
	c.JSON(http.StatusOK, info)
}

// Middleware resolves client info for every request and stores it under
// ContextKey. When resolution fails the request continues without it.
// The screen size is read from the "screen" query parameter.
func Middleware(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := clientinfo.Options{Screen: c.Query("screen")}
		info, err := resolver.GetClientInfo(c.Request.Context(), c.Request, opts)
		if err != nil {
			slog.Warn("continuing without client info", "path", c.Request.URL.Path, "error", err)
			c.Next()
			return
		}
		c.Set(ContextKey, info)
		c.Next()
	}
}

// FromContext returns the client info stored by Middleware.
func FromContext(c *gin.Context) (clientinfo.Info, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return clientinfo.Info{}, false
	}
	info, ok := v.(clientinfo.Info)
	return info, ok
}
