package handlers

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"rentalweb/internal/http/middleware"
	"rentalweb/internal/metrics"

	"github.com/gin-gonic/gin"
)

var (
	routerMu  sync.RWMutex
	routerRef *gin.Engine
	startedAt = time.Now()
)

// SetRouter stores router instance for route introspection.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	routerRef = r
}

// Health returns basic health info.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"time":      time.Now().UTC().Format(time.RFC3339),
		"uptime_s":  int(time.Since(startedAt).Seconds()),
		"api_ready": current().API != nil,
	})
}

// Routes lists registered routes.
func Routes(c *gin.Context) {
	routerMu.RLock()
	r := routerRef
	routerMu.RUnlock()

	if r == nil {
		c.JSON(http.StatusOK, gin.H{"routes": []any{}})
		return
	}

	routes := r.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{"method": rt.Method, "path": rt.Path})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}

// Metrics exposes the Prometheus registry.
func Metrics() gin.HandlerFunc {
	return gin.WrapH(metrics.Handler())
}

// NotFound renders the error page for pages and a JSON body under /api.
func NotFound(c *gin.Context) {
	if middleware.IsAPIRequest(c) {
		respondError(c, http.StatusNotFound, "not_found", "not found", nil)
		return
	}
	render(c, http.StatusNotFound, "error", "Not found", gin.H{"Message": "The page you were looking for does not exist."})
}
