package route

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snowie2000/streamgate/handler"
)

func Register(r *gin.Engine, h *handler.StreamHandler) {
	api := r.Group("/api", handler.CORS())
	api.OPTIONS("/stream-proxy", handler.CORSHandler)
	api.OPTIONS("/stream-check", handler.CORSHandler)
	api.OPTIONS("/stream-resolve", handler.CORSHandler)
	api.GET("/stream-proxy", h.ProxyHandler)
	api.GET("/stream-check", h.CheckHandler)
	api.GET("/stream-resolve", h.ResolveHandler)

	r.GET("/healthz", handler.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
