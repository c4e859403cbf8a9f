package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes регистрирует все маршруты шлюза
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.getRoot)
	r.POST("/login", h.login)

	incidents := r.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.POST("", h.createIncident)
		incidents.GET("/stream", h.streamIncidents)
		incidents.GET("/:id", h.getIncident)
	}

	r.GET("/system/health", h.healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
