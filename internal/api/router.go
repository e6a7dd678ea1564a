package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relecloud/ticketing/internal/api/handlers"
	"github.com/relecloud/ticketing/pkg/health"
	"github.com/relecloud/ticketing/pkg/metrics"
)

type Router struct {
	ticket         *handlers.TicketHandler
	healthRegistry *health.Registry
}

func NewRouter(ticket *handlers.TicketHandler, healthRegistry *health.Registry) *Router {
	return &Router{
		ticket:         ticket,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	// Prometheus metrics
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine.GET("/tickets", r.ticket.List)
	engine.POST("/tickets", r.ticket.Create)
	engine.GET("/tickets/:ticket_id", r.ticket.Get)
	engine.POST("/tickets/:ticket_id/render", r.ticket.Render)
}
