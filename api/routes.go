package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CallerHeader carries the identity of whoever is making the call.
const CallerHeader = "X-Flipper-Caller"

func registerRoutes(r gin.IRouter, h *handlers, gatherer prometheus.Gatherer) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	contracts := r.Group("/contracts", resolveCaller)
	contracts.POST("", requireCaller, h.deploy)
	contracts.GET("/:id", rejectInvalidCaller, h.describe)
	contracts.GET("/:id/value", rejectInvalidCaller, h.getVal)
	contracts.POST("/:id/flip", requireCaller, h.flip)
}
