package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mavi-suporte/helpdesk-service/api"
	"github.com/mavi-suporte/helpdesk-service/internal/handler"
	"github.com/mavi-suporte/helpdesk-service/internal/metrics"
	"github.com/mavi-suporte/helpdesk-service/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func New(ticketHandler *handler.TicketHandler, authHandler *handler.AuthHandler, adminHandler *handler.AdminHandler, authMW *middleware.AuthMiddleware, m *metrics.Metrics) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics(m))

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/tickets", ticketHandler.Create)
		v1.GET("/tickets/:code", ticketHandler.Get)
		v1.GET("/tickets/:code/position", ticketHandler.QueuePosition)

		admin := v1.Group("", authMW.RequireAdmin)
		{
			admin.GET("/tickets", ticketHandler.List)
			admin.PUT("/tickets/:code/status", ticketHandler.UpdateStatus)
			admin.GET("/statistics", ticketHandler.Statistics)
			admin.GET("/reports/tickets.csv", ticketHandler.ExportCSV)
			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.RegisterProduct)
			admin.POST("/products/:name/consume", adminHandler.ConsumeProduct)
			admin.GET("/logs", adminHandler.ListLogs)
		}
	}

	return r
}
