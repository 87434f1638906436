package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qinghao1/gojek/internal/adapter/websocket"
	"github.com/qinghao1/gojek/internal/core/validate"
	"go.uber.org/zap"
)

type Routes struct {
	Drivers *DriverHandler
	// Hub is optional; without it the streaming endpoint is not mounted.
	Hub    *websocket.Hub
	Health func() gin.H
}

func NewRouter(routes Routes, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "UP"}
		if routes.Health != nil {
			for k, v := range routes.Health() {
				status[k] = v
			}
		}
		c.JSON(http.StatusOK, status)
	})

	drivers := r.Group("/drivers")
	{
		drivers.GET("", routes.Drivers.ListNearby)
		drivers.GET("/:id", routes.Drivers.GetDriver)
		drivers.PUT("/:id/location", routes.Drivers.UpdateLocation)
		if routes.Hub != nil {
			drivers.GET("/:id/ws", streamLocations(routes.Hub))
		}
	}

	return r
}

func streamLocations(hub *websocket.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := parseDriverID(c.Param("id"))
		if !validate.DriverID(id) {
			c.JSON(http.StatusNotFound, gin.H{})
			return
		}
		hub.ServeDriver(c.Writer, c.Request, id)
	}
}
