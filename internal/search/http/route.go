package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public search routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/search")
	{
		group.GET("", h.Search)
		group.POST("/sessions", h.OpenSession)
		group.GET("/sessions/:id", h.GetSession)
		group.PUT("/sessions/:id", h.UpdateSession)
		group.DELETE("/sessions/:id", h.CloseSession)
	}
}
