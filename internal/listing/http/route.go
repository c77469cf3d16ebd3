package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers listing routes. Reads are public, writes need a token.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/listings")
	{
		group.GET("", h.List)    // Approved catalog
		group.GET("/:id", h.Get) // Approved listing details
	}

	// === Authenticated Routes ===
	owner := group.Group("")
	owner.Use(authMiddleware)
	{
		owner.GET("/mine", h.ListMine)
		owner.POST("", h.Create)
		owner.PATCH("/:id", h.Update)
	}
}
