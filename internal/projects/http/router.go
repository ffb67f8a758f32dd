package http

import "github.com/gin-gonic/gin"

// Register attaches project, organization, snapshot and cache routes to the
// given API group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	projects.POST("", h.create)
	projects.GET("", h.list)
	projects.GET("/:id", h.get)
	projects.PATCH("/:id", h.update)
	projects.DELETE("/:id", h.delete)

	rg.GET("/organizations", h.organizations)

	rg.GET("/snapshot", h.exportSnapshot)
	rg.POST("/snapshot", h.importSnapshot)

	rg.DELETE("/cache", h.clearCache)
	rg.DELETE("/cache/all", h.clearAll)
}
