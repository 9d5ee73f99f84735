package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/duplicate", h.duplicate)

	rg.GET("/:id/prompt", h.compiledPrompt)
	rg.GET("/:id/export", h.export)

	rg.POST("/:id/sections", h.createSection)
	rg.PUT("/:id/sections/reorder", h.reorderSections)
	rg.PATCH("/:id/sections/:section_id", h.updateSection)
	rg.DELETE("/:id/sections/:section_id", h.deleteSection)
	rg.POST("/:id/sections/:section_id/duplicate", h.duplicateSection)
}

// RegisterTemplates exposes the static section template list outside the
// project scope.
func (h *Handler) RegisterTemplates(rg *gin.RouterGroup) {
	rg.GET("/section-templates", h.sectionTemplates)
}
