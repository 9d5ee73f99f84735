package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promptpage-dev/promptpage-backend/internal/auth"
	"github.com/promptpage-dev/promptpage-backend/internal/projects/compiler"
)

// compiledPrompt returns the Markdown compile of a project as JSON, for the
// preview pane and as input to the generate endpoint.
func (h *Handler) compiledPrompt(c *gin.Context) {
	userID := auth.UserID(c)
	p, err := h.projects.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prompt": compiler.Markdown(*p)})
}

// export serves the project as a downloadable file. format=markdown (the
// default) filters empty sections; format=json is the faithful snapshot.
func (h *Handler) export(c *gin.Context) {
	userID := auth.UserID(c)
	p, err := h.projects.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}

	format := c.DefaultQuery("format", "markdown")
	switch format {
	case "markdown", "md":
		filename := compiler.Filename(p.Name, "md")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(compiler.Markdown(*p)))
	case "json":
		out, err := compiler.ExportJSON(*p, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		filename := compiler.Filename(p.Name, "json")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(out))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown format: " + format})
	}
}
