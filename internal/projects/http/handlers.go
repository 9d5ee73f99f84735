package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/promptpage-dev/promptpage-backend/internal/auth"
	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
)

func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)
	items, err := h.projects.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) create(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.projects.Create(c.Request.Context(), userID, strings.TrimSpace(req.Name))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	var patch domain.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.projects.Update(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	userID := auth.UserID(c)
	if err := h.projects.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) duplicate(c *gin.Context) {
	userID := auth.UserID(c)
	p, err := h.projects.Duplicate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) createSection(c *gin.Context) {
	var in domain.NewSectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if in.Type == "" {
		in.Type = domain.TypeCustom
	}
	// Pre-fill from the type's template when the caller gave no content.
	if tpl, ok := domain.SectionTemplates[in.Type]; ok {
		if strings.TrimSpace(in.Name) == "" {
			in.Name = tpl.Name
		}
	}

	userID := auth.UserID(c)
	s, err := h.sections.Create(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "section": s})
}

func (h *Handler) updateSection(c *gin.Context) {
	var patch domain.SectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	s, err := h.sections.Update(c.Request.Context(), userID, c.Param("section_id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "section": s})
}

func (h *Handler) deleteSection(c *gin.Context) {
	userID := auth.UserID(c)
	if err := h.sections.Delete(c.Request.Context(), userID, c.Param("section_id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) duplicateSection(c *gin.Context) {
	userID := auth.UserID(c)
	s, err := h.sections.Duplicate(c.Request.Context(), userID, c.Param("section_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "section": s})
}

func (h *Handler) reorderSections(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.SectionIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	if err := h.sections.Reorder(c.Request.Context(), userID, c.Param("id"), req.SectionIDs); err != nil {
		fail(c, err)
		return
	}

	p, err := h.projects.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) sectionTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "templates": domain.SectionTemplates})
}
