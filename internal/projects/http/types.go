package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptpage-dev/promptpage-backend/internal/projects/domain"
	"github.com/promptpage-dev/promptpage-backend/internal/projects/repository"
)

// Handler bundles the dependencies for project and section HTTP endpoints.
type Handler struct {
	projects *repository.ProjectRepository
	sections *repository.SectionRepository
}

func New(projects *repository.ProjectRepository, sections *repository.SectionRepository) *Handler {
	return &Handler{projects: projects, sections: sections}
}

// fail maps domain errors onto HTTP statuses with the uniform error body.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSectionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrInvalidType):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

type createProjectReq struct {
	Name string `json:"name"`
}

type reorderReq struct {
	SectionIDs []string `json:"section_ids"`
}
