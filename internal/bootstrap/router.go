package bootstrap

import (
	"database/sql"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/promptpage-dev/promptpage-backend/internal/api/http"
	"github.com/promptpage-dev/promptpage-backend/internal/api/http/middleware"
	"github.com/promptpage-dev/promptpage-backend/internal/auth"
	"github.com/promptpage-dev/promptpage-backend/internal/generate"
	projectshttp "github.com/promptpage-dev/promptpage-backend/internal/projects/http"
	"github.com/promptpage-dev/promptpage-backend/internal/projects/repository"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Environment string
	DB          *sql.DB
	Redis       *redis.Client
	AuthClient  *fbauth.Client
	Generator   *generate.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())

	if dep.AuthClient != nil {
		api.Use(auth.FirebaseAuthMiddleware(dep.AuthClient))
	} else {
		// No firebase credentials configured; trust headers in dev only.
		api.Use(auth.HeaderAuthMiddleware())
	}

	projectRepo := repository.NewProjectRepository(dep.DB)
	sectionRepo := repository.NewSectionRepository(dep.DB)

	projectsHandler := projectshttp.New(projectRepo, sectionRepo)
	projectsHandler.Register(api.Group("/projects"))
	projectsHandler.RegisterTemplates(api)

	var history *generate.HistoryRepository
	if dep.Redis != nil {
		history = generate.NewHistoryRepository(dep.Redis)
	}
	generateHandler := generate.NewHandler(dep.Generator, history)
	generateHandler.Register(api)

	return r
}
