package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/GoSim-25-26J-441/project-sync/internal/api/http"
	"github.com/GoSim-25-26J-441/project-sync/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/project-sync/internal/api/http/routes"
	projhttp "github.com/GoSim-25-26J-441/project-sync/internal/projects/http"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Log         *zap.Logger
	Projects    *service.ProjectService
	Remote      httpapi.Pinger
	Cache       httpapi.Pinger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Log))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Remote, dep.Cache)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		Projects: projhttp.New(dep.Projects, dep.Log),
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
