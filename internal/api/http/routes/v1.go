package routes

import (
	"github.com/gin-gonic/gin"

	projhttp "github.com/GoSim-25-26J-441/project-sync/internal/projects/http"
)

type V1Deps struct {
	Projects *projhttp.Handler
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	dep.Projects.Register(api)
}
