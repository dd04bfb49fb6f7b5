package routes

import (
	"github.com/gin-gonic/gin"

	"opticapa_api/internal/controllers"
)

// ProbeRoutes registers liveness and readiness probes, both at the root and
// under /api so either ingress path works.
func ProbeRoutes(r *gin.Engine) {
	for _, prefix := range []string{"", "/api"} {
		r.GET(prefix+"/health", controllers.HealthCheck)
		r.GET(prefix+"/ready", controllers.ReadyCheck)
	}
}
