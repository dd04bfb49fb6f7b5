package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"opticapa_api/internal/config"
	"opticapa_api/internal/controllers"
)

// SetupRouter assembles the gin engine with all feature routes.
func SetupRouter(ctrl *controllers.AxeEfController, settings *config.Settings) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlogger.SetLogger())

	AxeEfRoutes(r, ctrl, settings)
	ProbeRoutes(r)

	return r
}
