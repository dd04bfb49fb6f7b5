package routes

import (
	"github.com/gin-gonic/gin"

	"opticapa_api/internal/config"
	"opticapa_api/internal/controllers"
	"opticapa_api/internal/middleware"
)

func AxeEfRoutes(r *gin.Engine, ctrl *controllers.AxeEfController, settings *config.Settings) {
	axeEf := r.Group("/api/axe_ef")
	axeEf.Use(middleware.RequireAuth(settings.JWTSecret))
	{
		axeEf.GET("/all/", ctrl.GetAll)
		axeEf.GET("/:id", ctrl.Get)
		axeEf.POST("", ctrl.Create)
		axeEf.PUT("/:id", ctrl.Update)
		axeEf.DELETE("/:id", ctrl.Delete)
		axeEf.POST("/renew/:id", ctrl.Renew)
	}
}
