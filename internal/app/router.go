package app

import (
	"praktikmaal_backend/docs"
	"praktikmaal_backend/internal/config"
	"praktikmaal_backend/internal/middleware"
	"praktikmaal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		if c.auth != nil {
			public.POST("/register", c.auth.Register)
			public.POST("/login", c.auth.Login)
			public.POST("/password/forgot", c.auth.ForgotPassword)
			public.POST("/password/reset", c.auth.ResetPassword)
		}
	}

	authGroup := router.Group("/api")
	if cfg.Persistence.Driver == "file" {
		authGroup.Use(middleware.LocalUserMiddleware())
	} else {
		authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	}
	{
		if c.auth != nil {
			authGroup.POST("/logout", c.auth.Logout)
			authGroup.GET("/profile", c.auth.Profile)
			authGroup.GET("/session", c.auth.SessionState)
			authGroup.POST("/password/change", c.auth.ChangePassword)
		}

		goals := authGroup.Group("/goals")
		{
			goals.GET("", c.goal.List)
			goals.POST("", c.goal.Create)
			goals.DELETE("", c.goal.ClearAll)
			goals.PATCH("/:id/status", c.goal.ChangeStatus)
			goals.PATCH("/:id/reflection", c.goal.EditReflection)
			goals.PUT("/:id", c.goal.Edit)
			goals.DELETE("/:id", c.goal.Delete)
			goals.POST("/:id/activate", c.goal.Activate)
			goals.GET("/:id/attachment", c.goal.DownloadAttachment)
			goals.DELETE("/:id/attachment", c.goal.RemoveAttachment)
		}

		authGroup.GET("/view", c.goal.View)
		authGroup.POST("/view/tabkey", c.goal.TabKey)

		if c.supervisor != nil {
			authGroup.POST("/supervisor/grant", c.supervisor.Grant)
			authGroup.DELETE("/supervisor/grant", c.supervisor.Revoke)

			supervised := authGroup.Group("/supervisor")
			supervised.Use(middleware.SupervisorMiddleware(func(ctx *gin.Context, userID uint) (bool, error) {
				return a.services.supervisor.Check(ctx.Request.Context(), userID)
			}))
			{
				supervised.GET("/overview", c.supervisor.Overview)
				supervised.GET("/goals/:id/attachment", c.supervisor.DownloadAttachment)
			}
		}
	}
}
