package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"seedforge_backend/docs"
	"seedforge_backend/internal/config"
	"seedforge_backend/internal/middleware"
	"seedforge_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)

		authGroup.GET("/profile", c.profile.GetProfile)
		authGroup.PUT("/profile", c.profile.UpdateProfile)
		authGroup.POST("/profile/avatar", c.profile.UploadAvatar)

		authGroup.POST("/projects", c.project.CreateProject)
		authGroup.GET("/projects", c.project.ListProjects)
		authGroup.GET("/projects/:id", c.project.GetProject)
		authGroup.POST("/projects/:id/abandon", c.project.AbandonProject)
		authGroup.POST("/projects/:id/export", c.project.ExportArtifact)
		authGroup.POST("/projects/:id/need-to-knows", c.project.AddNeedToKnow)
		authGroup.POST("/projects/:id/need-to-knows/:ntkId/address", c.project.AddressNeedToKnow)

		authGroup.POST("/projects/:id/steps/:stepId/start", c.step.StartStep)
		authGroup.POST("/projects/:id/steps/:stepId/complete", c.step.CompleteStep)

		authGroup.GET("/garden", c.garden.GetGarden)
		authGroup.PUT("/garden/plants/:projectId/position", c.garden.MovePlant)

		authGroup.GET("/dashboard", c.dashboard.GetDashboard)
		authGroup.GET("/leaderboard", c.dashboard.GetLeaderboard)
	}
}
