package app

import (
	"devoverflow_backend/docs"
	"devoverflow_backend/internal/config"
	"devoverflow_backend/internal/middleware"

	"devoverflow_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 身份提供方回调，事件可能重放，处理端保证幂等
		api.POST("/webhooks/identity", c.user.HandleIdentityEvent)
	}

	// 列表类：可选认证，允许游客访问
	public := router.Group("/api")
	public.Use(middleware.TryAuthMiddleware(cfg, repos.user))
	{
		public.GET("/questions", c.question.List)
		public.GET("/questions/hot", c.question.Hot)
		public.GET("/questions/:id", c.question.Get)
		public.POST("/questions/:id/view", c.question.RecordView)
		public.GET("/questions/:id/answers", c.answer.List)

		public.GET("/tags", c.tag.List)
		public.GET("/tags/popular", c.tag.Popular)
		public.GET("/tags/:id/questions", c.tag.Questions)

		public.GET("/users", c.user.List)
		public.GET("/users/:id/stats", c.user.Stats)
		public.GET("/users/:id/questions", c.user.Questions)
		public.GET("/users/:id/answers", c.user.Answers)
		public.GET("/users/:id/top-tags", c.user.TopTags)
	}

	// 交互类：强制认证
	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg, repos.user))
	{
		authorized.POST("/questions", c.question.Create)
		authorized.PUT("/questions/:id", c.question.Edit)
		authorized.DELETE("/questions/:id", c.question.Delete)
		authorized.GET("/questions/recommended", c.question.Recommended)
		authorized.POST("/questions/:id/answers", c.answer.Create)
		authorized.DELETE("/answers/:id", c.answer.Delete)

		authorized.POST("/questions/:id/vote", c.vote.VoteQuestion)
		authorized.POST("/answers/:id/vote", c.vote.VoteAnswer)
		authorized.POST("/questions/:id/save", c.user.ToggleSave)

		authorized.GET("/users/me", c.user.Me)
		authorized.GET("/users/me/saved", c.user.SavedQuestions)
	}
}
