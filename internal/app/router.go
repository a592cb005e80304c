package app

import (
	"course_api_backend/docs"
	"course_api_backend/internal/config"
	"course_api_backend/internal/middleware"
	"course_api_backend/internal/model"
	"course_api_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	courses := group.Group("/courses")
	{
		courses.GET("", c.course.List)
		courses.GET("/:id", c.course.Scheme)
		courses.POST("/:id/start", c.course.Start)
		courses.GET("/:id/progress", c.course.Progress)
	}

	lessons := group.Group("/lessons")
	{
		lessons.GET("/:id", c.lesson.Content)
		lessons.POST("/:id/complete", c.lesson.Complete)

		lessons.GET("/:id/test", c.test.Quiz)
		lessons.POST("/:id/test/save", c.test.Save)
		lessons.POST("/:id/test/complete", c.test.Complete)
		lessons.GET("/:id/test/attempts", c.test.Attempts)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/courses", c.admin.CreateCourse)
		admin.DELETE("/courses/:id", c.admin.DeleteCourse)
		admin.POST("/courses/:id/lessons", c.admin.CreateLesson)
		admin.POST("/lessons/:id/questions", c.admin.CreateQuestion)
		admin.POST("/lesson-progress/:id/reopen", c.admin.ReopenLessonProgress)
	}
}
