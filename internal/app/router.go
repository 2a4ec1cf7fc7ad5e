package app

import (
	"time"

	"cquest_backend/internal/config"
	"cquest_backend/internal/controller"
	"cquest_backend/internal/middleware"
	"cquest_backend/internal/model"
	"cquest_backend/internal/repository"
	"cquest_backend/pkg/monitoring"
	"cquest_backend/pkg/security"
	"cquest_backend/pkg/tracing"

	"cquest_backend/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type controllers struct {
	health       *controller.HealthController
	auth         *controller.AuthController
	user         *controller.UserController
	assessment   *controller.AssessmentController
	lesson       *controller.LessonController
	progress     *controller.ProgressController
	subscription *controller.SubscriptionController
	admin        *controller.AdminController
}

func newRouter(cfg *config.Config, userRepo *repository.UserRepository, c *controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(security.CORS(cfg.CORS.AllowedOrigins))
	r.Use(security.Secure())
	r.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	r.Use(monitoring.MetricsMiddleware())
	if cfg.Tracing.Enabled {
		r.Use(tracing.GinMiddleware())
	}

	docs.SwaggerInfo.BasePath = "/"

	r.GET("/health", c.health.Health)
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	r.Static("/static", cfg.Storage.LocalPath)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
	}

	// Gateway callback carries its own signature instead of a bearer token.
	api.POST("/subscriptions/callback", c.subscription.Callback)
	api.GET("/subscriptions/plans", c.subscription.Plans)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	authed.Use(middleware.ActivityMiddleware(userRepo))
	{
		users := authed.Group("/users")
		{
			users.GET("/me", c.user.Me)
			users.PUT("/me", c.user.UpdateMe)
			users.PUT("/me/password", c.user.ChangePassword)
			users.POST("/me/avatar", c.user.UploadAvatar)
		}

		assessments := authed.Group("/assessments")
		{
			assessments.POST("/start", c.assessment.Start)
			assessments.POST("/:sessionId/submit", c.assessment.Submit)
			assessments.GET("/result/:id", c.assessment.Result)
			assessments.GET("/history", c.assessment.History)
			assessments.GET("/profile", c.assessment.Profile)
		}

		lessons := authed.Group("/lessons")
		{
			lessons.GET("", c.lesson.Catalog)
			lessons.GET("/:id", c.lesson.Get)
			lessons.POST("/:id/quiz", c.lesson.SubmitQuiz)
		}

		progress := authed.Group("/progress")
		{
			progress.GET("", c.progress.Get)
			progress.GET("/leaderboard", c.progress.Leaderboard)
			progress.GET("/achievements", c.progress.Achievements)
		}

		subscriptions := authed.Group("/subscriptions")
		{
			subscriptions.GET("/me", c.subscription.Entitlements)
			subscriptions.POST("/checkout", c.subscription.Checkout)
			subscriptions.GET("/payments", c.subscription.Payments)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.GET("/users", c.admin.ListUsers)
			admin.PUT("/users/:id/disabled", c.admin.SetUserDisabled)
			admin.GET("/lessons", c.admin.ListLessons)
			admin.POST("/lessons", c.admin.CreateLesson)
			admin.PUT("/lessons/:id", c.admin.UpdateLesson)
			admin.DELETE("/lessons/:id", c.admin.DeleteLesson)
			admin.POST("/lessons/:id/questions", c.admin.AddLessonQuestion)
			admin.GET("/questions", c.admin.ListQuestions)
			admin.POST("/questions", c.admin.CreateQuestion)
			admin.PUT("/questions/:id", c.admin.UpdateQuestion)
			admin.DELETE("/questions/:id", c.admin.DeactivateQuestion)
			admin.PUT("/plans/:tier", c.admin.UpdatePlan)
			admin.GET("/stats", c.admin.Stats)
			admin.GET("/stats/skills", c.admin.SkillDistribution)
			admin.GET("/stats/topics", c.admin.TopicDifficulty)
		}
	}

	return r
}
