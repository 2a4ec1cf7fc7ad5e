package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cquest_backend/internal/config"
	"cquest_backend/internal/controller"
	"cquest_backend/internal/repository"
	"cquest_backend/internal/service"
	"cquest_backend/pkg/database"
	"cquest_backend/pkg/logger"
	"cquest_backend/pkg/monitoring"
	"cquest_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	cfg    *config.Config
	engine *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("cquest-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Warn("tracing disabled, collector unreachable", zap.Error(err))
		}
	}

	if err := database.InitDB(cfg); err != nil {
		return nil, err
	}
	if err := database.InitRedis(cfg); err != nil {
		logger.Log.Warn("redis unavailable, falling back to database-only paths", zap.Error(err))
	}

	// Repositories.
	userRepo := repository.NewUserRepository(database.DB)
	assessmentRepo := repository.NewAssessmentRepository(database.DB)
	lessonRepo := repository.NewLessonRepository(database.DB)
	progressRepo := repository.NewProgressRepository(database.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(database.DB)

	// Services.
	authService := service.NewAuthService(userRepo, subscriptionRepo, cfg)
	userService := service.NewUserService(userRepo)
	storageService, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, err
	}
	gateway := service.NewSandboxGateway(cfg.Payment)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, assessmentRepo, gateway, database.RedisClient)
	progressService := service.NewProgressService(progressRepo, userRepo, database.RedisClient)
	adaptiveService := service.NewAdaptiveService(assessmentRepo)
	assessmentService := service.NewAssessmentService(assessmentRepo, assessmentRepo, cfg.Assessment, adaptiveService, progressService)
	lessonService := service.NewLessonService(lessonRepo, subscriptionService, progressService, adaptiveService)
	questionService := service.NewQuestionService(assessmentRepo)
	analyticsService := service.NewAnalyticsService(database.DB)

	// Controllers.
	controllers := &controllers{
		health:       controller.NewHealthController(),
		auth:         controller.NewAuthController(authService),
		user:         controller.NewUserController(userService, storageService),
		assessment:   controller.NewAssessmentController(assessmentService, subscriptionService),
		lesson:       controller.NewLessonController(lessonService),
		progress:     controller.NewProgressController(progressService),
		subscription: controller.NewSubscriptionController(subscriptionService),
		admin:        controller.NewAdminController(userService, lessonService, questionService, subscriptionService, analyticsService),
	}

	engine := newRouter(cfg, userRepo, controllers)

	go expireSubscriptionsLoop(subscriptionService)

	return &App{cfg: cfg, engine: engine}, nil
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.cfg.Server.Port,
		Handler: a.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server listening", zap.String("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func expireSubscriptionsLoop(subs *service.SubscriptionService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		subs.ExpireStale()
	}
}
