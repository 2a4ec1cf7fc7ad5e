// @title CQuest API
// @version 1.0
// @description Gamified C programming learning platform with adaptive skill assessment.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"log"

	"cquest_backend/internal/app"
	"cquest_backend/internal/config"
	"cquest_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	application, err := app.New(cfg)
	if err != nil {
		logger.Log.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		logger.Log.Fatal("server error", zap.Error(err))
	}
}
