package controller

import (
	"context"
	"time"

	"cquest_backend/internal/util"
	"cquest_backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Health godoc
// @Summary Liveness and dependency health
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	status := gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil && sqlDB.Ping() == nil {
			status["database"] = "up"
		} else {
			status["database"] = "down"
		}
	}

	if database.RedisClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if database.RedisClient.Ping(ctx).Err() == nil {
			status["redis"] = "up"
		} else {
			status["redis"] = "down"
		}
	}

	util.Success(c, status)
}
