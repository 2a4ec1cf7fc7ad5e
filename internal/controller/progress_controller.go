package controller

import (
	"strconv"

	"cquest_backend/internal/service"
	"cquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	progressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{progressService: progressService}
}

// Get godoc
// @Summary Get the gamification ledger (XP, streaks, level)
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Router /api/progress [get]
func (ctrl *ProgressController) Get(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	progress, err := ctrl.progressService.GetProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, progress)
}

// Leaderboard godoc
// @Summary List top users by XP
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Entries to return (default 10)"
// @Success 200 {object} util.Response
// @Router /api/progress/leaderboard [get]
func (ctrl *ProgressController) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	entries, err := ctrl.progressService.Leaderboard(limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, entries)
}

// Achievements godoc
// @Summary List earned achievements
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress/achievements [get]
func (ctrl *ProgressController) Achievements(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	earned, err := ctrl.progressService.Achievements(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, earned)
}
