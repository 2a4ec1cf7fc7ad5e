package controller

import (
	"errors"
	"net/http"
	"strconv"

	"cquest_backend/internal/model"
	"cquest_backend/internal/service"
	"cquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	lessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{lessonService: lessonService}
}

// Catalog godoc
// @Summary List published lessons with completion and lock state
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param topic query string false "Filter by topic area"
// @Success 200 {object} util.Response
// @Router /api/lessons [get]
func (ctrl *LessonController) Catalog(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	entries, recommendedLevel, err := ctrl.lessonService.Catalog(claims.UserID, model.TopicArea(c.Query("topic")))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{
		"lessons":           entries,
		"recommended_level": recommendedLevel,
	})
}

// Get godoc
// @Summary Get a lesson with its questions
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson id"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (ctrl *LessonController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid lesson id")
		return
	}

	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.lessonService.Get(claims.UserID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrLevelLocked):
			util.Forbidden(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, lesson)
}

type submitQuizRequest struct {
	Answers []service.QuizAnswer `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary Submit answers for a lesson quiz
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson id"
// @Param input body submitQuizRequest true "Quiz answers"
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 403 {object} util.Response
// @Failure 429 {object} util.Response
// @Router /api/lessons/{id}/quiz [post]
func (ctrl *LessonController) SubmitQuiz(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid lesson id")
		return
	}

	var req submitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	result, err := ctrl.lessonService.SubmitQuiz(claims.UserID, uint(id), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrLevelLocked):
			util.Forbidden(c, err.Error())
		case errors.Is(err, util.ErrDailyLimitReached):
			util.Error(c, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, util.ErrUnknownQuestionReference):
			util.BadRequest(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, result)
}
