package controller

import (
	"errors"
	"strconv"

	"cquest_backend/internal/service"
	"cquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	assessmentService   *service.AssessmentService
	subscriptionService *service.SubscriptionService
}

func NewAssessmentController(assessmentService *service.AssessmentService, subscriptionService *service.SubscriptionService) *AssessmentController {
	return &AssessmentController{
		assessmentService:   assessmentService,
		subscriptionService: subscriptionService,
	}
}

type startAssessmentRequest struct {
	AssessmentType string `json:"assessment_type" binding:"omitempty,oneof=initial progress_check"`
}

// Start godoc
// @Summary Start an assessment session
// @Description Issues a level-balanced question batch. Correct answers are never included.
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body startAssessmentRequest false "Session options"
// @Success 201 {object} util.Response{data=service.StartedAssessment}
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/assessments/start [post]
func (ctrl *AssessmentController) Start(c *gin.Context) {
	var req startAssessmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.BadRequest(c, err.Error())
			return
		}
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.subscriptionService.CanStartAssessment(claims.UserID); err != nil {
		if errors.Is(err, util.ErrRetakeNotAllowed) {
			util.Forbidden(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}

	started, err := ctrl.assessmentService.Start(claims.UserID, req.AssessmentType)
	if err != nil {
		if errors.Is(err, util.ErrNoQuestionsAvailable) {
			util.Conflict(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, started)
}

type submitAssessmentRequest struct {
	Answers []service.AnswerSubmission `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit all answers for a session
// @Description Scores the batch and returns the result. A session accepts exactly one submission.
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session id"
// @Param input body submitAssessmentRequest true "Complete answer batch"
// @Success 200 {object} util.Response{data=model.AssessmentResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/assessments/{sessionId}/submit [post]
func (ctrl *AssessmentController) Submit(c *gin.Context) {
	var req submitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	result, err := ctrl.assessmentService.Submit(claims.UserID, c.Param("sessionId"), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAssessmentNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrAlreadySubmitted):
			util.Conflict(c, err.Error())
		case errors.Is(err, util.ErrUnknownQuestionReference),
			errors.Is(err, util.ErrDuplicateAnswer):
			util.BadRequest(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, result)
}

// Result godoc
// @Summary Get the result of a completed assessment
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assessment id"
// @Success 200 {object} util.Response{data=model.AssessmentResult}
// @Failure 404 {object} util.Response
// @Router /api/assessments/result/{id} [get]
func (ctrl *AssessmentController) Result(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid assessment id")
		return
	}

	claims := util.GetUserFromContext(c)
	result, err := ctrl.assessmentService.Result(claims.UserID, uint(id))
	if err != nil {
		if errors.Is(err, util.ErrAssessmentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, result)
}

// History godoc
// @Summary List completed assessments, newest first
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/assessments/history [get]
func (ctrl *AssessmentController) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	claims := util.GetUserFromContext(c)
	assessments, total, err := ctrl.assessmentService.History(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: assessments, Total: total, Page: page, Limit: limit})
}

// Profile godoc
// @Summary Get the rolling skill profile
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserSkillProfile}
// @Router /api/assessments/profile [get]
func (ctrl *AssessmentController) Profile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	profile, err := ctrl.assessmentService.Profile(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, profile)
}
