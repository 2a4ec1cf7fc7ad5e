package controller

import (
	"errors"
	"strconv"

	"cquest_backend/internal/model"
	"cquest_backend/internal/service"
	"cquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	userService         *service.UserService
	lessonService       *service.LessonService
	questionService     *service.QuestionService
	subscriptionService *service.SubscriptionService
	analyticsService    *service.AnalyticsService
}

func NewAdminController(userService *service.UserService, lessonService *service.LessonService, questionService *service.QuestionService, subscriptionService *service.SubscriptionService, analyticsService *service.AnalyticsService) *AdminController {
	return &AdminController{
		userService:         userService,
		lessonService:       lessonService,
		questionService:     questionService,
		subscriptionService: subscriptionService,
		analyticsService:    analyticsService,
	}
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, total, err := ctrl.userService.List(page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

type setDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetUserDisabled godoc
// @Summary Enable or disable an account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param input body setDisabledRequest true "Disabled flag"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/disabled [put]
func (ctrl *AdminController) SetUserDisabled(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid user id")
		return
	}

	var req setDisabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctrl.userService.SetDisabled(uint(id), *req.Disabled); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

// ListLessons godoc
// @Summary List all lessons including unpublished
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/lessons [get]
func (ctrl *AdminController) ListLessons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	lessons, total, err := ctrl.lessonService.ListAll(page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: lessons, Total: total, Page: page, Limit: limit})
}

// CreateLesson godoc
// @Summary Create a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.LessonInput true "Lesson fields"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/admin/lessons [post]
func (ctrl *AdminController) CreateLesson(c *gin.Context) {
	var input service.LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	lesson, err := ctrl.lessonService.Create(input)
	if err != nil {
		if errors.Is(err, util.ErrInvalidTopic) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson id"
// @Param input body service.LessonInput true "Lesson fields"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id} [put]
func (ctrl *AdminController) UpdateLesson(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid lesson id")
		return
	}

	var input service.LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	lesson, err := ctrl.lessonService.Update(uint(id), input)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(c)
			return
		}
		if errors.Is(err, util.ErrInvalidTopic) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id} [delete]
func (ctrl *AdminController) DeleteLesson(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid lesson id")
		return
	}

	if err := ctrl.lessonService.Delete(uint(id)); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

// AddLessonQuestion godoc
// @Summary Add a question to a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson id"
// @Param input body service.LessonQuestionInput true "Question fields"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/lessons/{id}/questions [post]
func (ctrl *AdminController) AddLessonQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid lesson id")
		return
	}

	var input service.LessonQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctrl.lessonService.AddQuestion(uint(id), input)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, question)
}

// ListQuestions godoc
// @Summary List the assessment question bank
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/questions [get]
func (ctrl *AdminController) ListQuestions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	questions, total, err := ctrl.questionService.List(page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: questions, Total: total, Page: page, Limit: limit})
}

// CreateQuestion godoc
// @Summary Add a question to the assessment bank
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.QuestionInput true "Question fields"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/questions [post]
func (ctrl *AdminController) CreateQuestion(c *gin.Context) {
	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctrl.questionService.Create(input)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	util.Created(c, question)
}

// UpdateQuestion godoc
// @Summary Update an assessment bank question
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question id"
// @Param input body service.QuestionInput true "Question fields"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (ctrl *AdminController) UpdateQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid question id")
		return
	}

	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	question, err := ctrl.questionService.Update(uint(id), input)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(c)
			return
		}
		util.BadRequest(c, err.Error())
		return
	}
	util.Success(c, question)
}

// DeactivateQuestion godoc
// @Summary Retire a question from new assessment sessions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (ctrl *AdminController) DeactivateQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(c, "invalid question id")
		return
	}

	if err := ctrl.questionService.Deactivate(uint(id)); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

// UpdatePlan godoc
// @Summary Update a subscription plan's pricing and limits
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tier path string true "Plan tier (free, gold, premium)"
// @Param input body service.PlanInput true "Plan fields"
// @Success 200 {object} util.Response{data=model.SubscriptionPlan}
// @Failure 404 {object} util.Response
// @Router /api/admin/plans/{tier} [put]
func (ctrl *AdminController) UpdatePlan(c *gin.Context) {
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	plan, err := ctrl.subscriptionService.UpdatePlan(model.SubscriptionTier(c.Param("tier")), input)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, plan)
}

// Stats godoc
// @Summary Platform-wide statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PlatformStats}
// @Router /api/admin/stats [get]
func (ctrl *AdminController) Stats(c *gin.Context) {
	stats, err := ctrl.analyticsService.PlatformStats()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, stats)
}

// SkillDistribution godoc
// @Summary User counts by skill label
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/stats/skills [get]
func (ctrl *AdminController) SkillDistribution(c *gin.Context) {
	entries, err := ctrl.analyticsService.SkillDistribution()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, entries)
}

// TopicDifficulty godoc
// @Summary Bank-wide response accuracy per topic
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/stats/topics [get]
func (ctrl *AdminController) TopicDifficulty(c *gin.Context) {
	entries, err := ctrl.analyticsService.TopicDifficulty()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, entries)
}
