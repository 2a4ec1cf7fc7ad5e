package controller

import (
	"errors"
	"strconv"

	"cquest_backend/internal/model"
	"cquest_backend/internal/service"
	"cquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionController(subscriptionService *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptionService: subscriptionService}
}

// Plans godoc
// @Summary List available subscription plans
// @Tags subscriptions
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/subscriptions/plans [get]
func (ctrl *SubscriptionController) Plans(c *gin.Context) {
	plans, err := ctrl.subscriptionService.Plans()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, plans)
}

// Entitlements godoc
// @Summary Get the caller's current plan entitlements
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Entitlements}
// @Router /api/subscriptions/me [get]
func (ctrl *SubscriptionController) Entitlements(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	ent, err := ctrl.subscriptionService.EntitlementsFor(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	remaining, err := ctrl.subscriptionService.RemainingDailyQuestions(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{
		"entitlements":              ent,
		"remaining_daily_questions": remaining,
	})
}

type checkoutRequest struct {
	Tier model.SubscriptionTier `json:"tier" binding:"required,oneof=gold premium"`
}

// Checkout godoc
// @Summary Start a checkout for a paid tier
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body checkoutRequest true "Tier to purchase"
// @Success 201 {object} util.Response{data=service.CheckoutResult}
// @Failure 404 {object} util.Response
// @Router /api/subscriptions/checkout [post]
func (ctrl *SubscriptionController) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	claims := util.GetUserFromContext(c)
	result, err := ctrl.subscriptionService.InitiateCheckout(claims.UserID, req.Tier)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, result)
}

// Callback godoc
// @Summary Payment gateway callback
// @Description Called by the payment provider, not by clients.
// @Tags subscriptions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param tran_id formData string true "Transaction id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/subscriptions/callback [post]
func (ctrl *SubscriptionController) Callback(c *gin.Context) {
	transactionID := c.PostForm("tran_id")
	if transactionID == "" {
		util.BadRequest(c, "tran_id is required")
		return
	}

	payload := map[string]string{
		"status":    c.PostForm("status"),
		"signature": c.PostForm("signature"),
	}

	payment, err := ctrl.subscriptionService.HandleCallback(transactionID, payload)
	if err != nil {
		if errors.Is(err, util.ErrPaymentNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{"status": payment.Status})
}

// Payments godoc
// @Summary List the caller's payment history
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/subscriptions/payments [get]
func (ctrl *SubscriptionController) Payments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	claims := util.GetUserFromContext(c)
	payments, total, err := ctrl.subscriptionService.Payments(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: payments, Total: total, Page: page, Limit: limit})
}
