package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cquest_backend/internal/model"
	"cquest_backend/internal/repository"
	"cquest_backend/internal/util"
	"cquest_backend/pkg/logger"
	"cquest_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentGateway abstracts the checkout provider. CreateCheckout returns a
// redirect URL the client completes payment at, plus the provider's session
// key for later validation.
type PaymentGateway interface {
	CreateCheckout(payment *model.Payment, plan *model.SubscriptionPlan) (redirectURL, sessionKey string, err error)
	ValidateCallback(payment *model.Payment, providerPayload map[string]string) (model.PaymentStatus, error)
}

// Entitlements is the feature set the user's current plan grants. Nil limits
// mean unlimited.
type Entitlements struct {
	Tier               model.SubscriptionTier `json:"tier"`
	DailyQuestionLimit *int                   `json:"dailyQuestionLimit,omitempty"`
	MaxLevelAccess     *int                   `json:"maxLevelAccess,omitempty"`
	DetailedAnalytics  bool                   `json:"detailedAnalytics"`
	UnlimitedRetakes   bool                   `json:"unlimitedRetakes"`
}

type SubscriptionService struct {
	repo           *repository.SubscriptionRepository
	assessmentRepo *repository.AssessmentRepository
	gateway        PaymentGateway
	redis          *redis.Client
}

func NewSubscriptionService(repo *repository.SubscriptionRepository, assessmentRepo *repository.AssessmentRepository, gateway PaymentGateway, redisClient *redis.Client) *SubscriptionService {
	return &SubscriptionService{repo: repo, assessmentRepo: assessmentRepo, gateway: gateway, redis: redisClient}
}

func (s *SubscriptionService) Plans() ([]model.SubscriptionPlan, error) {
	return s.repo.ListPlans()
}

// EntitlementsFor resolves the user's plan. Expired or missing subscriptions
// fall back to the free tier.
func (s *SubscriptionService) EntitlementsFor(userID uint) (*Entitlements, error) {
	tier := model.TierFree

	sub, err := s.repo.ActiveSubscription(userID)
	if err == nil && !sub.Expired(time.Now()) {
		tier = sub.Tier
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	plan, err := s.repo.GetPlanByTier(tier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Unseeded database: fall back to a conservative free plan.
		limit, maxLevel := 20, 3
		return &Entitlements{Tier: model.TierFree, DailyQuestionLimit: &limit, MaxLevelAccess: &maxLevel}, nil
	}

	return &Entitlements{
		Tier:               plan.Tier,
		DailyQuestionLimit: plan.DailyQuestionLimit,
		MaxLevelAccess:     plan.MaxLevelAccess,
		DetailedAnalytics:  plan.DetailedAnalytics,
		UnlimitedRetakes:   plan.UnlimitedRetakes,
	}, nil
}

// CanAccessLevel gates leveled content by the plan's level cap.
func (s *SubscriptionService) CanAccessLevel(userID uint, level int) error {
	ent, err := s.EntitlementsFor(userID)
	if err != nil {
		return err
	}
	if ent.MaxLevelAccess != nil && level > *ent.MaxLevelAccess {
		return util.ErrLevelLocked
	}
	return nil
}

// CanStartAssessment allows the first assessment on any plan. Without the
// unlimited-retakes entitlement, a new session needs a day since the last
// completed one.
func (s *SubscriptionService) CanStartAssessment(userID uint) error {
	ent, err := s.EntitlementsFor(userID)
	if err != nil {
		return err
	}
	if ent.UnlimitedRetakes {
		return nil
	}

	latest, err := s.assessmentRepo.LatestCompletedByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if latest.CompletedAt != nil && time.Since(*latest.CompletedAt) < 24*time.Hour {
		return util.ErrRetakeNotAllowed
	}
	return nil
}

func dailyQuestionKey(userID uint, day time.Time) string {
	return fmt.Sprintf("daily:questions:%d:%s", userID, day.Format(util.DateFormat))
}

// ConsumeQuestions counts n lesson questions against today's quota. Plans
// without a limit always pass. Counting is best-effort when redis is down;
// the limit is a product constraint, not a safety one.
func (s *SubscriptionService) ConsumeQuestions(userID uint, n int) error {
	ent, err := s.EntitlementsFor(userID)
	if err != nil {
		return err
	}
	if ent.DailyQuestionLimit == nil {
		return nil
	}
	if s.redis == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := dailyQuestionKey(userID, time.Now())
	used, err := s.redis.IncrBy(ctx, key, int64(n)).Result()
	if err != nil {
		logger.Log.Warn("failed to count daily questions", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	s.redis.Expire(ctx, key, 48*time.Hour)

	if used > int64(*ent.DailyQuestionLimit) {
		s.redis.DecrBy(ctx, key, int64(n))
		return util.ErrDailyLimitReached
	}
	return nil
}

// RemainingDailyQuestions reports today's leftover quota, nil for unlimited.
func (s *SubscriptionService) RemainingDailyQuestions(userID uint) (*int, error) {
	ent, err := s.EntitlementsFor(userID)
	if err != nil {
		return nil, err
	}
	if ent.DailyQuestionLimit == nil {
		return nil, nil
	}

	remaining := *ent.DailyQuestionLimit
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if used, err := s.redis.Get(ctx, dailyQuestionKey(userID, time.Now())).Int(); err == nil {
			remaining -= used
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	return &remaining, nil
}

type CheckoutResult struct {
	TransactionID string `json:"transaction_id"`
	RedirectURL   string `json:"redirect_url"`
}

// InitiateCheckout opens a pending payment for a paid tier and returns where
// to send the user.
func (s *SubscriptionService) InitiateCheckout(userID uint, tier model.SubscriptionTier) (*CheckoutResult, error) {
	if tier == model.TierFree {
		return nil, util.ErrPlanNotFound
	}

	plan, err := s.repo.GetPlanByTier(tier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}

	payment := &model.Payment{
		UserID:        userID,
		TransactionID: uuid.NewString(),
		PlanTier:      plan.Tier,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		Status:        model.PaymentPending,
	}

	redirectURL, sessionKey, err := s.gateway.CreateCheckout(payment, plan)
	if err != nil {
		return nil, err
	}
	payment.SessionKey = sessionKey

	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, err
	}

	logger.Log.Info("checkout initiated",
		zap.Uint("user_id", userID),
		zap.String("tier", string(tier)),
		zap.String("transaction_id", payment.TransactionID),
	)
	return &CheckoutResult{TransactionID: payment.TransactionID, RedirectURL: redirectURL}, nil
}

// HandleCallback finalizes a payment from the gateway's callback and, on
// success, activates the purchased subscription.
func (s *SubscriptionService) HandleCallback(transactionID string, payload map[string]string) (*model.Payment, error) {
	payment, err := s.repo.GetPaymentByTransactionID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status != model.PaymentPending {
		return payment, nil
	}

	status, err := s.gateway.ValidateCallback(payment, payload)
	if err != nil {
		return nil, err
	}

	payment.Status = status
	if status == model.PaymentCompleted {
		now := time.Now()
		payment.PaidAt = &now

		if err := s.activatePurchase(payment); err != nil {
			return nil, err
		}
	}
	if err := s.repo.SavePayment(payment); err != nil {
		return nil, err
	}

	monitoring.PaymentsProcessed.WithLabelValues(string(payment.Status)).Inc()
	return payment, nil
}

func (s *SubscriptionService) activatePurchase(payment *model.Payment) error {
	plan, err := s.repo.GetPlanByTier(payment.PlanTier)
	if err != nil {
		return err
	}

	// Deactivate the previous subscription before opening the new one.
	if prev, err := s.repo.ActiveSubscription(payment.UserID); err == nil {
		prev.IsActive = false
		if err := s.repo.SaveSubscription(prev); err != nil {
			return err
		}
	}

	now := time.Now()
	end := now.AddDate(0, 0, plan.DurationDays)
	sub := &model.Subscription{
		UserID:    payment.UserID,
		Tier:      plan.Tier,
		StartDate: now,
		EndDate:   &end,
		IsActive:  true,
		AutoRenew: true,
	}
	if err := s.repo.CreateSubscription(sub); err != nil {
		return err
	}
	payment.SubscriptionID = &sub.ID

	logger.Log.Info("subscription activated",
		zap.Uint("user_id", payment.UserID),
		zap.String("tier", string(plan.Tier)),
	)
	return nil
}

type PlanInput struct {
	Name               string  `json:"name" binding:"required,max=100"`
	Price              float64 `json:"price" binding:"min=0"`
	DurationDays       int     `json:"duration_days" binding:"min=0"`
	DailyQuestionLimit *int    `json:"daily_question_limit"`
	MaxLevelAccess     *int    `json:"max_level_access"`
	DetailedAnalytics  bool    `json:"detailed_analytics"`
	UnlimitedRetakes   bool    `json:"unlimited_retakes"`
}

// UpdatePlan edits a tier's pricing and limits. Tiers themselves are fixed.
func (s *SubscriptionService) UpdatePlan(tier model.SubscriptionTier, input PlanInput) (*model.SubscriptionPlan, error) {
	plan, err := s.repo.GetPlanByTier(tier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}

	plan.Name = input.Name
	plan.Price = input.Price
	plan.DurationDays = input.DurationDays
	plan.DailyQuestionLimit = input.DailyQuestionLimit
	plan.MaxLevelAccess = input.MaxLevelAccess
	plan.DetailedAnalytics = input.DetailedAnalytics
	plan.UnlimitedRetakes = input.UnlimitedRetakes

	if err := s.repo.SavePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *SubscriptionService) Payments(userID uint, page, pageSize int) ([]model.Payment, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListPaymentsByUser(userID, (page-1)*pageSize, pageSize)
}

// ExpireStale deactivates lapsed subscriptions. Meant to run on a ticker.
func (s *SubscriptionService) ExpireStale() {
	n, err := s.repo.DeactivateExpired(time.Now())
	if err != nil {
		logger.Log.Error("failed to expire subscriptions", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("expired subscriptions deactivated", zap.Int64("count", n))
	}
}
