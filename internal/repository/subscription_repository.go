package repository

import (
	"time"

	"cquest_backend/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) ListPlans() ([]model.SubscriptionPlan, error) {
	var plans []model.SubscriptionPlan
	err := r.db.Order("price ASC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *SubscriptionRepository) GetPlanByTier(tier model.SubscriptionTier) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.Where("tier = ?", tier).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepository) SavePlan(plan *model.SubscriptionPlan) error {
	return r.db.Save(plan).Error
}

// ActiveSubscription returns the user's current active subscription, newest
// first. gorm.ErrRecordNotFound means the user is on the free tier.
func (r *SubscriptionRepository) ActiveSubscription(userID uint) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("start_date DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) CreateSubscription(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) SaveSubscription(sub *model.Subscription) error {
	return r.db.Save(sub).Error
}

// DeactivateExpired flips the active flag on every subscription whose end
// date has passed. Run periodically.
func (r *SubscriptionRepository) DeactivateExpired(now time.Time) (int64, error) {
	res := r.db.Model(&model.Subscription{}).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date < ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *SubscriptionRepository) CreatePayment(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *SubscriptionRepository) GetPaymentByTransactionID(transactionID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *SubscriptionRepository) SavePayment(payment *model.Payment) error {
	return r.db.Save(payment).Error
}

func (r *SubscriptionRepository) ListPaymentsByUser(userID uint, offset, limit int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	base := r.db.Model(&model.Payment{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
