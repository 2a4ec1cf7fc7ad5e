package model

import "time"

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierGold    SubscriptionTier = "gold"
	TierPremium SubscriptionTier = "premium"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// SubscriptionPlan describes a purchasable tier and its feature limits.
// Nil limits mean unlimited.
// swagger:model SubscriptionPlan
type SubscriptionPlan struct {
	BaseModel
	Tier               SubscriptionTier `gorm:"size:20;uniqueIndex;not null" json:"tier"`
	Name               string           `gorm:"size:100;not null" json:"name"`
	Price              float64          `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency           string           `gorm:"size:10;default:'USD'" json:"currency"`
	DurationDays       int              `gorm:"not null" json:"durationDays"`
	DailyQuestionLimit *int             `json:"dailyQuestionLimit,omitempty"`
	MaxLevelAccess     *int             `json:"maxLevelAccess,omitempty"`
	DetailedAnalytics  bool             `gorm:"default:false" json:"detailedAnalytics"`
	UnlimitedRetakes   bool             `gorm:"default:false" json:"unlimitedRetakes"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// swagger:model Subscription
type Subscription struct {
	BaseModel
	UserID    uint             `gorm:"index;not null" json:"userId"`
	Tier      SubscriptionTier `gorm:"size:20;not null" json:"tier"`
	StartDate time.Time        `gorm:"not null" json:"startDate"`
	EndDate   *time.Time       `json:"endDate,omitempty"`
	IsActive  bool             `gorm:"default:true" json:"isActive"`
	AutoRenew bool             `gorm:"default:true" json:"autoRenew"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Expired reports whether the subscription's end date has passed.
func (s *Subscription) Expired(now time.Time) bool {
	return s.EndDate != nil && now.After(*s.EndDate)
}

// Payment is one gateway transaction. Gateway specifics stay behind the
// PaymentGateway interface; only the fields every provider reports live here.
// swagger:model Payment
type Payment struct {
	BaseModel
	UserID         uint             `gorm:"index;not null" json:"userId"`
	SubscriptionID *uint            `gorm:"index" json:"subscriptionId,omitempty"`
	TransactionID  string           `gorm:"size:64;uniqueIndex;not null" json:"transactionId"`
	SessionKey     string           `gorm:"size:128" json:"-"`
	PlanTier       SubscriptionTier `gorm:"size:20;not null" json:"planTier"`
	Amount         float64          `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency       string           `gorm:"size:10;default:'USD'" json:"currency"`
	Status         PaymentStatus    `gorm:"size:20;default:'pending'" json:"status"`
	PaymentMethod  string           `gorm:"size:50" json:"paymentMethod,omitempty"`
	PaidAt         *time.Time       `json:"paidAt,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
