package service

import (
	"testing"

	"cquest_backend/internal/config"
	"cquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sandboxFixture() (*SandboxGateway, *model.Payment, *model.SubscriptionPlan) {
	gw := NewSandboxGateway(config.PaymentConfig{
		Provider:    "sandbox",
		StoreSecret: "test-secret",
		CallbackURL: "http://localhost:8080/api/subscriptions/callback",
	})
	payment := &model.Payment{
		TransactionID: "tx-123",
		Amount:        4.99,
		Currency:      "USD",
	}
	plan := &model.SubscriptionPlan{Tier: model.TierGold, Price: 4.99, Currency: "USD"}
	return gw, payment, plan
}

func TestSandboxCheckoutSignsSession(t *testing.T) {
	gw, payment, plan := sandboxFixture()

	redirectURL, sessionKey, err := gw.CreateCheckout(payment, plan)
	require.NoError(t, err)
	assert.Contains(t, redirectURL, "tran_id=tx-123")
	assert.NotEmpty(t, sessionKey)

	status, err := gw.ValidateCallback(payment, map[string]string{
		"status":    "VALID",
		"signature": sessionKey,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, status)
}

func TestSandboxCallbackRejectsBadSignature(t *testing.T) {
	gw, payment, _ := sandboxFixture()

	status, err := gw.ValidateCallback(payment, map[string]string{
		"status":    "VALID",
		"signature": "forged",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, status)
}

func TestSandboxCallbackStatuses(t *testing.T) {
	gw, payment, plan := sandboxFixture()
	_, sessionKey, err := gw.CreateCheckout(payment, plan)
	require.NoError(t, err)

	cases := map[string]model.PaymentStatus{
		"VALID":     model.PaymentCompleted,
		"VALIDATED": model.PaymentCompleted,
		"CANCELLED": model.PaymentCancelled,
		"FAILED":    model.PaymentFailed,
		"":          model.PaymentFailed,
	}
	for status, want := range cases {
		got, err := gw.ValidateCallback(payment, map[string]string{
			"status":    status,
			"signature": sessionKey,
		})
		require.NoError(t, err)
		assert.Equal(t, want, got, "gateway status %q", status)
	}
}
