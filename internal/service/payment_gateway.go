package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"cquest_backend/internal/config"
	"cquest_backend/internal/model"
)

// SandboxGateway is the development checkout provider. It issues signed
// session keys locally and trusts callbacks whose signature matches, so the
// whole purchase flow is exercisable without a live provider account.
type SandboxGateway struct {
	cfg config.PaymentConfig
}

func NewSandboxGateway(cfg config.PaymentConfig) *SandboxGateway {
	return &SandboxGateway{cfg: cfg}
}

func (g *SandboxGateway) sign(transactionID string) string {
	mac := hmac.New(sha256.New, []byte(g.cfg.StoreSecret))
	mac.Write([]byte(transactionID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *SandboxGateway) CreateCheckout(payment *model.Payment, plan *model.SubscriptionPlan) (string, string, error) {
	sessionKey := g.sign(payment.TransactionID)
	redirectURL := fmt.Sprintf("%s?tran_id=%s&amount=%.2f&currency=%s",
		g.cfg.CallbackURL, payment.TransactionID, payment.Amount, payment.Currency)
	return redirectURL, sessionKey, nil
}

func (g *SandboxGateway) ValidateCallback(payment *model.Payment, payload map[string]string) (model.PaymentStatus, error) {
	if !hmac.Equal([]byte(payload["signature"]), []byte(g.sign(payment.TransactionID))) {
		return model.PaymentFailed, nil
	}

	switch payload["status"] {
	case "VALID", "VALIDATED":
		return model.PaymentCompleted, nil
	case "CANCELLED":
		return model.PaymentCancelled, nil
	default:
		return model.PaymentFailed, nil
	}
}
