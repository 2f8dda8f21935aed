package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusNone      SubscriptionStatus = "none"
	SubscriptionStatusPending   SubscriptionStatus = "pending" // awaiting payment confirmation
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Subscription is the user's subscription instance as returned by the backend.
type Subscription struct {
	ID        string             `json:"id"`
	PlanCode  string             `json:"plan_code"`
	Status    SubscriptionStatus `json:"status"`
	StartAt   *time.Time         `json:"start_at"`
	RenewsAt  *time.Time         `json:"renews_at"`
	ExpiresAt *time.Time         `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`
}

func (s *Subscription) IsZero() bool { return s == nil || s.ID == "" }

// CheckoutIntent is what a create/upgrade call hands back: where to send the
// browser, and which subscription to poll afterwards.
type CheckoutIntent struct {
	SubscriptionID string `json:"subscription_id"`
	PaymentURL     string `json:"payment_url"`
	OrderID        string `json:"order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	// Prorated is set on upgrades when the backend applied a partial-period
	// adjustment to the amount.
	Prorated bool `json:"prorated"`
}
