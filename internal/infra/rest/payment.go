package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/gateway"
)

// Compile-time check
var _ gateway.PaymentStatusAPI = (*Client)(nil)

// statusResponse is the wire shape of the payment-status endpoint. Durations
// come over as milliseconds; "continue" is a tri-state, absent means "no
// opinion".
type statusResponse struct {
	Status         string `json:"status"`
	SubscriptionID string `json:"subscription_id"`
	PlanCode       string `json:"plan_code"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Message        string `json:"message"`
	Payment        *struct {
		LatestPaymentID string `json:"latest_payment_id"`
	} `json:"payment"`
	Polling *struct {
		IntervalMS  int   `json:"interval_ms"`
		MaxAttempts int   `json:"max_attempts"`
		TimeoutMS   int   `json:"timeout_ms"`
		Continue    *bool `json:"continue"`
	} `json:"polling"`
}

func (c *Client) PaymentStatus(ctx context.Context, subscriptionID string) (*model.StatusReport, error) {
	var out statusResponse
	path := "/api/v1/subscriptions/" + url.PathEscape(subscriptionID) + "/payment-status"
	err := c.do(ctx, "payment.status", http.MethodGet, path, nil, &out, requestOpts{authed: true})
	if err != nil {
		return nil, err
	}

	report := &model.StatusReport{
		SubscriptionID: out.SubscriptionID,
		PlanCode:       out.PlanCode,
		Amount:         out.Amount,
		Currency:       out.Currency,
		Status:         model.PaymentStatus(out.Status),
		Message:        out.Message,
	}
	if report.SubscriptionID == "" {
		report.SubscriptionID = subscriptionID
	}
	if out.Payment != nil {
		report.PaymentID = out.Payment.LatestPaymentID
	}
	if out.Polling != nil {
		report.Hint = &model.PollingHint{
			Interval:    time.Duration(out.Polling.IntervalMS) * time.Millisecond,
			MaxAttempts: out.Polling.MaxAttempts,
			Timeout:     time.Duration(out.Polling.TimeoutMS) * time.Millisecond,
			Continue:    out.Polling.Continue,
		}
	}
	return report, nil
}
