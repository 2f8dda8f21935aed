package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"      // gateway still settling; keep polling
	PaymentStatusCompleted   PaymentStatus = "completed"    // settled, subscription granted
	PaymentStatusFailed      PaymentStatus = "failed"       // gateway rejected the payment
	PaymentStatusCancelled   PaymentStatus = "cancelled"    // user abandoned at the gateway
	PaymentStatusExpired     PaymentStatus = "expired"      // gateway session lapsed
	PaymentStatusNotRequired PaymentStatus = "not_required" // zero-amount change, nothing to settle
)

// Terminal reports whether polling must stop permanently for this status.
// Unknown values are treated as non-terminal so that newer server statuses
// keep the poll alive instead of failing it.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled,
		PaymentStatusExpired, PaymentStatusNotRequired:
		return true
	default:
		return false
	}
}

// Succeeded reports whether a terminal status counts as a successful outcome.
func (s PaymentStatus) Succeeded() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusNotRequired
}

// PollingHint is the server's advice on how to keep polling. Zero or negative
// fields mean "no opinion"; Continue is a pointer so absence is distinguishable
// from an explicit stop.
type PollingHint struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
	Continue    *bool
}

// StatusReport is one answer from the payment-status endpoint.
type StatusReport struct {
	SubscriptionID string
	PlanCode       string
	Amount         int64
	Currency       string
	Status         PaymentStatus
	PaymentID      string // latest payment id, set once known
	Message        string // server-provided, surfaced verbatim on terminal failure
	Hint           *PollingHint
}

// PaymentOutcome is the terminal result of a polling session.
type PaymentOutcome struct {
	SubscriptionID string
	Status         PaymentStatus
	PaymentID      string
	Message        string
	Succeeded      bool
	Attempts       int
	Elapsed        time.Duration
}
