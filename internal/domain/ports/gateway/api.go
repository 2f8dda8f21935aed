package gateway

import (
	"context"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
)

// LoginResult is what a credential exchange hands back. RequiresOTP is set
// when the backend withheld tokens pending an emailed one-time code.
type LoginResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
	RequiresOTP  bool
}

// AuthAPI is the hex port for the identity endpoints.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyLoginOTP(ctx context.Context, email, code string) (*LoginResult, error)
	ResendLoginOTP(ctx context.Context, email string) error

	Signup(ctx context.Context, name, email, password string) error
	VerifySignupOTP(ctx context.Context, email, code string) (*LoginResult, error)
	ResendSignupOTP(ctx context.Context, email string) error

	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error

	RequestEmailChange(ctx context.Context, newEmail string) error
	ConfirmEmailChange(ctx context.Context, newEmail, code string) (*model.User, error)

	// Profile fetches the authenticated user's record; it is also how a
	// restored token gets validated at startup.
	Profile(ctx context.Context) (*model.User, error)
	Logout(ctx context.Context) error
}

// SubscriptionAPI is the hex port for plan and subscription endpoints.
type SubscriptionAPI interface {
	Plans(ctx context.Context) ([]model.Plan, error)
	Current(ctx context.Context) (*model.Subscription, error)
	// Checkout creates a subscription for planCode and returns the gateway
	// redirect. idempotencyKey dedupes retried submissions server-side.
	Checkout(ctx context.Context, planCode, idempotencyKey string) (*model.CheckoutIntent, error)
	// Upgrade switches the active subscription to planCode; the returned
	// intent carries the prorated amount when the backend applied one.
	Upgrade(ctx context.Context, planCode, idempotencyKey string) (*model.CheckoutIntent, error)
	Cancel(ctx context.Context) (*model.Subscription, error)
}

// PaymentStatusAPI is the single query the poller needs.
type PaymentStatusAPI interface {
	PaymentStatus(ctx context.Context, subscriptionID string) (*model.StatusReport, error)
}
