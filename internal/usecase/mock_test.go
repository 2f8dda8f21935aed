//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/gateway"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"

	"github.com/rs/zerolog"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---- Mock PaymentStatusAPI ----

type MockStatusAPI struct {
	mu    sync.Mutex
	calls int

	// StatusFunc receives the 1-based call number so tests can script a
	// sequence of responses.
	StatusFunc func(call int, subscriptionID string) (*model.StatusReport, error)
}

var _ gateway.PaymentStatusAPI = (*MockStatusAPI)(nil)

func (m *MockStatusAPI) PaymentStatus(_ context.Context, subscriptionID string) (*model.StatusReport, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	if m.StatusFunc != nil {
		return m.StatusFunc(call, subscriptionID)
	}
	return &model.StatusReport{SubscriptionID: subscriptionID, Status: model.PaymentStatusPending}, nil
}

func (m *MockStatusAPI) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func pendingReport(id string) *model.StatusReport {
	return &model.StatusReport{SubscriptionID: id, Status: model.PaymentStatusPending}
}

func boolPtr(b bool) *bool { return &b }

// ---- Mock AuthAPI ----

type MockAuthAPI struct {
	LoginFunc                func(ctx context.Context, email, password string) (*gateway.LoginResult, error)
	VerifyLoginOTPFunc       func(ctx context.Context, email, code string) (*gateway.LoginResult, error)
	SignupFunc               func(ctx context.Context, name, email, password string) error
	VerifySignupOTPFunc      func(ctx context.Context, email, code string) (*gateway.LoginResult, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ConfirmPasswordResetFunc func(ctx context.Context, email, code, newPassword string) error
	RequestEmailChangeFunc   func(ctx context.Context, newEmail string) error
	ConfirmEmailChangeFunc   func(ctx context.Context, newEmail, code string) (*model.User, error)
	ProfileFunc              func(ctx context.Context) (*model.User, error)
	LogoutFunc               func(ctx context.Context) error
}

var _ gateway.AuthAPI = (*MockAuthAPI)(nil)

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*gateway.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &gateway.LoginResult{
		User:        &model.User{ID: "u-1", Email: email},
		AccessToken: "tok-1", RefreshToken: "ref-1",
	}, nil
}

func (m *MockAuthAPI) VerifyLoginOTP(ctx context.Context, email, code string) (*gateway.LoginResult, error) {
	if m.VerifyLoginOTPFunc != nil {
		return m.VerifyLoginOTPFunc(ctx, email, code)
	}
	return &gateway.LoginResult{User: &model.User{ID: "u-1", Email: email}, AccessToken: "tok-1"}, nil
}

func (m *MockAuthAPI) ResendLoginOTP(context.Context, string) error { return nil }

func (m *MockAuthAPI) Signup(ctx context.Context, name, email, password string) error {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, name, email, password)
	}
	return nil
}

func (m *MockAuthAPI) VerifySignupOTP(ctx context.Context, email, code string) (*gateway.LoginResult, error) {
	if m.VerifySignupOTPFunc != nil {
		return m.VerifySignupOTPFunc(ctx, email, code)
	}
	return &gateway.LoginResult{User: &model.User{ID: "u-1", Email: email}, AccessToken: "tok-1"}, nil
}

func (m *MockAuthAPI) ResendSignupOTP(context.Context, string) error { return nil }

func (m *MockAuthAPI) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthAPI) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if m.ConfirmPasswordResetFunc != nil {
		return m.ConfirmPasswordResetFunc(ctx, email, code, newPassword)
	}
	return nil
}

func (m *MockAuthAPI) RequestEmailChange(ctx context.Context, newEmail string) error {
	if m.RequestEmailChangeFunc != nil {
		return m.RequestEmailChangeFunc(ctx, newEmail)
	}
	return nil
}

func (m *MockAuthAPI) ConfirmEmailChange(ctx context.Context, newEmail, code string) (*model.User, error) {
	if m.ConfirmEmailChangeFunc != nil {
		return m.ConfirmEmailChangeFunc(ctx, newEmail, code)
	}
	return &model.User{ID: "u-1", Email: newEmail}, nil
}

func (m *MockAuthAPI) Profile(ctx context.Context) (*model.User, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return &model.User{ID: "u-1", Email: "a@b.c"}, nil
}

func (m *MockAuthAPI) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

// ---- Mock SubscriptionAPI ----

type MockSubscriptionAPI struct {
	PlansFunc    func(ctx context.Context) ([]model.Plan, error)
	CurrentFunc  func(ctx context.Context) (*model.Subscription, error)
	CheckoutFunc func(ctx context.Context, planCode, idemKey string) (*model.CheckoutIntent, error)
	UpgradeFunc  func(ctx context.Context, planCode, idemKey string) (*model.CheckoutIntent, error)
	CancelFunc   func(ctx context.Context) (*model.Subscription, error)
}

var _ gateway.SubscriptionAPI = (*MockSubscriptionAPI)(nil)

func (m *MockSubscriptionAPI) Plans(ctx context.Context) ([]model.Plan, error) {
	if m.PlansFunc != nil {
		return m.PlansFunc(ctx)
	}
	return []model.Plan{{Code: "pro", Name: "Pro", DurationDays: 30, Amount: 1900, Currency: "USD"}}, nil
}

func (m *MockSubscriptionAPI) Current(ctx context.Context) (*model.Subscription, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return &model.Subscription{ID: "sub-1", PlanCode: "pro", Status: model.SubscriptionStatusActive}, nil
}

func (m *MockSubscriptionAPI) Checkout(ctx context.Context, planCode, idemKey string) (*model.CheckoutIntent, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, planCode, idemKey)
	}
	return &model.CheckoutIntent{SubscriptionID: "sub-1", PaymentURL: "https://pay.example/1", Amount: 1900, Currency: "USD"}, nil
}

func (m *MockSubscriptionAPI) Upgrade(ctx context.Context, planCode, idemKey string) (*model.CheckoutIntent, error) {
	if m.UpgradeFunc != nil {
		return m.UpgradeFunc(ctx, planCode, idemKey)
	}
	return &model.CheckoutIntent{SubscriptionID: "sub-1", Prorated: true}, nil
}

func (m *MockSubscriptionAPI) Cancel(ctx context.Context) (*model.Subscription, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx)
	}
	return &model.Subscription{ID: "sub-1", PlanCode: "pro", Status: model.SubscriptionStatusCancelled}, nil
}

// ---- In-memory CredentialStore ----

type memCredStore struct {
	mu    sync.Mutex
	creds store.Credentials

	loadErr error
	saves   int
	clears  int
}

var _ store.CredentialStore = (*memCredStore)(nil)

func (m *memCredStore) Load(context.Context) (store.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return store.Credentials{}, m.loadErr
	}
	return m.creds, nil
}

func (m *memCredStore) Save(_ context.Context, c store.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = c
	m.saves++
	return nil
}

func (m *memCredStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = store.Credentials{}
	m.clears++
	return nil
}

func (m *memCredStore) snapshot() store.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds
}
