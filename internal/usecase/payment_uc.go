package usecase

import (
	"context"
	"sync"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/gateway"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/logging"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// Checkout creates a subscription for planCode and returns the gateway
	// redirect to hand to the browser.
	Checkout(ctx context.Context, planCode string) (*model.CheckoutIntent, error)
	// Upgrade switches the active subscription; the intent carries the
	// prorated amount when the backend applied one.
	Upgrade(ctx context.Context, planCode string) (*model.CheckoutIntent, error)
	// Await polls the subscription's payment status to a terminal outcome.
	// At most one await runs at a time: starting a new one cancels the
	// previous session before its next query (last-start-wins).
	Await(ctx context.Context, subscriptionID string) (*model.PaymentOutcome, error)
	// CancelAwait halts the active polling session, if any. After it
	// returns, the cancelled Await call yields context.Canceled, never an
	// outcome.
	CancelAwait()
}

type paymentUC struct {
	subs   gateway.SubscriptionAPI
	poller *StatusPoller
	log    *zerolog.Logger

	mu     sync.Mutex
	active *pollSession // nil when idle
}

// pollSession identifies one Await run so a finished run only releases the
// slot if a newer session has not already superseded it.
type pollSession struct {
	cancel context.CancelFunc
}

func NewPaymentUseCase(subs gateway.SubscriptionAPI, poller *StatusPoller, log *zerolog.Logger) *paymentUC {
	return &paymentUC{subs: subs, poller: poller, log: log}
}

func (u *paymentUC) Checkout(ctx context.Context, planCode string) (*model.CheckoutIntent, error) {
	intent, err := u.subs.Checkout(ctx, planCode, uuid.NewString())
	if err != nil {
		return nil, err
	}
	u.log.Info().
		Str("plan_code", planCode).
		Str("subscription_id", intent.SubscriptionID).
		Int64("amount", intent.Amount).
		Msg("checkout created")
	return intent, nil
}

func (u *paymentUC) Upgrade(ctx context.Context, planCode string) (*model.CheckoutIntent, error) {
	intent, err := u.subs.Upgrade(ctx, planCode, uuid.NewString())
	if err != nil {
		return nil, err
	}
	u.log.Info().
		Str("plan_code", planCode).
		Str("subscription_id", intent.SubscriptionID).
		Bool("prorated", intent.Prorated).
		Msg("upgrade created")
	return intent, nil
}

func (u *paymentUC) Await(ctx context.Context, subscriptionID string) (*model.PaymentOutcome, error) {
	runCtx, sess := u.begin(ctx)
	defer u.finish(sess)

	sessID := ulid.Make().String()
	runCtx = logging.WithSessionID(runCtx, sessID)
	log := logging.With(runCtx, u.log)
	log.Debug().Str("subscription_id", subscriptionID).Msg("payment poll started")

	return u.poller.Run(runCtx, subscriptionID)
}

func (u *paymentUC) CancelAwait() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active != nil {
		u.active.cancel()
		u.active = nil
	}
}

// begin supersedes any active session and registers the new one.
func (u *paymentUC) begin(parent context.Context) (context.Context, *pollSession) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active != nil {
		u.active.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	sess := &pollSession{cancel: cancel}
	u.active = sess
	return ctx, sess
}

// finish releases the slot unless a newer session already took it.
func (u *paymentUC) finish(sess *pollSession) {
	sess.cancel()
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active == sess {
		u.active = nil
	}
}
