package usecase

import (
	"context"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/gateway"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	Plans(ctx context.Context) ([]model.Plan, error)
	// Current returns ErrNoActiveSubscription when the account has none.
	Current(ctx context.Context) (*model.Subscription, error)
	Cancel(ctx context.Context) (*model.Subscription, error)
}

type subscriptionUC struct {
	api gateway.SubscriptionAPI
	log *zerolog.Logger
}

func NewSubscriptionUseCase(api gateway.SubscriptionAPI, log *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{api: api, log: log}
}

func (u *subscriptionUC) Plans(ctx context.Context) ([]model.Plan, error) {
	return u.api.Plans(ctx)
}

func (u *subscriptionUC) Current(ctx context.Context) (*model.Subscription, error) {
	sub, err := u.api.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sub.IsZero() || sub.Status == model.SubscriptionStatusNone {
		return nil, domain.ErrNoActiveSubscription
	}
	return sub, nil
}

func (u *subscriptionUC) Cancel(ctx context.Context) (*model.Subscription, error) {
	sub, err := u.api.Cancel(ctx)
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("subscription_id", sub.ID).Msg("subscription cancelled")
	return sub, nil
}
