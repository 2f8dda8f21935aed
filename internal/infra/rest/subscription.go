package rest

import (
	"context"
	"net/http"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/gateway"
)

// Compile-time check
var _ gateway.SubscriptionAPI = (*Client)(nil)

func (c *Client) Plans(ctx context.Context) ([]model.Plan, error) {
	var out struct {
		Plans []model.Plan `json:"plans"`
	}
	err := c.do(ctx, "subs.plans", http.MethodGet, "/api/v1/plans", nil, &out, requestOpts{})
	if err != nil {
		return nil, err
	}
	return out.Plans, nil
}

func (c *Client) Current(ctx context.Context) (*model.Subscription, error) {
	var out struct {
		Subscription *model.Subscription `json:"subscription"`
	}
	err := c.do(ctx, "subs.current", http.MethodGet, "/api/v1/subscriptions/current", nil, &out,
		requestOpts{authed: true})
	if err != nil {
		return nil, err
	}
	return out.Subscription, nil
}

func (c *Client) Checkout(ctx context.Context, planCode, idempotencyKey string) (*model.CheckoutIntent, error) {
	var out model.CheckoutIntent
	err := c.do(ctx, "subs.checkout", http.MethodPost, "/api/v1/subscriptions",
		map[string]string{"plan_code": planCode}, &out,
		requestOpts{authed: true, idemKey: idempotencyKey})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Upgrade(ctx context.Context, planCode, idempotencyKey string) (*model.CheckoutIntent, error) {
	var out model.CheckoutIntent
	err := c.do(ctx, "subs.upgrade", http.MethodPost, "/api/v1/subscriptions/upgrade",
		map[string]string{"plan_code": planCode}, &out,
		requestOpts{authed: true, idemKey: idempotencyKey})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Cancel(ctx context.Context) (*model.Subscription, error) {
	var out struct {
		Subscription *model.Subscription `json:"subscription"`
	}
	err := c.do(ctx, "subs.cancel", http.MethodDelete, "/api/v1/subscriptions/current", nil, &out,
		requestOpts{authed: true})
	if err != nil {
		return nil, err
	}
	return out.Subscription, nil
}
