package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"

	"github.com/go-redis/redis/v8"
)

var _ store.FlowStateStore = (*FlowStateRepo)(nil)

// FlowStateRepo keeps each account's in-progress verification flows in Redis
// so a half-finished signup or password reset survives a console restart.
// Entries expire after the TTL; an OTP older than that is dead anyway.
type FlowStateRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewFlowStateRepo(client RedisClient, ttl time.Duration) *FlowStateRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &FlowStateRepo{client: client, ttl: ttl}
}

func (r *FlowStateRepo) flowKey(account string, flow model.Flow) string {
	return fmt.Sprintf("flow_state:%s:%s", account, flow)
}

func (r *FlowStateRepo) SetFlow(ctx context.Context, account string, flow model.Flow, state model.FlowState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.flowKey(account, flow), data, r.ttl)
}

func (r *FlowStateRepo) GetFlows(ctx context.Context, account string) (map[model.Flow]model.FlowState, error) {
	flows := map[model.Flow]model.FlowState{}
	for _, f := range []model.Flow{model.FlowSignup, model.FlowLogin, model.FlowPasswordReset, model.FlowEmailChange} {
		data, err := r.client.Get(ctx, r.flowKey(account, f))
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var fs model.FlowState
		if err := json.Unmarshal([]byte(data), &fs); err != nil {
			continue // stale format; treat as absent
		}
		flows[f] = fs
	}
	return flows, nil
}

func (r *FlowStateRepo) ClearFlow(ctx context.Context, account string, flow model.Flow) error {
	return r.client.Del(ctx, r.flowKey(account, flow))
}
