package store

import (
	"context"
	"sync"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"
)

var _ store.FlowStateStore = (*MemoryFlowStore)(nil)

// MemoryFlowStore is the in-process fallback used when no Redis is
// configured. Flow resume then only works within one console run.
type MemoryFlowStore struct {
	mu    sync.RWMutex
	flows map[string]map[model.Flow]model.FlowState
}

func NewMemoryFlowStore() *MemoryFlowStore {
	return &MemoryFlowStore{flows: make(map[string]map[model.Flow]model.FlowState)}
}

func (m *MemoryFlowStore) SetFlow(_ context.Context, account string, flow model.Flow, state model.FlowState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.flows[account] == nil {
		m.flows[account] = make(map[model.Flow]model.FlowState)
	}
	m.flows[account][flow] = state
	return nil
}

func (m *MemoryFlowStore) GetFlows(_ context.Context, account string) (map[model.Flow]model.FlowState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.Flow]model.FlowState, len(m.flows[account]))
	for f, s := range m.flows[account] {
		out[f] = s
	}
	return out, nil
}

func (m *MemoryFlowStore) ClearFlow(_ context.Context, account string, flow model.Flow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows[account], flow)
	return nil
}
