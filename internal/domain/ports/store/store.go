package store

import (
	"context"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
)

// Credentials is the persisted session material: two tokens and the serialized
// user record. The zero value means "no session".
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *model.User
}

func (c Credentials) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == "" && c.User == nil
}

// CredentialStore is the port over the persisted credential slots. Core logic
// only ever sees this interface, never the backing medium, so it is testable
// without touching the filesystem.
type CredentialStore interface {
	// Load returns the zero Credentials (not an error) when nothing is stored.
	Load(ctx context.Context) (Credentials, error)
	// Save overwrites all slots atomically.
	Save(ctx context.Context, c Credentials) error
	// Clear removes every slot. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// FlowStateStore persists the per-flow (step, email) pairs so an interrupted
// verification flow can resume in a later process. Authenticated flows key by
// account email so accounts never see each other's state; flows that begin
// before sign-in use a reserved account key, since the process has no email
// of its own yet.
type FlowStateStore interface {
	SetFlow(ctx context.Context, account string, flow model.Flow, state model.FlowState) error
	GetFlows(ctx context.Context, account string) (map[model.Flow]model.FlowState, error)
	ClearFlow(ctx context.Context, account string, flow model.Flow) error
}
