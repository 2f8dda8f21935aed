//go:build !integration

package store_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	portstore "github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/store"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save then load round trip", func(t *testing.T) {
		// --- Arrange ---
		path := filepath.Join(t.TempDir(), "session.json")
		fs := store.NewFileStore(path)
		want := portstore.Credentials{
			AccessToken:  "tok-1",
			RefreshToken: "ref-1",
			User:         &model.User{ID: "u-1", Email: "a@b.c", Name: "Ada"},
		}

		// --- Act ---
		if err := fs.Save(ctx, want); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := fs.Load(ctx)

		// --- Assert ---
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
			t.Errorf("tokens = %+v, want %+v", got, want)
		}
		if got.User == nil || got.User.Email != "a@b.c" {
			t.Errorf("user = %+v, want %+v", got.User, want.User)
		}
	})

	t.Run("missing file is an empty session", func(t *testing.T) {
		fs := store.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

		got, err := fs.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !got.IsZero() {
			t.Errorf("expected zero credentials, got %+v", got)
		}
	})

	t.Run("corrupt file is an empty session", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}
		fs := store.NewFileStore(path)

		got, err := fs.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !got.IsZero() {
			t.Errorf("expected zero credentials, got %+v", got)
		}
	})

	t.Run("clear removes the file and is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		fs := store.NewFileStore(path)
		if err := fs.Save(ctx, portstore.Credentials{AccessToken: "tok-1"}); err != nil {
			t.Fatalf("save: %v", err)
		}

		if err := fs.Clear(ctx); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("expected the file gone, stat err = %v", err)
		}
		if err := fs.Clear(ctx); err != nil {
			t.Errorf("second clear: %v", err)
		}
	})

	t.Run("file is private to the owner", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("posix permission bits")
		}
		path := filepath.Join(t.TempDir(), "session.json")
		fs := store.NewFileStore(path)
		if err := fs.Save(ctx, portstore.Credentials{AccessToken: "tok-1"}); err != nil {
			t.Fatalf("save: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("perm = %o, want 600", perm)
		}
	})

	t.Run("save overwrites the previous session", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		fs := store.NewFileStore(path)
		_ = fs.Save(ctx, portstore.Credentials{AccessToken: "old", RefreshToken: "old-ref"})

		if err := fs.Save(ctx, portstore.Credentials{AccessToken: "new"}); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := fs.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.AccessToken != "new" || got.RefreshToken != "" {
			t.Errorf("expected a full overwrite, got %+v", got)
		}
	})
}

func TestMemoryFlowStore(t *testing.T) {
	ctx := context.Background()

	t.Run("flows are scoped per account", func(t *testing.T) {
		ms := store.NewMemoryFlowStore()
		state := model.FlowState{Step: model.StepVerification, Email: "a@b.c"}
		if err := ms.SetFlow(ctx, "a@b.c", model.FlowLogin, state); err != nil {
			t.Fatalf("set: %v", err)
		}

		got, err := ms.GetFlows(ctx, "a@b.c")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got[model.FlowLogin].Step != model.StepVerification {
			t.Errorf("unexpected flows %+v", got)
		}

		other, err := ms.GetFlows(ctx, "x@y.z")
		if err != nil {
			t.Fatalf("get other: %v", err)
		}
		if len(other) != 0 {
			t.Errorf("expected no flows for another account, got %+v", other)
		}
	})

	t.Run("clear removes only the named flow", func(t *testing.T) {
		ms := store.NewMemoryFlowStore()
		state := model.FlowState{Step: model.StepVerification, Email: "a@b.c"}
		_ = ms.SetFlow(ctx, "a@b.c", model.FlowLogin, state)
		_ = ms.SetFlow(ctx, "a@b.c", model.FlowSignup, state)

		if err := ms.ClearFlow(ctx, "a@b.c", model.FlowLogin); err != nil {
			t.Fatalf("clear: %v", err)
		}
		got, _ := ms.GetFlows(ctx, "a@b.c")
		if _, ok := got[model.FlowLogin]; ok {
			t.Error("login flow should be gone")
		}
		if _, ok := got[model.FlowSignup]; !ok {
			t.Error("signup flow should survive")
		}
	})
}
