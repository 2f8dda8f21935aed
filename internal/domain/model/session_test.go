package model_test

import (
	"reflect"
	"testing"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
)

func TestReduce_AuthTransitions(t *testing.T) {
	user := &model.User{ID: "u-1", Email: "a@b.c"}

	t.Run("AuthStart sets loading and clears a previous error", func(t *testing.T) {
		s := model.NewSessionState()
		s.Err = "old failure"

		got := model.Reduce(s, model.AuthStart{})

		if !got.Loading {
			t.Error("expected loading=true")
		}
		if got.Err != "" {
			t.Errorf("expected error cleared, got %q", got.Err)
		}
	})

	t.Run("AuthSuccess commits user+token atomically regardless of prior state", func(t *testing.T) {
		states := []model.SessionState{
			model.NewSessionState(),
			{Loading: true, Err: "boom"},
			{User: &model.User{ID: "old"}, Token: "old-token", Authenticated: true},
		}
		for _, s := range states {
			got := model.Reduce(s, model.AuthSuccess{User: user, Token: "tok-1"})
			if !got.Authenticated {
				t.Error("expected authenticated=true")
			}
			if got.User != user || got.Token != "tok-1" {
				t.Error("expected user and token committed")
			}
			if got.Loading {
				t.Error("expected loading=false")
			}
			if got.Err != "" {
				t.Errorf("expected error=nil, got %q", got.Err)
			}
		}
	})

	t.Run("AuthError clears identity and records the message", func(t *testing.T) {
		s := model.Reduce(model.NewSessionState(), model.AuthSuccess{User: user, Token: "tok"})

		got := model.Reduce(s, model.AuthError{Message: "bad credentials"})

		if got.User != nil || got.Token != "" || got.Authenticated {
			t.Error("expected identity cleared")
		}
		if got.Err != "bad credentials" {
			t.Errorf("expected error recorded, got %q", got.Err)
		}
		if got.Loading {
			t.Error("expected loading=false")
		}
	})

	t.Run("AuthLogout resets to anonymous without an error", func(t *testing.T) {
		s := model.Reduce(model.NewSessionState(), model.AuthSuccess{User: user, Token: "tok"})

		got := model.Reduce(s, model.AuthLogout{})

		if got.User != nil || got.Token != "" || got.Authenticated || got.Loading || got.Err != "" {
			t.Errorf("expected clean anonymous state, got %+v", got)
		}
	})
}

func TestReduce_Pure(t *testing.T) {
	// Applying the same action to the same state twice must yield
	// structurally equal results and must not mutate the input.
	s := model.NewSessionState()
	s.Signup = model.FlowState{Step: model.StepVerification, Email: "x@y.z"}
	before := s

	a := model.SetFlowEmail{Flow: model.FlowLogin, Email: "l@y.z"}
	first := model.Reduce(s, a)
	second := model.Reduce(s, a)

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical results for repeated application")
	}
	if !reflect.DeepEqual(s, before) {
		t.Error("expected input state untouched")
	}
}

func TestReduce_FlowOrthogonality(t *testing.T) {
	s := model.NewSessionState()
	s = model.Reduce(s, model.SetFlowEmail{Flow: model.FlowLogin, Email: "login@y.z"})
	s = model.Reduce(s, model.SetFlowStep{Flow: model.FlowLogin, Step: model.StepVerification})
	s = model.Reduce(s, model.SetFlowEmail{Flow: model.FlowSignup, Email: "signup@y.z"})
	s = model.Reduce(s, model.SetFlowStep{Flow: model.FlowSignup, Step: model.StepVerification})

	t.Run("clearing signup leaves login untouched", func(t *testing.T) {
		got := model.Reduce(s, model.ClearFlow{Flow: model.FlowSignup})

		if got.Signup.Step != model.StepForm || got.Signup.Email != "" {
			t.Errorf("expected signup reset, got %+v", got.Signup)
		}
		if got.Login.Step != model.StepVerification || got.Login.Email != "login@y.z" {
			t.Errorf("expected login untouched, got %+v", got.Login)
		}
	})

	t.Run("clearing login leaves signup untouched", func(t *testing.T) {
		got := model.Reduce(s, model.ClearFlow{Flow: model.FlowLogin})

		if got.Login.Step != model.StepForm || got.Login.Email != "" {
			t.Errorf("expected login reset, got %+v", got.Login)
		}
		if got.Signup.Step != model.StepVerification || got.Signup.Email != "signup@y.z" {
			t.Errorf("expected signup untouched, got %+v", got.Signup)
		}
	})

	t.Run("mutating password reset never touches email change", func(t *testing.T) {
		got := model.Reduce(s, model.SetFlowEmail{Flow: model.FlowPasswordReset, Email: "r@y.z"})

		if got.EmailChange != s.EmailChange {
			t.Error("expected email-change flow untouched")
		}
	})
}

func TestReduce_UnknownInputsAreIdentity(t *testing.T) {
	s := model.NewSessionState()
	s = model.Reduce(s, model.AuthSuccess{User: &model.User{ID: "u"}, Token: "t"})

	t.Run("nil action", func(t *testing.T) {
		if got := model.Reduce(s, nil); !reflect.DeepEqual(got, s) {
			t.Error("expected state unchanged")
		}
	})

	t.Run("unknown flow tag", func(t *testing.T) {
		got := model.Reduce(s, model.SetFlowStep{Flow: model.Flow("weird"), Step: model.StepVerification})
		if !reflect.DeepEqual(got, s) {
			t.Error("expected state unchanged")
		}
	})
}
