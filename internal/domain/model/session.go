package model

// Flow identifies one of the independent verification sub-flows. Each flow
// owns its (step, email) pair; transitions on one flow never touch another.
type Flow string

const (
	FlowSignup        Flow = "signup"
	FlowLogin         Flow = "login"
	FlowPasswordReset Flow = "password_reset"
	FlowEmailChange   Flow = "email_change"
)

// FlowStep is the two-state progress marker of a verification flow.
type FlowStep string

const (
	StepForm         FlowStep = "form"         // collecting credentials / details
	StepVerification FlowStep = "verification" // waiting for the emailed OTP
)

// FlowState is the per-flow sub-state: how far the flow has progressed and
// which email address the pending OTP was sent to.
type FlowState struct {
	Step  FlowStep `json:"step"`
	Email string   `json:"email"`
}

// SessionState is the single authoritative snapshot of the auth session.
// It is a value type: Reduce copies it, so held snapshots never mutate.
type SessionState struct {
	User          *User
	Token         string
	Authenticated bool
	Loading       bool
	Err           string

	Signup        FlowState
	Login         FlowState
	PasswordReset FlowState
	EmailChange   FlowState
}

// NewSessionState returns the anonymous initial state with every flow at its
// form step.
func NewSessionState() SessionState {
	return SessionState{
		Signup:        FlowState{Step: StepForm},
		Login:         FlowState{Step: StepForm},
		PasswordReset: FlowState{Step: StepForm},
		EmailChange:   FlowState{Step: StepForm},
	}
}

// Action is a sealed set of session transitions. Only types in this package
// implement it, which keeps Reduce's type switch exhaustive.
type Action interface{ isAction() }

type AuthStart struct{}

// AuthSuccess commits user, token, authenticated=true, loading=false and a
// cleared error in one transition.
type AuthSuccess struct {
	User  *User
	Token string
}

type AuthError struct{ Message string }

type AuthLogout struct{}

type SetFlowStep struct {
	Flow Flow
	Step FlowStep
}

type SetFlowEmail struct {
	Flow  Flow
	Email string
}

// ClearFlow resets one flow's (step, email) pair to its initial value.
type ClearFlow struct{ Flow Flow }

func (AuthStart) isAction()    {}
func (AuthSuccess) isAction()  {}
func (AuthError) isAction()    {}
func (AuthLogout) isAction()   {}
func (SetFlowStep) isAction()  {}
func (SetFlowEmail) isAction() {}
func (ClearFlow) isAction()    {}

// Reduce is the session transition function. It is total and pure: same state
// plus same action always yields the same result, nothing is mutated in place,
// and there is no error path. A nil or unrecognized action is identity; the
// owning store logs those, the reducer stays silent.
func Reduce(s SessionState, a Action) SessionState {
	switch act := a.(type) {
	case AuthStart:
		s.Loading = true
		s.Err = ""
	case AuthSuccess:
		s.User = act.User
		s.Token = act.Token
		s.Authenticated = true
		s.Loading = false
		s.Err = ""
	case AuthError:
		s.User = nil
		s.Token = ""
		s.Authenticated = false
		s.Loading = false
		s.Err = act.Message
	case AuthLogout:
		s.User = nil
		s.Token = ""
		s.Authenticated = false
		s.Loading = false
		s.Err = ""
	case SetFlowStep:
		fs := s.flow(act.Flow)
		if fs != nil {
			fs.Step = act.Step
		}
	case SetFlowEmail:
		fs := s.flow(act.Flow)
		if fs != nil {
			fs.Email = act.Email
		}
	case ClearFlow:
		fs := s.flow(act.Flow)
		if fs != nil {
			*fs = FlowState{Step: StepForm}
		}
	}
	return s
}

// flow resolves the sub-state for a flow tag on the (copied) receiver.
// Unknown tags return nil, which makes the flow actions no-ops.
func (s *SessionState) flow(f Flow) *FlowState {
	switch f {
	case FlowSignup:
		return &s.Signup
	case FlowLogin:
		return &s.Login
	case FlowPasswordReset:
		return &s.PasswordReset
	case FlowEmailChange:
		return &s.EmailChange
	default:
		return nil
	}
}

// FlowStateOf returns a copy of one flow's sub-state.
func (s SessionState) FlowStateOf(f Flow) FlowState {
	if fs := s.flow(f); fs != nil {
		return *fs
	}
	return FlowState{}
}
