package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/gateway"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/logging"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ AuthUseCase = (*authUC)(nil)

// AuthUseCase owns the session state machine and every identity flow. All
// state changes go through model.Reduce under a single mutex; callers only
// ever see snapshots.
type AuthUseCase interface {
	// State returns a snapshot of the current session state.
	State() model.SessionState

	// Initialize restores a persisted session: if a token and user are
	// stored, the profile endpoint validates them. Validation that fails or
	// hangs past the watchdog purges the stored session and lands on
	// anonymous. Never returns an error; startup must not wedge on auth.
	Initialize(ctx context.Context)

	Login(ctx context.Context, email, password string) error
	VerifyLoginOTP(ctx context.Context, code string) error
	ResendLoginOTP(ctx context.Context) error

	Signup(ctx context.Context, name, email, password string) error
	VerifySignupOTP(ctx context.Context, code string) error
	ResendSignupOTP(ctx context.Context) error

	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error

	RequestEmailChange(ctx context.Context, newEmail string) error
	ConfirmEmailChange(ctx context.Context, code string) error

	Logout(ctx context.Context) error

	// ForceLogout drops to anonymous without calling the backend; wired to
	// the REST client's session-expiry hook.
	ForceLogout()
}

// anonymousAccount keys the pre-auth verification flows (signup, login OTP,
// password reset) in the flow-state store. Those flows start before any user
// is signed in, so there is no account email to key them by; the email the
// OTP went to lives inside the stored FlowState itself.
const anonymousAccount = "_anonymous"

type authUC struct {
	api         gateway.AuthAPI
	creds       store.CredentialStore
	flows       store.FlowStateStore
	initTimeout time.Duration
	dev         bool
	log         *zerolog.Logger

	mu    sync.RWMutex
	state model.SessionState
}

func NewAuthUseCase(api gateway.AuthAPI, creds store.CredentialStore, flows store.FlowStateStore, initTimeout time.Duration, dev bool, log *zerolog.Logger) *authUC {
	if initTimeout <= 0 {
		initTimeout = 10 * time.Second
	}
	return &authUC{
		api:         api,
		creds:       creds,
		flows:       flows,
		initTimeout: initTimeout,
		dev:         dev,
		log:         log,
		state:       model.NewSessionState(),
	}
}

func (u *authUC) State() model.SessionState {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.state
}

// dispatch applies one action through the reducer. Unrecognized actions are
// identity transitions; they are logged here, never fatal.
func (u *authUC) dispatch(a model.Action) {
	label := actionLabel(a)
	if label == "unknown" {
		u.log.Warn().Type("action", a).Msg("unknown session action ignored")
	}
	metrics.IncAuthTransition(label)

	u.mu.Lock()
	u.state = model.Reduce(u.state, a)
	u.mu.Unlock()
}

func actionLabel(a model.Action) string {
	switch a.(type) {
	case model.AuthStart:
		return "auth_start"
	case model.AuthSuccess:
		return "auth_success"
	case model.AuthError:
		return "auth_error"
	case model.AuthLogout:
		return "auth_logout"
	case model.SetFlowStep:
		return "flow_step"
	case model.SetFlowEmail:
		return "flow_email"
	case model.ClearFlow:
		return "flow_clear"
	default:
		return "unknown"
	}
}

func (u *authUC) Initialize(ctx context.Context) {
	u.dispatch(model.AuthStart{})

	creds, err := u.creds.Load(ctx)
	if err != nil {
		u.log.Warn().Err(err).Msg("credential load failed; starting anonymous")
		u.dispatch(model.AuthLogout{})
		u.restoreFlows(ctx, anonymousAccount)
		return
	}
	if creds.AccessToken == "" || creds.User.IsZero() {
		u.dispatch(model.AuthLogout{})
		// An interrupted signup/login/reset resumes even without a session.
		u.restoreFlows(ctx, anonymousAccount)
		return
	}

	// Watchdog: a hung backend must not leave the session loading forever.
	vctx, cancel := context.WithTimeout(ctx, u.initTimeout)
	defer cancel()

	user, err := u.api.Profile(vctx)
	if err != nil || user.IsZero() {
		u.log.Info().Err(err).
			Str("account", logging.RedactEmail(creds.User.Email, u.dev)).
			Msg("stored session invalid; purging")
		_ = u.creds.Clear(ctx)
		u.dispatch(model.AuthLogout{})
		u.restoreFlows(ctx, anonymousAccount)
		return
	}

	u.dispatch(model.AuthSuccess{User: user, Token: creds.AccessToken})
	u.restoreFlows(ctx, user.Email)
	u.log.Info().Str("account", logging.RedactEmail(user.Email, u.dev)).Msg("session restored")
}

// signIn commits a token exchange as the authenticated session. A response
// carrying tokens but no user record would leave the console dereferencing a
// nil user later, so it is rejected here instead of dispatched.
func (u *authUC) signIn(res *gateway.LoginResult) error {
	if res.User.IsZero() {
		err := domain.ErrMalformedResponse
		u.log.Error().Msg("token response carried no user record")
		u.dispatch(model.AuthError{Message: UserMessage(err)})
		return err
	}
	u.dispatch(model.AuthSuccess{User: res.User, Token: res.AccessToken})
	return nil
}

// restoreFlows reloads any persisted in-progress verification flows.
func (u *authUC) restoreFlows(ctx context.Context, account string) {
	flows, err := u.flows.GetFlows(ctx, account)
	if err != nil {
		u.log.Debug().Err(err).Msg("flow-state restore failed")
		return
	}
	for f, fs := range flows {
		u.dispatch(model.SetFlowStep{Flow: f, Step: fs.Step})
		u.dispatch(model.SetFlowEmail{Flow: f, Email: fs.Email})
	}
}

func (u *authUC) saveFlow(ctx context.Context, account string, flow model.Flow) {
	fs := u.State().FlowStateOf(flow)
	if err := u.flows.SetFlow(ctx, account, flow, fs); err != nil {
		u.log.Debug().Err(err).Str("flow", string(flow)).Msg("flow-state persist failed")
	}
}

func (u *authUC) clearFlow(ctx context.Context, account string, flow model.Flow) {
	u.dispatch(model.ClearFlow{Flow: flow})
	if err := u.flows.ClearFlow(ctx, account, flow); err != nil {
		u.log.Debug().Err(err).Str("flow", string(flow)).Msg("flow-state clear failed")
	}
}

// ===== Login =====

func (u *authUC) Login(ctx context.Context, email, password string) error {
	u.dispatch(model.AuthStart{})

	res, err := u.api.Login(ctx, email, password)
	if err != nil {
		u.dispatch(model.AuthError{Message: UserMessage(err)})
		return err
	}
	if res.RequiresOTP {
		// Still anonymous; drop loading and park the flow at verification.
		u.dispatch(model.AuthLogout{})
		u.dispatch(model.SetFlowEmail{Flow: model.FlowLogin, Email: email})
		u.dispatch(model.SetFlowStep{Flow: model.FlowLogin, Step: model.StepVerification})
		u.saveFlow(ctx, anonymousAccount, model.FlowLogin)
		return nil
	}
	if err := u.signIn(res); err != nil {
		return err
	}
	u.clearFlow(ctx, anonymousAccount, model.FlowLogin)
	return nil
}

func (u *authUC) VerifyLoginOTP(ctx context.Context, code string) error {
	email := u.State().Login.Email
	if email == "" {
		return domain.ErrInvalidArgument
	}
	u.dispatch(model.AuthStart{})

	res, err := u.api.VerifyLoginOTP(ctx, email, code)
	if err != nil {
		u.dispatch(model.AuthError{Message: UserMessage(err)})
		return err
	}
	if err := u.signIn(res); err != nil {
		return err
	}
	u.clearFlow(ctx, anonymousAccount, model.FlowLogin)
	return nil
}

func (u *authUC) ResendLoginOTP(ctx context.Context) error {
	email := u.State().Login.Email
	if email == "" {
		return domain.ErrInvalidArgument
	}
	return u.api.ResendLoginOTP(ctx, email)
}

// ===== Signup =====

func (u *authUC) Signup(ctx context.Context, name, email, password string) error {
	if err := u.api.Signup(ctx, name, email, password); err != nil {
		return err
	}
	u.dispatch(model.SetFlowEmail{Flow: model.FlowSignup, Email: email})
	u.dispatch(model.SetFlowStep{Flow: model.FlowSignup, Step: model.StepVerification})
	u.saveFlow(ctx, anonymousAccount, model.FlowSignup)
	return nil
}

func (u *authUC) VerifySignupOTP(ctx context.Context, code string) error {
	email := u.State().Signup.Email
	if email == "" {
		return domain.ErrInvalidArgument
	}
	u.dispatch(model.AuthStart{})

	res, err := u.api.VerifySignupOTP(ctx, email, code)
	if err != nil {
		u.dispatch(model.AuthError{Message: UserMessage(err)})
		return err
	}
	if err := u.signIn(res); err != nil {
		return err
	}
	u.clearFlow(ctx, anonymousAccount, model.FlowSignup)
	return nil
}

func (u *authUC) ResendSignupOTP(ctx context.Context) error {
	email := u.State().Signup.Email
	if email == "" {
		return domain.ErrInvalidArgument
	}
	return u.api.ResendSignupOTP(ctx, email)
}

// ===== Password reset =====

func (u *authUC) RequestPasswordReset(ctx context.Context, email string) error {
	if err := u.api.RequestPasswordReset(ctx, email); err != nil {
		return err
	}
	u.dispatch(model.SetFlowEmail{Flow: model.FlowPasswordReset, Email: email})
	u.dispatch(model.SetFlowStep{Flow: model.FlowPasswordReset, Step: model.StepVerification})
	u.saveFlow(ctx, anonymousAccount, model.FlowPasswordReset)
	return nil
}

func (u *authUC) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	email := u.State().PasswordReset.Email
	if email == "" {
		return domain.ErrInvalidArgument
	}
	if err := u.api.ConfirmPasswordReset(ctx, email, code, newPassword); err != nil {
		return err
	}
	u.clearFlow(ctx, anonymousAccount, model.FlowPasswordReset)
	return nil
}

// ===== Email change =====

func (u *authUC) RequestEmailChange(ctx context.Context, newEmail string) error {
	st := u.State()
	if !st.Authenticated {
		return domain.ErrNotAuthenticated
	}
	if err := u.api.RequestEmailChange(ctx, newEmail); err != nil {
		return err
	}
	u.dispatch(model.SetFlowEmail{Flow: model.FlowEmailChange, Email: newEmail})
	u.dispatch(model.SetFlowStep{Flow: model.FlowEmailChange, Step: model.StepVerification})
	u.saveFlow(ctx, st.User.Email, model.FlowEmailChange)
	return nil
}

func (u *authUC) ConfirmEmailChange(ctx context.Context, code string) error {
	st := u.State()
	if !st.Authenticated {
		return domain.ErrNotAuthenticated
	}
	newEmail := st.EmailChange.Email
	if newEmail == "" {
		return domain.ErrInvalidArgument
	}
	user, err := u.api.ConfirmEmailChange(ctx, newEmail, code)
	if err != nil {
		return err
	}
	if user.IsZero() {
		// Server confirmed but omitted the record; apply the change locally.
		upd := *st.User
		upd.Email = newEmail
		user = &upd
	}
	u.dispatch(model.AuthSuccess{User: user, Token: st.Token})
	u.clearFlow(ctx, st.User.Email, model.FlowEmailChange)
	return nil
}

// ===== Logout =====

func (u *authUC) Logout(ctx context.Context) error {
	// Best effort server-side; local state clears regardless.
	if err := u.api.Logout(ctx); err != nil {
		u.log.Debug().Err(err).Msg("server logout failed")
	}
	if err := u.creds.Clear(ctx); err != nil {
		u.log.Warn().Err(err).Msg("credential clear failed")
	}
	u.dispatch(model.AuthLogout{})
	return nil
}

func (u *authUC) ForceLogout() {
	u.dispatch(model.AuthLogout{})
}

// UserMessage maps the error taxonomy to what the user should read:
// validation and terminal errors verbatim, transport problems as a generic
// connectivity hint, session loss as a re-login prompt.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, domain.ErrNetwork):
		return "Could not reach the server. Check your connection and try again."
	case errors.Is(err, domain.ErrVerificationTimeout):
		return "Payment verification timed out. Your payment may still be processing; check your subscription status shortly."
	}
	var uf interface{ UserFacingMessage() string }
	if errors.As(err, &uf) && uf.UserFacingMessage() != "" {
		return uf.UserFacingMessage()
	}
	return "Something went wrong. Please try again."
}
