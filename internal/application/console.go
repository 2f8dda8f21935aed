package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/usecase"

	"github.com/rs/zerolog"
)

// ConsoleFacade composes usecases into high-level console commands. Methods
// return display strings so the command loop just prints them.
type ConsoleFacade struct {
	AuthUC usecase.AuthUseCase
	SubUC  usecase.SubscriptionUseCase
	PayUC  usecase.PaymentUseCase
	log    *zerolog.Logger
}

func NewConsoleFacade(authUC usecase.AuthUseCase, subUC usecase.SubscriptionUseCase, payUC usecase.PaymentUseCase, log *zerolog.Logger) *ConsoleFacade {
	return &ConsoleFacade{AuthUC: authUC, SubUC: subUC, PayUC: payUC, log: log}
}

func (c *ConsoleFacade) HandleLogin(ctx context.Context, email, password string) (string, error) {
	if err := c.AuthUC.Login(ctx, email, password); err != nil {
		return "", err
	}
	st := c.AuthUC.State()
	if st.Login.Step == model.StepVerification {
		return fmt.Sprintf("A verification code was sent to %s. Enter it with: otp <code>", st.Login.Email), nil
	}
	return fmt.Sprintf("Signed in as %s.", st.User.Email), nil
}

func (c *ConsoleFacade) HandleVerifyLogin(ctx context.Context, code string) (string, error) {
	if err := c.AuthUC.VerifyLoginOTP(ctx, code); err != nil {
		return "", err
	}
	return fmt.Sprintf("Signed in as %s.", c.AuthUC.State().User.Email), nil
}

func (c *ConsoleFacade) HandleSignup(ctx context.Context, name, email, password string) (string, error) {
	if err := c.AuthUC.Signup(ctx, name, email, password); err != nil {
		return "", err
	}
	return fmt.Sprintf("Account created. A verification code was sent to %s. Enter it with: verify <code>", email), nil
}

func (c *ConsoleFacade) HandleVerifySignup(ctx context.Context, code string) (string, error) {
	if err := c.AuthUC.VerifySignupOTP(ctx, code); err != nil {
		return "", err
	}
	return fmt.Sprintf("Email verified. Signed in as %s.", c.AuthUC.State().User.Email), nil
}

func (c *ConsoleFacade) HandlePasswordReset(ctx context.Context, email string) (string, error) {
	if err := c.AuthUC.RequestPasswordReset(ctx, email); err != nil {
		return "", err
	}
	return fmt.Sprintf("A reset code was sent to %s. Finish with: confirm-reset <code> <new-password>", email), nil
}

func (c *ConsoleFacade) HandleConfirmPasswordReset(ctx context.Context, code, newPassword string) (string, error) {
	if err := c.AuthUC.ConfirmPasswordReset(ctx, code, newPassword); err != nil {
		return "", err
	}
	return "Password updated. Sign in with your new password.", nil
}

func (c *ConsoleFacade) HandleEmailChange(ctx context.Context, newEmail string) (string, error) {
	if err := c.AuthUC.RequestEmailChange(ctx, newEmail); err != nil {
		return "", err
	}
	return fmt.Sprintf("A confirmation code was sent to %s. Finish with: confirm-email <code>", newEmail), nil
}

func (c *ConsoleFacade) HandleConfirmEmailChange(ctx context.Context, code string) (string, error) {
	if err := c.AuthUC.ConfirmEmailChange(ctx, code); err != nil {
		return "", err
	}
	return fmt.Sprintf("Email updated to %s.", c.AuthUC.State().User.Email), nil
}

func (c *ConsoleFacade) HandleWhoami(_ context.Context) (string, error) {
	st := c.AuthUC.State()
	if !st.Authenticated {
		return "Not signed in.", nil
	}
	return fmt.Sprintf("%s (%s)", st.User.Name, st.User.Email), nil
}

func (c *ConsoleFacade) HandlePlans(ctx context.Context) (string, error) {
	plans, err := c.SubUC.Plans(ctx)
	if err != nil {
		return "", err
	}
	if len(plans) == 0 {
		return "No plans available right now.", nil
	}
	sb := strings.Builder{}
	sb.WriteString("Available plans:\n")
	for _, p := range plans {
		sb.WriteString(fmt.Sprintf("- %s (%s): %d days, %s\n",
			p.Name, p.Code, p.DurationDays, formatAmount(p.Amount, p.Currency)))
	}
	sb.WriteString("\nSubscribe with: subscribe <plan-code>")
	return sb.String(), nil
}

func (c *ConsoleFacade) HandleCurrent(ctx context.Context) (string, error) {
	sub, err := c.SubUC.Current(ctx)
	if errors.Is(err, domain.ErrNoActiveSubscription) {
		return "No active subscription.", nil
	}
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("Plan %s, status %s", sub.PlanCode, sub.Status)
	if sub.RenewsAt != nil {
		out += fmt.Sprintf(", renews %s", sub.RenewsAt.Format("2006-01-02"))
	}
	return out, nil
}

// HandleSubscribe runs the full checkout flow: create the subscription, show
// the payment URL, then poll to a terminal outcome.
func (c *ConsoleFacade) HandleSubscribe(ctx context.Context, planCode string, out io.Writer) (string, error) {
	intent, err := c.PayUC.Checkout(ctx, planCode)
	if err != nil {
		return "", err
	}
	return c.completeCheckout(ctx, intent, out)
}

// HandleUpgrade is HandleSubscribe for plan changes on an active
// subscription, with proration applied server-side.
func (c *ConsoleFacade) HandleUpgrade(ctx context.Context, planCode string, out io.Writer) (string, error) {
	intent, err := c.PayUC.Upgrade(ctx, planCode)
	if err != nil {
		return "", err
	}
	return c.completeCheckout(ctx, intent, out)
}

func (c *ConsoleFacade) completeCheckout(ctx context.Context, intent *model.CheckoutIntent, out io.Writer) (string, error) {
	if intent.PaymentURL == "" {
		// Zero-amount change; the status endpoint reports not_required.
		fmt.Fprintln(out, "No payment required; confirming...")
	} else {
		fmt.Fprintf(out, "Open this URL in your browser to pay %s:\n  %s\n",
			formatAmount(intent.Amount, intent.Currency), intent.PaymentURL)
		fmt.Fprintln(out, "Waiting for payment confirmation (Ctrl-C to stop)...")
	}

	outcome, err := c.PayUC.Await(ctx, intent.SubscriptionID)
	if err != nil {
		return "", err
	}
	if outcome.Succeeded {
		if outcome.PaymentID != "" {
			return fmt.Sprintf("Payment confirmed (payment %s). Subscription is active.", outcome.PaymentID), nil
		}
		return "Subscription is active.", nil
	}
	if outcome.Message != "" {
		return "", fmt.Errorf("payment %s: %s", outcome.Status, outcome.Message)
	}
	return "", fmt.Errorf("payment %s", outcome.Status)
}

func (c *ConsoleFacade) HandleCancelSubscription(ctx context.Context) (string, error) {
	sub, err := c.SubUC.Cancel(ctx)
	if err != nil {
		return "", err
	}
	if sub.ExpiresAt != nil {
		return fmt.Sprintf("Subscription cancelled; access continues until %s.", sub.ExpiresAt.Format("2006-01-02")), nil
	}
	return "Subscription cancelled.", nil
}

func (c *ConsoleFacade) HandleLogout(ctx context.Context) (string, error) {
	if err := c.AuthUC.Logout(ctx); err != nil {
		return "", err
	}
	return "Signed out.", nil
}

func formatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, strings.ToUpper(currency))
}

const helpText = `Commands:
  login <email> <password>        sign in
  otp <code>                      finish an OTP-gated login
  signup <name> <email> <pass>    create an account
  verify <code>                   finish signup verification
  reset <email>                   request a password reset
  confirm-reset <code> <newpass>  finish a password reset
  change-email <new-email>        request an email change
  confirm-email <code>            finish an email change
  whoami                          show the signed-in account
  plans                           list subscription plans
  current                         show the active subscription
  subscribe <plan-code>           buy a plan and wait for payment
  upgrade <plan-code>             switch plans (prorated)
  cancel-sub                      cancel the subscription
  logout                          sign out
  quit                            exit`

// Run is the interactive command loop. It returns when the input closes, the
// user quits, or ctx is cancelled.
func (c *ConsoleFacade) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	c.AuthUC.Initialize(ctx)
	if st := c.AuthUC.State(); st.Authenticated {
		fmt.Fprintf(out, "Signed in as %s.\n", st.User.Email)
	}
	fmt.Fprintln(out, `Type "help" for commands.`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "mcp> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return nil
		}

		msg, err := c.execute(ctx, cmd, args, out)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			fmt.Fprintln(out, "Error:", usecase.UserMessage(err))
			continue
		}
		if msg != "" {
			fmt.Fprintln(out, msg)
		}
	}
}

func (c *ConsoleFacade) execute(ctx context.Context, cmd string, args []string, out io.Writer) (string, error) {
	switch cmd {
	case "help":
		return helpText, nil
	case "login":
		if len(args) != 2 {
			return "usage: login <email> <password>", nil
		}
		return c.HandleLogin(ctx, args[0], args[1])
	case "otp":
		if len(args) != 1 {
			return "usage: otp <code>", nil
		}
		return c.HandleVerifyLogin(ctx, args[0])
	case "signup":
		if len(args) != 3 {
			return "usage: signup <name> <email> <password>", nil
		}
		return c.HandleSignup(ctx, args[0], args[1], args[2])
	case "verify":
		if len(args) != 1 {
			return "usage: verify <code>", nil
		}
		return c.HandleVerifySignup(ctx, args[0])
	case "reset":
		if len(args) != 1 {
			return "usage: reset <email>", nil
		}
		return c.HandlePasswordReset(ctx, args[0])
	case "confirm-reset":
		if len(args) != 2 {
			return "usage: confirm-reset <code> <new-password>", nil
		}
		return c.HandleConfirmPasswordReset(ctx, args[0], args[1])
	case "change-email":
		if len(args) != 1 {
			return "usage: change-email <new-email>", nil
		}
		return c.HandleEmailChange(ctx, args[0])
	case "confirm-email":
		if len(args) != 1 {
			return "usage: confirm-email <code>", nil
		}
		return c.HandleConfirmEmailChange(ctx, args[0])
	case "whoami":
		return c.HandleWhoami(ctx)
	case "plans":
		return c.HandlePlans(ctx)
	case "current":
		return c.HandleCurrent(ctx)
	case "subscribe":
		if len(args) != 1 {
			return "usage: subscribe <plan-code>", nil
		}
		return c.HandleSubscribe(ctx, args[0], out)
	case "upgrade":
		if len(args) != 1 {
			return "usage: upgrade <plan-code>", nil
		}
		return c.HandleUpgrade(ctx, args[0], out)
	case "cancel-sub":
		return c.HandleCancelSubscription(ctx)
	case "logout":
		return c.HandleLogout(ctx)
	default:
		return fmt.Sprintf("Unknown command %q. Type \"help\".", cmd), nil
	}
}
