package rest

import (
	"context"
	"net/http"

	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/gateway"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"
)

// Compile-time check
var _ gateway.AuthAPI = (*Client)(nil)

type sessionResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	OTPRequired  bool        `json:"otp_required"`
}

func (r *sessionResponse) result() *gateway.LoginResult {
	return &gateway.LoginResult{
		User:         r.User,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		RequiresOTP:  r.OTPRequired,
	}
}

// persistOnSuccess writes the returned tokens + user into the credential
// store. OTP-gated answers carry no tokens and persist nothing.
func (c *Client) persistOnSuccess(ctx context.Context, res *gateway.LoginResult) error {
	if res.RequiresOTP || res.AccessToken == "" {
		return nil
	}
	return c.creds.Save(ctx, store.Credentials{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.User,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*gateway.LoginResult, error) {
	var out sessionResponse
	err := c.do(ctx, "auth.login", http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": password}, &out, requestOpts{})
	if err != nil {
		return nil, err
	}
	res := out.result()
	if err := c.persistOnSuccess(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) VerifyLoginOTP(ctx context.Context, email, code string) (*gateway.LoginResult, error) {
	var out sessionResponse
	err := c.do(ctx, "auth.login_verify", http.MethodPost, "/api/v1/auth/login/verify",
		map[string]string{"email": email, "code": code}, &out, requestOpts{})
	if err != nil {
		return nil, err
	}
	res := out.result()
	if err := c.persistOnSuccess(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ResendLoginOTP(ctx context.Context, email string) error {
	return c.do(ctx, "auth.login_resend", http.MethodPost, "/api/v1/auth/login/resend",
		map[string]string{"email": email}, nil, requestOpts{statusOnly: true})
}

func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, "auth.signup", http.MethodPost, "/api/v1/auth/signup",
		map[string]string{"name": name, "email": email, "password": password}, nil,
		requestOpts{statusOnly: true})
}

func (c *Client) VerifySignupOTP(ctx context.Context, email, code string) (*gateway.LoginResult, error) {
	var out sessionResponse
	err := c.do(ctx, "auth.signup_verify", http.MethodPost, "/api/v1/auth/signup/verify",
		map[string]string{"email": email, "code": code}, &out, requestOpts{})
	if err != nil {
		return nil, err
	}
	res := out.result()
	if err := c.persistOnSuccess(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ResendSignupOTP(ctx context.Context, email string) error {
	return c.do(ctx, "auth.signup_resend", http.MethodPost, "/api/v1/auth/signup/resend",
		map[string]string{"email": email}, nil, requestOpts{statusOnly: true})
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, "auth.password_reset", http.MethodPost, "/api/v1/auth/password-reset",
		map[string]string{"email": email}, nil, requestOpts{statusOnly: true})
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	return c.do(ctx, "auth.password_reset_confirm", http.MethodPost, "/api/v1/auth/password-reset/confirm",
		map[string]string{"email": email, "code": code, "new_password": newPassword}, nil,
		requestOpts{statusOnly: true})
}

func (c *Client) RequestEmailChange(ctx context.Context, newEmail string) error {
	return c.do(ctx, "auth.email_change", http.MethodPost, "/api/v1/auth/email-change",
		map[string]string{"new_email": newEmail}, nil, requestOpts{authed: true, statusOnly: true})
}

func (c *Client) ConfirmEmailChange(ctx context.Context, newEmail, code string) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	err := c.do(ctx, "auth.email_change_confirm", http.MethodPost, "/api/v1/auth/email-change/confirm",
		map[string]string{"new_email": newEmail, "code": code}, &out, requestOpts{authed: true})
	if err != nil {
		return nil, err
	}
	// Keep the persisted user in step with the confirmed address.
	if out.User != nil {
		if creds, err := c.creds.Load(ctx); err == nil && !creds.IsZero() {
			creds.User = out.User
			_ = c.creds.Save(ctx, creds)
		}
	}
	return out.User, nil
}

func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	err := c.do(ctx, "auth.profile", http.MethodGet, "/api/v1/auth/profile", nil, &out,
		requestOpts{authed: true})
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "auth.logout", http.MethodPost, "/api/v1/auth/logout", nil, nil,
		requestOpts{authed: true, statusOnly: true})
}
