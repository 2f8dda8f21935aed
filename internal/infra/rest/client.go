package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MyAirVault/BruhMCP-sub002/internal/config"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/store"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Client talks to the MCP backend JSON API. It owns bearer-token injection and
// the refresh exchange; endpoint groups (auth, subscriptions, payment status)
// are methods in their own files.
//
// Refresh is guarded by a singleflight group: a 401 from N concurrent requests
// produces exactly one token exchange, and every waiter sees its result. The
// store is only written from inside that single flight, so there is no
// last-writer-wins window between competing refreshes.
type Client struct {
	baseURL string
	http    *http.Client
	creds   store.CredentialStore
	leeway  time.Duration
	log     *zerolog.Logger

	refresh singleflight.Group

	// onSessionExpired fires after an unrecoverable 401 (refresh failed and
	// the store was purged). The session manager uses it to force logout.
	onSessionExpired func()
}

func NewClient(cfg config.APIConfig, creds store.CredentialStore, log *zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		creds:   creds,
		leeway:  cfg.RefreshLeeway,
		log:     log,
	}
}

// SetSessionExpiredHandler registers the forced-logout hook. Must be called
// before the client is shared across goroutines.
func (c *Client) SetSessionExpiredHandler(fn func()) { c.onSessionExpired = fn }

type requestOpts struct {
	authed     bool
	idemKey    string
	statusOnly bool // 2xx with no body expected
}

// do performs one JSON round trip. route is the metrics label, not the path.
func (c *Client) do(ctx context.Context, route, method, path string, in, out any, opts requestOpts) error {
	token := ""
	if opts.authed {
		var err error
		token, err = c.accessToken(ctx)
		if err != nil {
			return err
		}
	}

	resp, err := c.send(ctx, route, method, path, in, token, opts.idemKey)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && opts.authed {
		resp.Body.Close()
		token, err = c.refreshAccessToken(ctx, "unauthorized")
		if err != nil {
			return err
		}
		resp, err = c.send(ctx, route, method, path, in, token, opts.idemKey)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || opts.statusOnly {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", route, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, route, method, path string, in any, token, idemKey string) (*http.Response, error) {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", route, err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(route, 0, time.Since(start).Seconds())
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %v: %w", route, err, domain.ErrNetwork)
	}
	metrics.ObserveAPIRequest(route, resp.StatusCode, time.Since(start).Seconds())
	return resp, nil
}

// accessToken returns the current bearer token, refreshing proactively when it
// is about to expire. Returns ErrNotAuthenticated when no session exists.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	creds, err := c.creds.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	if creds.AccessToken == "" {
		return "", domain.ErrNotAuthenticated
	}
	if creds.RefreshToken != "" && expiringSoon(creds.AccessToken, c.leeway) {
		if tok, err := c.refreshAccessToken(ctx, "proactive"); err == nil {
			return tok, nil
		}
		// Fall through with the old token; the 401 path handles a dead one.
	}
	return creds.AccessToken, nil
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// refreshAccessToken exchanges the refresh token for a new pair. On a failed
// exchange the stored session is unrecoverable: the store is purged, the
// expiry hook fires, and ErrSessionExpired is returned.
func (c *Client) refreshAccessToken(ctx context.Context, trigger string) (string, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		creds, err := c.creds.Load(ctx)
		if err != nil {
			return "", fmt.Errorf("load credentials: %w", err)
		}
		if creds.RefreshToken == "" {
			return "", c.expireSession(ctx, errors.New("no refresh token"))
		}

		var out refreshResponse
		err = c.do(ctx, "auth.refresh", http.MethodPost, "/api/v1/auth/refresh",
			map[string]string{"refresh_token": creds.RefreshToken}, &out, requestOpts{})
		if err != nil {
			metrics.IncTokenRefresh(trigger, false)
			if errors.Is(err, domain.ErrNetwork) || errors.Is(err, context.Canceled) {
				return "", err // transient; keep the session
			}
			return "", c.expireSession(ctx, err)
		}

		creds.AccessToken = out.AccessToken
		if out.RefreshToken != "" {
			creds.RefreshToken = out.RefreshToken
		}
		if err := c.creds.Save(ctx, creds); err != nil {
			return "", fmt.Errorf("save refreshed credentials: %w", err)
		}
		metrics.IncTokenRefresh(trigger, true)
		c.log.Debug().Str("trigger", trigger).Msg("access token refreshed")
		return out.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) expireSession(ctx context.Context, cause error) error {
	c.log.Warn().Err(cause).Msg("session unrecoverable; clearing credentials")
	if err := c.creds.Clear(ctx); err != nil {
		c.log.Error().Err(err).Msg("clear credentials failed")
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	return fmt.Errorf("%v: %w", cause, domain.ErrSessionExpired)
}

// expiringSoon inspects the token's exp claim without verifying the signature;
// the server remains the authority, this only decides when to refresh early.
func expiringSoon(token string, leeway time.Duration) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < leeway
}
