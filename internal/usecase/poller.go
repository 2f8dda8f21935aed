package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/MyAirVault/BruhMCP-sub002/internal/config"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/model"
	"github.com/MyAirVault/BruhMCP-sub002/internal/domain/ports/gateway"
	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// StatusPoller drives one payment flow from "submitted" to a terminal outcome
// by querying the status endpoint until the server settles, the attempt
// budget runs out, or the caller cancels.
//
// Queries are strictly sequential: the next one is only scheduled after the
// previous settles. The wait between attempts follows either the server's
// polling hint or a local exponential schedule capped at MaxInterval.
type StatusPoller struct {
	api gateway.PaymentStatusAPI
	cfg config.PollingConfig
	log *zerolog.Logger
}

func NewStatusPoller(api gateway.PaymentStatusAPI, cfg config.PollingConfig, log *zerolog.Logger) *StatusPoller {
	return &StatusPoller{api: api, cfg: cfg, log: log}
}

// nextDelay is the wait after the attempt-th query (1-based) when the server
// gave no interval hint: initial * multiplier^(attempt-1), capped at
// MaxInterval. Pure, so the growth curve is testable without timers.
func nextDelay(cfg config.PollingConfig, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(cfg.InitialInterval) * math.Pow(cfg.BackoffMultiplier, float64(attempt-1))
	if max := float64(cfg.MaxInterval); d > max {
		d = max
	}
	return time.Duration(d)
}

// Run polls subscriptionID until resolution. It returns:
//   - an outcome and nil error on any terminal status or server stop signal
//     (Succeeded tells success from failure),
//   - domain.ErrVerificationTimeout when the attempt count or wall-clock
//     budget is exhausted while still pending,
//   - the query error itself when the session is gone (expired or not
//     authenticated); retrying cannot recover those,
//   - ctx.Err() when cancelled; a cancelled run never yields an outcome.
//
// Transient query errors consume an attempt and are retried on the same
// schedule. Unknown status strings keep the poll alive so newer server
// statuses do not break older clients.
func (p *StatusPoller) Run(ctx context.Context, subscriptionID string) (*model.PaymentOutcome, error) {
	start := time.Now()
	deadline := start.Add(p.cfg.TotalTimeout)
	maxAttempts := p.cfg.MaxAttempts
	attempt := 0

	resolve := func(report *model.StatusReport, stopped bool) (*model.PaymentOutcome, error) {
		out := &model.PaymentOutcome{
			SubscriptionID: report.SubscriptionID,
			Status:         report.Status,
			PaymentID:      report.PaymentID,
			Message:        report.Message,
			Succeeded:      report.Status.Terminal() && report.Status.Succeeded(),
			Attempts:       attempt,
			Elapsed:        time.Since(start),
		}
		if stopped && !report.Status.Terminal() && out.Message == "" {
			out.Message = domain.ErrVerificationStopped.Error()
		}
		label := "failure"
		if out.Succeeded {
			label = "success"
		}
		metrics.ObservePollOutcome(label, out.Elapsed.Seconds())
		p.log.Info().
			Str("subscription_id", subscriptionID).
			Str("status", string(out.Status)).
			Int("attempts", attempt).
			Bool("succeeded", out.Succeeded).
			Msg("payment poll resolved")
		return out, nil
	}

	for {
		report, err := p.api.PaymentStatus(ctx, subscriptionID)
		if ctx.Err() != nil {
			metrics.ObservePollOutcome("cancelled", time.Since(start).Seconds())
			return nil, ctx.Err()
		}
		attempt++

		var wait time.Duration
		switch {
		case err != nil:
			metrics.IncPollQuery("error")
			if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrNotAuthenticated) {
				// No amount of retrying brings the session back.
				metrics.ObservePollOutcome("failure", time.Since(start).Seconds())
				p.log.Warn().Err(err).Int("attempt", attempt).Msg("session lost during payment poll")
				return nil, err
			}
			p.log.Warn().Err(err).Int("attempt", attempt).Msg("status query failed; retrying")
			wait = nextDelay(p.cfg, attempt)
		default:
			if h := report.Hint; h != nil {
				if h.MaxAttempts > 0 {
					maxAttempts = h.MaxAttempts
				}
				if h.Timeout > 0 {
					deadline = start.Add(h.Timeout)
				}
				if h.Continue != nil && !*h.Continue {
					metrics.IncPollQuery("terminal")
					return resolve(report, true)
				}
			}
			if report.Status.Terminal() {
				metrics.IncPollQuery("terminal")
				return resolve(report, false)
			}
			metrics.IncPollQuery("pending")
			wait = nextDelay(p.cfg, attempt)
			if report.Hint != nil && report.Hint.Interval > 0 {
				wait = report.Hint.Interval
			}
		}

		if attempt >= maxAttempts {
			metrics.ObservePollOutcome("timeout", time.Since(start).Seconds())
			return nil, domain.ErrVerificationTimeout
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			metrics.ObservePollOutcome("timeout", time.Since(start).Seconds())
			return nil, domain.ErrVerificationTimeout
		}
		if wait > remaining {
			wait = remaining
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.ObservePollOutcome("cancelled", time.Since(start).Seconds())
			return nil, ctx.Err()
		case <-timer.C:
		}
		if !time.Now().Before(deadline) {
			metrics.ObservePollOutcome("timeout", time.Since(start).Seconds())
			return nil, domain.ErrVerificationTimeout
		}
	}
}
