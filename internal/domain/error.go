package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrSessionExpired       = errors.New("session expired")
	ErrNetwork              = errors.New("network unavailable")
	ErrMalformedResponse    = errors.New("malformed server response")
	ErrVerificationTimeout  = errors.New("payment verification timed out")
	ErrVerificationStopped  = errors.New("payment verification stopped by server")
	ErrNoActiveSubscription = errors.New("no active subscription")
)
