//go:build !integration

package usecase

// NextDelay exposes the backoff schedule to tests.
var NextDelay = nextDelay
