// Package lifecycle holds the process-wide drain flag read by the page server's
// health check.
package lifecycle

import "sync/atomic"

var shuttingDown atomic.Bool

// SetShuttingDown flips the drain flag. The page server sets it on SIGTERM/SIGINT
// so /health answers 503 shutting-down while in-flight submissions finish.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown reports whether the process is draining.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}
