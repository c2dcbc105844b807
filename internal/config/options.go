package config

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultRetry is the number of retries after the first attempt.
	DefaultRetry = 4

	// DefaultReadinessBackoff is the wait after a "please wait" answer.
	DefaultReadinessBackoff = 5000 * time.Millisecond

	// DefaultBusyBackoff is the wait after a text-file-busy launch failure.
	DefaultBusyBackoff = 500 * time.Millisecond

	// DefaultMaxOutput caps captured stdout and stderr, each.
	DefaultMaxOutput = 1000 * 1000 * 1000
)

// Options configures engine calls.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Cwd sets the working directory for the engine process.
	// Defaults to the caller's current working directory.
	Cwd string

	// EnginePath is an explicit engine binary path that skips platform resolution.
	EnginePath string

	// InstallDir is the directory holding query-engine-<platform> binaries.
	// Defaults to the directory of the running executable.
	InstallDir string

	// DatamodelPath is the on-disk source of the datamodel, if any.
	// It travels with the request for diagnostics only.
	DatamodelPath string

	// TempDir is where request payloads are staged. Defaults to os.TempDir().
	TempDir string

	// Env provides additional environment variables for the engine process.
	Env map[string]string

	// Retry is the retry budget. Nil means DefaultRetry; zero disables retries.
	Retry *int

	// ReadinessBackoff and BusyBackoff override the default retry waits.
	ReadinessBackoff time.Duration
	BusyBackoff      time.Duration

	// MaxOutput caps captured stdout and stderr. Zero means DefaultMaxOutput.
	MaxOutput int

	// Concurrency bounds parallel engine processes in batch calls.
	// Zero means runtime.NumCPU().
	Concurrency int

	// Registerer receives the engine metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

// RetryBudget returns the configured retry budget.
func (o *Options) RetryBudget() int {
	if o.Retry == nil {
		return DefaultRetry
	}

	return max(*o.Retry, 0)
}

// Backoffs returns the readiness and busy waits, with defaults applied.
func (o *Options) Backoffs() (readiness, busy time.Duration) {
	readiness, busy = o.ReadinessBackoff, o.BusyBackoff
	if readiness <= 0 {
		readiness = DefaultReadinessBackoff
	}

	if busy <= 0 {
		busy = DefaultBusyBackoff
	}

	return readiness, busy
}

// OutputLimit returns the capture limit, with the default applied.
func (o *Options) OutputLimit() int {
	if o.MaxOutput <= 0 {
		return DefaultMaxOutput
	}

	return o.MaxOutput
}
