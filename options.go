package queryengine

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithCwd sets the working directory for the engine process.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// WithEnv provides additional environment variables for the engine process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// ===== Engine Binary =====

// WithEnginePath sets the explicit path to the query engine binary.
// If not set, the binary is resolved from the install dir and host platform.
func WithEnginePath(path string) Option {
	return func(o *Options) {
		o.EnginePath = path
	}
}

// WithInstallDir sets the directory that holds query-engine-<platform> binaries.
func WithInstallDir(dir string) Option {
	return func(o *Options) {
		o.InstallDir = dir
	}
}

// WithDatamodelPath records where the datamodel was read from. It is used
// in logs only.
func WithDatamodelPath(path string) Option {
	return func(o *Options) {
		o.DatamodelPath = path
	}
}

// WithTempDir sets the directory used to stage engine input.
func WithTempDir(dir string) Option {
	return func(o *Options) {
		o.TempDir = dir
	}
}

// WithMaxOutput caps captured engine stdout and stderr, each.
func WithMaxOutput(bytes int) Option {
	return func(o *Options) {
		o.MaxOutput = bytes
	}
}

// ===== Retries =====

// WithRetry sets the retry budget for transient engine hazards.
// Zero disables retries.
func WithRetry(retries int) Option {
	return func(o *Options) {
		o.Retry = &retries
	}
}

// WithBackoff overrides the wait after a "please wait" answer (readiness)
// and after a text-file-busy launch failure (busy).
func WithBackoff(readiness, busy time.Duration) Option {
	return func(o *Options) {
		o.ReadinessBackoff = readiness
		o.BusyBackoff = busy
	}
}

// ===== Batch & Observability =====

// WithConcurrency bounds parallel engine processes in GetDMMFBatch.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithMetrics registers engine metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *Options) {
		o.Registerer = reg
	}
}

// ===== Configuration File =====

// WithConfigFile applies the settings of a loaded configuration file.
// It replaces every setting made by earlier options except the logger and
// metrics registerer, so pass it first and override with later options.
// A nil file leaves the options unchanged.
func WithConfigFile(f *ConfigFile) Option {
	return func(o *Options) {
		if f == nil {
			return
		}

		fileOpts := f.Options(o.Logger)
		fileOpts.Registerer = o.Registerer
		*o = *fileOpts
	}
}
