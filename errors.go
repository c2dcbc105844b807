package queryengine

import "github.com/wagiedev/query-engine-go/internal/errors"

// Re-export error types from internal package

// PlatformError indicates the host platform has no engine build.
type PlatformError = errors.PlatformError

// StagingError indicates the request payload could not be staged.
type StagingError = errors.StagingError

// LaunchError indicates the engine process could not be started.
type LaunchError = errors.LaunchError

// ProcessError indicates the engine process exited with a non-zero status.
type ProcessError = errors.ProcessError

// OutputLimitError indicates the engine output exceeded the capture limit.
type OutputLimitError = errors.OutputLimitError

// EngineError is a failure reported by the engine itself.
type EngineError = errors.EngineError

// EngineNotReadyError indicates the engine never became ready within the retry budget.
type EngineNotReadyError = errors.EngineNotReadyError

// DecodeError indicates the engine output did not decode into the requested shape.
type DecodeError = errors.DecodeError

// OperationError labels a failure that has no more specific type.
type OperationError = errors.OperationError

// QueryEngineError is the base interface for all query engine errors.
type QueryEngineError = errors.QueryEngineError

// Re-export sentinel errors from internal package.
var (
	// ErrEngineNotReady indicates the engine kept answering with its readiness banner.
	ErrEngineNotReady = errors.ErrEngineNotReady

	// ErrUnsupportedPlatform indicates the host platform has no engine build.
	ErrUnsupportedPlatform = errors.ErrUnsupportedPlatform
)
