package errors

import (
	"errors"
	"fmt"
	"strings"
)

// QueryEngineError is the base interface for all query engine errors.
type QueryEngineError interface {
	error
	IsQueryEngineError() bool
}

// Compile-time verification that all error types implement QueryEngineError.
var (
	_ QueryEngineError = (*PlatformError)(nil)
	_ QueryEngineError = (*StagingError)(nil)
	_ QueryEngineError = (*LaunchError)(nil)
	_ QueryEngineError = (*ProcessError)(nil)
	_ QueryEngineError = (*OutputLimitError)(nil)
	_ QueryEngineError = (*EngineError)(nil)
	_ QueryEngineError = (*EngineNotReadyError)(nil)
	_ QueryEngineError = (*DecodeError)(nil)
	_ QueryEngineError = (*OperationError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrEngineNotReady indicates the engine kept answering with its readiness
	// banner until the retry budget ran out.
	ErrEngineNotReady = errors.New("query engine not ready")

	// ErrUnsupportedPlatform indicates the host platform has no engine build.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// PlatformError indicates the host platform could not be mapped to an engine binary.
type PlatformError struct {
	GOOS   string
	GOARCH string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %s/%s", e.GOOS, e.GOARCH)
}

func (e *PlatformError) Unwrap() error {
	return ErrUnsupportedPlatform
}

// IsQueryEngineError implements QueryEngineError.
func (e *PlatformError) IsQueryEngineError() bool { return true }

// StagingError indicates the request payload could not be written to a temp file.
type StagingError struct {
	// Op is the label of the operation that was staging input.
	Op  string
	Err error
}

func (e *StagingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unable to write temp data model path: %v", e.Op, e.Err)
	}

	return e.Op + " unable to write temp data model path"
}

func (e *StagingError) Unwrap() error {
	return e.Err
}

// IsQueryEngineError implements QueryEngineError.
func (e *StagingError) IsQueryEngineError() bool { return true }

// LaunchError indicates the engine process could not be started.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start query engine %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsQueryEngineError implements QueryEngineError.
func (e *LaunchError) IsQueryEngineError() bool { return true }

// ProcessError indicates the engine process exited with a non-zero status.
type ProcessError struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("query engine failed (exit %d): %s", e.ExitCode, e.Stderr)
	}

	return fmt.Sprintf("query engine failed (exit %d): %v", e.ExitCode, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsQueryEngineError implements QueryEngineError.
func (e *ProcessError) IsQueryEngineError() bool { return true }

// OutputLimitError indicates the engine wrote more than the capture limit.
type OutputLimitError struct {
	Stream string
	Limit  int
}

func (e *OutputLimitError) Error() string {
	return fmt.Sprintf("query engine %s exceeded max buffer of %d bytes", e.Stream, e.Limit)
}

// IsQueryEngineError implements QueryEngineError.
func (e *OutputLimitError) IsQueryEngineError() bool { return true }

// EngineError is a failure reported by the engine itself, usually a schema
// validation problem. Message holds the engine's stderr (or stdout when stderr
// was empty) verbatim.
type EngineError struct {
	Op       string
	Message  string
	ExitCode int
	Err      error
}

func (e *EngineError) Error() string {
	return e.Op + " " + e.Message
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsQueryEngineError implements QueryEngineError.
func (e *EngineError) IsQueryEngineError() bool { return true }

// EngineNotReadyError indicates every attempt was answered with the engine's
// "please wait" banner.
type EngineNotReadyError struct {
	Op       string
	Attempts int
	Stdout   string
}

func (e *EngineNotReadyError) Error() string {
	return fmt.Sprintf("%s query engine still not ready after %d attempts: %s",
		e.Op, e.Attempts, strings.TrimSpace(e.Stdout))
}

func (e *EngineNotReadyError) Unwrap() error {
	return ErrEngineNotReady
}

// IsQueryEngineError implements QueryEngineError.
func (e *EngineNotReadyError) IsQueryEngineError() bool { return true }

// DecodeError indicates the engine exited cleanly but its output did not
// decode into the requested shape.
type DecodeError struct {
	EnginePath string
	Stdout     string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Problem while parsing the query engine response at %s. %s\n%v",
		e.EnginePath, e.Stdout, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsQueryEngineError implements QueryEngineError.
func (e *DecodeError) IsQueryEngineError() bool { return true }

// OperationError labels a failure that has no more specific type, such as a
// launch failure, an unreadable working directory or a cancelled context.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsQueryEngineError implements QueryEngineError.
func (e *OperationError) IsQueryEngineError() bool { return true }
