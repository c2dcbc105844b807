package errors

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlatformError(t *testing.T) {
	err := &PlatformError{GOOS: "plan9", GOARCH: "386"}

	require.Equal(t, "unsupported platform plan9/386", err.Error())
	require.ErrorIs(t, err, ErrUnsupportedPlatform)
	require.True(t, err.IsQueryEngineError())
}

func TestStagingError(t *testing.T) {
	root := errors.New("disk full")
	err := &StagingError{Op: "Get DMMF", Err: root}

	require.Equal(t, "Get DMMF unable to write temp data model path: disk full", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsQueryEngineError())

	bare := &StagingError{Op: "Get config"}
	require.Equal(t, "Get config unable to write temp data model path", bare.Error())
}

func TestLaunchError(t *testing.T) {
	err := &LaunchError{Path: "/opt/query-engine", Err: syscall.ETXTBSY}

	require.Contains(t, err.Error(), "/opt/query-engine")
	require.ErrorIs(t, err, syscall.ETXTBSY)
	require.True(t, err.IsQueryEngineError())
}

func TestProcessError_WithStderr(t *testing.T) {
	root := errors.New("exit status 1")
	err := &ProcessError{ExitCode: 1, Stderr: "bad input", Err: root}

	require.Equal(t, "query engine failed (exit 1): bad input", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsQueryEngineError())
}

func TestProcessError_WithoutStderr(t *testing.T) {
	err := &ProcessError{ExitCode: 2, Err: errors.New("exit status 2")}

	require.Equal(t, "query engine failed (exit 2): exit status 2", err.Error())
}

func TestOutputLimitError(t *testing.T) {
	err := &OutputLimitError{Stream: "stdout", Limit: 10}

	require.Equal(t, "query engine stdout exceeded max buffer of 10 bytes", err.Error())
	require.True(t, err.IsQueryEngineError())
}

func TestEngineError(t *testing.T) {
	root := &ProcessError{ExitCode: 1, Stderr: "bad input"}
	err := &EngineError{Op: "Schema parsing", Message: "bad input", ExitCode: 1, Err: root}

	require.Equal(t, "Schema parsing bad input", err.Error())
	require.ErrorIs(t, err, root)

	procErr, ok := errors.AsType[*ProcessError](err)
	require.True(t, ok)
	require.Equal(t, 1, procErr.ExitCode)
}

func TestEngineNotReadyError(t *testing.T) {
	err := &EngineNotReadyError{Op: "Get DMMF", Attempts: 5, Stdout: "Please wait until the engine is ready\n"}

	require.Equal(t,
		"Get DMMF query engine still not ready after 5 attempts: Please wait until the engine is ready",
		err.Error(),
	)
	require.ErrorIs(t, err, ErrEngineNotReady)
	require.True(t, err.IsQueryEngineError())
}

func TestDecodeError(t *testing.T) {
	root := errors.New("invalid character 'n'")
	err := &DecodeError{EnginePath: "/bin/qe", Stdout: "not json", Err: root}

	require.Equal(t,
		"Problem while parsing the query engine response at /bin/qe. not json\ninvalid character 'n'",
		err.Error(),
	)
	require.ErrorIs(t, err, root)
	require.True(t, err.IsQueryEngineError())
}

func TestOperationError(t *testing.T) {
	err := &OperationError{Op: "Get DMMF", Err: context.Canceled}

	require.Equal(t, "Get DMMF: context canceled", err.Error())
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, err.IsQueryEngineError())
}
