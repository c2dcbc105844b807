package subprocess

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/wagiedev/query-engine-go/internal/errors"
)

// waitDelay bounds how long Wait drains pipes after the engine exits or the
// context is cancelled.
const waitDelay = 10 * time.Second

// errBufferFull stops the pipe copy once a capture buffer hits its limit.
var errBufferFull = stderrors.New("capture buffer full")

// Invocation describes a single engine process launch.
type Invocation struct {
	// Path is the engine executable.
	Path string
	// Args are the command line arguments.
	Args []string
	// Env is the full process environment.
	Env []string
	// Dir is the working directory.
	Dir string
	// MaxOutput caps captured stdout and stderr, each.
	MaxOutput int
}

// Output is the captured result of a finished engine process.
type Output struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes engine invocations.
type Runner interface {
	// Run starts the engine, waits for it to exit and returns its captured
	// output. Output is returned alongside *errors.ProcessError so callers
	// can inspect what the engine printed.
	Run(ctx context.Context, inv *Invocation) (*Output, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	log *slog.Logger
}

// Compile-time verification that ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)

// NewExecRunner creates a Runner backed by real subprocesses.
func NewExecRunner(log *slog.Logger) *ExecRunner {
	return &ExecRunner{log: log.With("component", "exec_runner")}
}

// Run launches the engine and collects its output.
//
// Launch failures return *errors.LaunchError, non-zero exits return
// *errors.ProcessError, and output beyond MaxOutput returns
// *errors.OutputLimitError.
func (r *ExecRunner) Run(ctx context.Context, inv *Invocation) (*Output, error) {
	r.log.Debug("Starting query engine", "engine_path", inv.Path, "args", inv.Args, "cwd", inv.Dir)

	//nolint:gosec // G204: Subprocess launching with dynamic args is expected for engine invocation
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.WaitDelay = waitDelay

	stdout := &limitedBuffer{limit: inv.MaxOutput}
	stderr := &limitedBuffer{limit: inv.MaxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()

	if err := cmd.Start(); err != nil {
		r.log.Debug("Failed to start query engine", "engine_path", inv.Path, "error", err)

		return nil, &errors.LaunchError{Path: inv.Path, Err: err}
	}

	r.log.Debug("Query engine started", "pid", cmd.Process.Pid)

	waitErr := cmd.Wait()

	out := &Output{
		Stdout:   stripFinalNewline(stdout.String()),
		Stderr:   stripFinalNewline(stderr.String()),
		Duration: time.Since(start),
	}

	switch {
	case stdout.exceeded:
		return out, &errors.OutputLimitError{Stream: "stdout", Limit: inv.MaxOutput}
	case stderr.exceeded:
		return out, &errors.OutputLimitError{Stream: "stderr", Limit: inv.MaxOutput}
	}

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("query engine interrupted: %w", ctxErr)
		}

		exitCode := -1
		if exitErr, ok := stderrors.AsType[*exec.ExitError](waitErr); ok {
			exitCode = exitErr.ExitCode()
		}

		r.log.Debug("Query engine exited with error", "exit_code", exitCode, "duration", out.Duration)

		return out, &errors.ProcessError{
			ExitCode: exitCode,
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
			Err:      waitErr,
		}
	}

	r.log.Debug("Query engine exited successfully",
		"duration", out.Duration,
		"stdout_len", len(out.Stdout),
	)

	return out, nil
}

// limitedBuffer collects up to limit bytes. Once full it rejects further
// writes, which makes os/exec close the pipe.
type limitedBuffer struct {
	buf      bytes.Buffer
	limit    int
	exceeded bool
}

var _ io.Writer = (*limitedBuffer)(nil)

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.limit <= 0 {
		return b.buf.Write(p)
	}

	room := b.limit - b.buf.Len()
	if len(p) > room {
		b.exceeded = true
		n, _ := b.buf.Write(p[:max(room, 0)])

		return n, errBufferFull
	}

	return b.buf.Write(p)
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}

// stripFinalNewline drops one trailing "\n" or "\r\n".
func stripFinalNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")

	return strings.TrimSuffix(s, "\r")
}
