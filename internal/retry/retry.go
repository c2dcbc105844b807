// Package retry re-runs engine attempts that hit transient hazards.
//
// A Policy holds a shared retry budget and a table of rules. Each rule pairs
// a predicate over an attempt with the backoff to wait before the next
// attempt. The loop is iterative, and budget exhaustion has a single exit.
package retry

import (
	"context"
	stderrors "errors"
	"strings"
	"syscall"
	"time"

	"github.com/wagiedev/query-engine-go/internal/errors"
)

const (
	// ReadinessMarker is printed by an engine that is still warming up.
	ReadinessMarker = "Please wait until the"

	// busyExitCode is ETXTBSY's errno on POSIX systems.
	busyExitCode = 26
)

// Attempt is the outcome of one engine call.
type Attempt struct {
	// Number is 1 for the first attempt.
	Number int
	Stdout string
	Err    error
}

// Rule describes one transient hazard.
type Rule struct {
	Name    string
	Match   func(Attempt) bool
	Backoff time.Duration

	// Exhausted builds the error returned when the hazard persists past the
	// budget. Nil returns the attempt's own error.
	Exhausted func(Attempt) error
}

// Policy retries attempts that match one of its rules.
type Policy struct {
	// Budget is the number of retries after the first attempt.
	Budget int
	Rules  []Rule

	// OnRetry is called before each backoff. Optional.
	OnRetry func(rule *Rule, attempt Attempt, remaining int)

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do runs fn until it returns an outcome no rule matches, the budget is
// spent, or ctx is done.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	remaining := p.Budget

	for n := 1; ; n++ {
		stdout, err := fn(ctx)
		attempt := Attempt{Number: n, Stdout: stdout, Err: err}

		rule := p.match(attempt)
		if rule == nil {
			return stdout, err
		}

		if remaining <= 0 {
			if rule.Exhausted != nil {
				return "", rule.Exhausted(attempt)
			}

			return stdout, err
		}

		remaining--

		if p.OnRetry != nil {
			p.OnRetry(rule, attempt, remaining)
		}

		if err := p.sleep(ctx, rule.Backoff); err != nil {
			return "", err
		}
	}
}

func (p *Policy) match(a Attempt) *Rule {
	for i := range p.Rules {
		if p.Rules[i].Match(a) {
			return &p.Rules[i]
		}
	}

	return nil
}

func (p *Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}

	return Sleep(ctx, d)
}

// Sleep waits for d, returning early with ctx.Err() if ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReadinessRule retries when a successful attempt printed ReadinessMarker.
// Once exhausted it reports *errors.EngineNotReadyError for op.
func ReadinessRule(op string, backoff time.Duration) Rule {
	return Rule{
		Name:    "readiness",
		Backoff: backoff,
		Match: func(a Attempt) bool {
			return a.Err == nil && IsReadinessBanner(a.Stdout)
		},
		Exhausted: func(a Attempt) error {
			return &errors.EngineNotReadyError{Op: op, Attempts: a.Number, Stdout: a.Stdout}
		},
	}
}

// BusyRule retries when the engine binary could not be executed because it
// was still open for writing.
func BusyRule(backoff time.Duration) Rule {
	return Rule{
		Name:    "text_file_busy",
		Backoff: backoff,
		Match: func(a Attempt) bool {
			return IsExecutableBusy(a.Err)
		},
	}
}

// IsReadinessBanner reports whether stdout carries the readiness marker.
func IsReadinessBanner(stdout string) bool {
	return strings.Contains(stdout, ReadinessMarker)
}

// IsExecutableBusy reports whether err is an ETXTBSY failure: a launch
// failing with ETXTBSY, or the engine exiting with status 26 (ETXTBSY's errno).
// Engine output never counts, so a schema error that mentions a busy file is
// not retried.
func IsExecutableBusy(err error) bool {
	if err == nil {
		return false
	}

	if stderrors.Is(err, syscall.ETXTBSY) {
		return true
	}

	if procErr, ok := stderrors.AsType[*errors.ProcessError](err); ok {
		return procErr.ExitCode == busyExitCode
	}

	launchErr, ok := stderrors.AsType[*errors.LaunchError](err)
	if !ok || launchErr.Err == nil {
		return false
	}

	msg := strings.ToLower(launchErr.Err.Error())

	return strings.Contains(msg, "text file busy") || strings.Contains(msg, "etxtbsy")
}
