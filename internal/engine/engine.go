package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wagiedev/query-engine-go/internal/cli"
	"github.com/wagiedev/query-engine-go/internal/config"
	"github.com/wagiedev/query-engine-go/internal/decode"
	"github.com/wagiedev/query-engine-go/internal/dmmf"
	"github.com/wagiedev/query-engine-go/internal/errors"
	"github.com/wagiedev/query-engine-go/internal/metrics"
	"github.com/wagiedev/query-engine-go/internal/retry"
	"github.com/wagiedev/query-engine-go/internal/staging"
	"github.com/wagiedev/query-engine-go/internal/subprocess"
)

// Operation describes one engine command and the labels its errors carry.
type Operation struct {
	// Name is the metric and log label.
	Name string
	Mode cli.Mode
	// StageLabel prefixes staging and readiness errors.
	StageLabel string
	// ErrorLabel prefixes engine-reported errors.
	ErrorLabel string
	// Ext is the staged file extension.
	Ext string
}

// The three engine operations.
var (
	OpGetDMMF = Operation{
		Name:       "dmmf",
		Mode:       cli.ModeDMMF,
		StageLabel: "Get DMMF",
		ErrorLabel: "Schema parsing",
		Ext:        "prisma",
	}
	OpGetConfig = Operation{
		Name:       "get_config",
		Mode:       cli.ModeGetConfig,
		StageLabel: "Get config",
		ErrorLabel: "Get config",
		Ext:        "prisma",
	}
	OpDMMFToDML = Operation{
		Name:       "dmmf_to_dml",
		Mode:       cli.ModeDMMFToDML,
		StageLabel: "DMMF To DML",
		ErrorLabel: "DMMF To DML",
		Ext:        "json",
	}
)

// Request is the payload and call-scoped settings of one operation.
type Request struct {
	Op      Operation
	Payload string
}

// Engine runs engine operations. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	opts    *config.Options
	log     *slog.Logger
	runner  subprocess.Runner
	locator cli.Locator
	metrics *metrics.Collector
}

// New creates an Engine. A nil runner uses real subprocesses.
func New(opts *config.Options, runner subprocess.Runner) (*Engine, error) {
	if opts == nil {
		opts = &config.Options{}
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log = log.With("component", "engine")

	if runner == nil {
		runner = subprocess.NewExecRunner(log)
	}

	collector, err := metrics.New(opts.Registerer)
	if err != nil {
		return nil, err
	}

	return &Engine{
		opts:   opts,
		log:    log,
		runner: runner,
		locator: cli.NewLocator(&cli.Config{
			EnginePath: opts.EnginePath,
			InstallDir: opts.InstallDir,
			Logger:     log,
		}),
		metrics: collector,
	}, nil
}

// GetDMMF returns the document model of datamodel.
func (e *Engine) GetDMMF(ctx context.Context, datamodel string) (*dmmf.Document, error) {
	stdout, enginePath, err := e.Execute(ctx, &Request{Op: OpGetDMMF, Payload: datamodel})
	if err != nil {
		return nil, err
	}

	doc, err := decode.JSON[dmmf.Document](enginePath, stdout)
	if err != nil {
		return nil, e.classify(OpGetDMMF, err)
	}

	return doc, nil
}

// GetConfig returns the configuration metadata of datamodel.
func (e *Engine) GetConfig(ctx context.Context, datamodel string) (*dmmf.ConfigMetaFormat, error) {
	stdout, enginePath, err := e.Execute(ctx, &Request{Op: OpGetConfig, Payload: datamodel})
	if err != nil {
		return nil, err
	}

	cfg, err := decode.JSON[dmmf.ConfigMetaFormat](enginePath, stdout)
	if err != nil {
		return nil, e.classify(OpGetConfig, err)
	}

	return cfg, nil
}

// DMMFToDML converts a document model and configuration back to schema text.
func (e *Engine) DMMFToDML(ctx context.Context, input *dmmf.WholeDMMF) (string, error) {
	payload, err := decode.Encode(input)
	if err != nil {
		return "", &errors.StagingError{Op: OpDMMFToDML.StageLabel, Err: err}
	}

	stdout, _, err := e.Execute(ctx, &Request{Op: OpDMMFToDML, Payload: payload})
	if err != nil {
		return "", err
	}

	return decode.Text(stdout), nil
}

// Execute runs req with retries and returns the engine's raw stdout and the
// engine path used. Errors are classified and labeled.
func (e *Engine) Execute(ctx context.Context, req *Request) (string, string, error) {
	log := e.log.With("op", req.Op.Name)

	if e.opts.DatamodelPath != "" {
		log = log.With("datamodel_path", e.opts.DatamodelPath)
	}

	enginePath, err := e.locator.Locate(ctx)
	if err != nil {
		return "", "", e.classify(req.Op, err)
	}

	cwd := e.opts.Cwd
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return "", "", e.classify(req.Op, fmt.Errorf("get working directory: %w", err))
		}
	}

	readiness, busy := e.opts.Backoffs()

	policy := &retry.Policy{
		Budget: e.opts.RetryBudget(),
		Rules: []retry.Rule{
			retry.ReadinessRule(req.Op.StageLabel, readiness),
			retry.BusyRule(busy),
		},
		OnRetry: func(rule *retry.Rule, attempt retry.Attempt, remaining int) {
			log.Warn("Retrying query engine",
				"rule", rule.Name,
				"attempt", attempt.Number,
				"remaining", remaining,
				"backoff", rule.Backoff,
			)
			e.metrics.ObserveRetry(req.Op.Name, rule.Name)
		},
	}

	stdout, err := policy.Do(ctx, func(ctx context.Context) (string, error) {
		return e.attempt(ctx, log, req, enginePath, cwd)
	})
	if err != nil {
		log.Error("Query engine call failed", "error", err)

		return "", enginePath, e.classify(req.Op, err)
	}

	return stdout, enginePath, nil
}

// attempt stages the payload, runs the engine once and removes the staged
// file whatever the outcome.
func (e *Engine) attempt(
	ctx context.Context,
	log *slog.Logger,
	req *Request,
	enginePath, cwd string,
) (string, error) {
	staged, err := staging.Write(e.opts.TempDir, req.Op.StageLabel, req.Op.Ext, req.Payload)
	if err != nil {
		return "", err
	}

	defer func() {
		if err := staged.Remove(); err != nil {
			log.Warn("Failed to remove staged file", "path", staged.Path, "error", err)
		}
	}()

	log.Debug("Staged engine input", "path", staged.Path, "size", len(req.Payload))

	out, err := e.runner.Run(ctx, &subprocess.Invocation{
		Path:      enginePath,
		Args:      cli.BuildArgs(req.Op.Mode, staged.Path),
		Env:       cli.BuildEnvironment(req.Op.Mode, staged.Path, e.opts.Env),
		Dir:       cwd,
		MaxOutput: e.opts.OutputLimit(),
	})

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}

	if out != nil {
		e.metrics.ObserveInvocation(req.Op.Name, outcome, out.Duration)
	}

	if err != nil {
		return "", err
	}

	return out.Stdout, nil
}

// classify maps a raw failure to the error returned to callers. Every
// returned error carries the operation label.
func (e *Engine) classify(op Operation, err error) error {
	if _, ok := stderrors.AsType[*errors.StagingError](err); ok {
		return err
	}

	if _, ok := stderrors.AsType[*errors.EngineNotReadyError](err); ok {
		return err
	}

	if procErr, ok := stderrors.AsType[*errors.ProcessError](err); ok {
		message := procErr.Stderr
		if message == "" {
			message = procErr.Stdout
		}

		if message != "" {
			return &errors.EngineError{
				Op:       op.ErrorLabel,
				Message:  message,
				ExitCode: procErr.ExitCode,
				Err:      procErr,
			}
		}
	}

	return &errors.OperationError{Op: op.StageLabel, Err: err}
}
