// Command query-engine-cli runs query engine operations from the shell.
//
// Usage:
//
//	query-engine-cli [flags] dmmf <schema>...
//	query-engine-cli [flags] config <schema>
//	query-engine-cli [flags] dml <document.json>
//	query-engine-cli [flags] mcp
//
// A schema or document argument of "-" reads standard input.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	queryengine "github.com/wagiedev/query-engine-go"
)

const version = "0.1.0"

type flags struct {
	configPath  string
	enginePath  string
	installDir  string
	metricsAddr string
	output      string
	logLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "query-engine-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var f flags

	fs := flag.NewFlagSet("query-engine-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "query-engine.yaml", "configuration file")
	fs.StringVar(&f.enginePath, "engine", "", "query engine binary (overrides install dir lookup)")
	fs.StringVar(&f.installDir, "install-dir", "", "directory holding query-engine-<platform> binaries")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&f.output, "o", "json", "output format: json or yaml")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()

		return errors.New("missing command")
	}

	cfg, err := queryengine.LoadConfig(f.configPath)
	if err != nil {
		return err
	}

	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	if f.metricsAddr == "" {
		f.metricsAddr = cfg.MetricsAddr
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []queryengine.Option{
		queryengine.WithConfigFile(cfg),
		queryengine.WithLogger(logger),
		queryengine.WithMetrics(reg),
	}
	if f.enginePath != "" {
		opts = append(opts, queryengine.WithEnginePath(f.enginePath))
	}

	if f.installDir != "" {
		opts = append(opts, queryengine.WithInstallDir(f.installDir))
	}

	cmd := &command{
		name:   fs.Arg(0),
		args:   fs.Args()[1:],
		opts:   opts,
		output: f.output,
		stdin:  stdin,
		stdout: stdout,
	}

	if f.metricsAddr == "" {
		return cmd.run(ctx)
	}

	return runWithMetrics(ctx, logger, f.metricsAddr, reg, cmd.run)
}

// runWithMetrics serves /metrics on addr while fn runs.
func runWithMetrics(
	ctx context.Context,
	logger *slog.Logger,
	addr string,
	reg *prometheus.Registry,
	fn func(context.Context) error,
) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Serving metrics", "addr", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), 5*time.Second)
			defer cancel()

			_ = srv.Shutdown(shutdownCtx)
		}()

		return fn(gCtx)
	})

	return g.Wait()
}

type command struct {
	name   string
	args   []string
	opts   []queryengine.Option
	output string
	stdin  io.Reader
	stdout io.Writer
}

func (c *command) run(ctx context.Context) error {
	switch c.name {
	case "dmmf":
		return c.dmmf(ctx)
	case "config":
		return c.config(ctx)
	case "dml":
		return c.dml(ctx)
	case "mcp":
		return queryengine.ServeStdio(ctx, version, c.opts...)
	default:
		return fmt.Errorf("unknown command %q", c.name)
	}
}

func (c *command) dmmf(ctx context.Context) error {
	if len(c.args) == 0 {
		return errors.New("dmmf: expected at least one schema")
	}

	if len(c.args) == 1 {
		datamodel, err := c.read(c.args[0])
		if err != nil {
			return err
		}

		opts := append(c.opts, queryengine.WithDatamodelPath(c.args[0]))

		doc, err := queryengine.GetDMMF(ctx, datamodel, opts...)
		if err != nil {
			return err
		}

		return c.write(doc)
	}

	datamodels := make(map[string]string, len(c.args))
	for _, path := range c.args {
		datamodel, err := c.read(path)
		if err != nil {
			return err
		}

		datamodels[path] = datamodel
	}

	docs, err := queryengine.GetDMMFBatch(ctx, datamodels, c.opts...)
	if err != nil {
		return err
	}

	return c.write(docs)
}

func (c *command) config(ctx context.Context) error {
	if len(c.args) != 1 {
		return errors.New("config: expected exactly one schema")
	}

	datamodel, err := c.read(c.args[0])
	if err != nil {
		return err
	}

	opts := append(c.opts, queryengine.WithDatamodelPath(c.args[0]))

	cfg, err := queryengine.GetConfig(ctx, datamodel, opts...)
	if err != nil {
		return err
	}

	return c.write(cfg)
}

func (c *command) dml(ctx context.Context) error {
	if len(c.args) != 1 {
		return errors.New("dml: expected exactly one document")
	}

	data, err := c.read(c.args[0])
	if err != nil {
		return err
	}

	var input queryengine.WholeDMMF
	if err := json.Unmarshal([]byte(data), &input); err != nil {
		return fmt.Errorf("dml: parse %s: %w", c.args[0], err)
	}

	text, err := queryengine.DMMFToDML(ctx, &input, c.opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.stdout, text)

	return err
}

func (c *command) read(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return string(data), nil
}

// write prints v as indented JSON, or as YAML with the same keys.
func (c *command) write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	switch c.output {
	case "json":
		_, err = fmt.Fprintln(c.stdout, string(data))

		return err
	case "yaml":
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}

		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)

		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", c.output)
	}
}
