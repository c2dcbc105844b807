package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wagiedev/query-engine-go/internal/platform"
)

// Config holds configuration for engine binary location.
type Config struct {
	// EnginePath is an explicit engine path that skips platform resolution.
	EnginePath string

	// InstallDir is the directory holding the engine binaries.
	// If empty, the directory of the running executable is used.
	InstallDir string

	// Detector resolves the host platform. Nil uses the host defaults.
	Detector *platform.Detector

	// Logger is an optional logger for locator operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Locator resolves the path of the query engine binary.
type Locator interface {
	// Locate returns the absolute path of the engine binary. The file is not
	// checked for existence; a missing binary surfaces at launch.
	Locate(ctx context.Context) (string, error)
}

// locator implements the Locator interface.
type locator struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that locator implements Locator.
var _ Locator = (*locator)(nil)

// NewLocator creates a new engine locator with the given configuration.
func NewLocator(cfg *Config) Locator {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &locator{
		cfg: cfg,
		log: log,
	}
}

// Locate resolves the engine binary path.
func (l *locator) Locate(ctx context.Context) (string, error) {
	if l.cfg.EnginePath != "" {
		l.log.Debug("Using explicit engine path", "engine_path", l.cfg.EnginePath)

		return l.cfg.EnginePath, nil
	}

	detector := l.cfg.Detector
	if detector == nil {
		detector = platform.NewDetector(&platform.Config{Logger: l.log})
	}

	p, err := detector.Detect(ctx)
	if err != nil {
		l.log.Error("Failed to detect platform", "error", err)

		return "", err
	}

	dir, err := l.installDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, platform.Executable(p))
	l.log.Debug("Resolved engine path", "platform", p, "engine_path", path)

	return path, nil
}

func (l *locator) installDir() (string, error) {
	if l.cfg.InstallDir != "" {
		return filepath.Abs(l.cfg.InstallDir)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve install dir: %w", err)
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe), nil
}
