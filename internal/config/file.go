package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides, e.g. QUERY_ENGINE__RETRY=2.
const EnvPrefix = "QUERY_ENGINE__"

// SchemaVersion is the only supported file schema_version.
const SchemaVersion = "v1"

// File is the on-disk configuration of the query-engine CLI.
type File struct {
	SchemaVersion    string            `koanf:"schema_version"`
	EnginePath       string            `koanf:"engine_path"`
	InstallDir       string            `koanf:"install_dir"`
	TempDir          string            `koanf:"temp_dir"`
	Cwd              string            `koanf:"cwd"`
	Env              map[string]string `koanf:"env"`
	Retry            *int              `koanf:"retry"`
	ReadinessBackoff time.Duration     `koanf:"readiness_backoff"`
	BusyBackoff      time.Duration     `koanf:"busy_backoff"`
	MaxOutput        int               `koanf:"max_output"`
	Concurrency      int               `koanf:"concurrency"`
	MetricsAddr      string            `koanf:"metrics_addr"`
	LogLevel         string            `koanf:"log_level"`
}

// Load merges YAML (if present) with environment variables
// (prefix QUERY_ENGINE__, nesting delimiter "__").
func Load(path string) (*File, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if sv := k.String("schema_version"); sv != "" && sv != SchemaVersion {
		return nil, fmt.Errorf("config schema_version %q not supported (want %s)", sv, SchemaVersion)
	}

	envProvider := env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg File
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// Options converts the file configuration into call Options.
func (f *File) Options(log *slog.Logger) *Options {
	return &Options{
		Logger:           log,
		Cwd:              f.Cwd,
		EnginePath:       f.EnginePath,
		InstallDir:       f.InstallDir,
		TempDir:          f.TempDir,
		Env:              f.Env,
		Retry:            f.Retry,
		ReadinessBackoff: f.ReadinessBackoff,
		BusyBackoff:      f.BusyBackoff,
		MaxOutput:        f.MaxOutput,
		Concurrency:      f.Concurrency,
	}
}

// Level parses LogLevel, defaulting to warn.
func (f *File) Level() slog.Level {
	switch strings.ToLower(f.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
