package queryengine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeEngine answers like the real binary for the dmmf and get_config modes
// and echoes the staged document for dmmf_to_dml.
const fakeEngine = `#!/bin/sh
case "$2" in
--dmmf)
  name=$(head -n 1 "$PRISMA_DML_PATH")
  if [ "$name" = "FAIL" ]; then
    echo "Error parsing attribute" >&2
    exit 1
  fi
  printf '{"datamodel":{"enums":[],"models":[{"name":"%s","isEmbedded":false,"dbName":null,"fields":[]}]}}\n' "$name"
  ;;
--get_config)
  printf '{"datasources":[],"generators":[{"name":"client","provider":"prisma-client-js","output":null}]}\n'
  ;;
--dmmf_to_dml)
  printf 'dml:'
  cat "$3"
  ;;
esac
`

func writeFakeEngine(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Test requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "query-engine-fake")
	require.NoError(t, os.WriteFile(path, []byte(fakeEngine), 0o755))

	return path
}

func TestGetDMMF(t *testing.T) {
	engine := writeFakeEngine(t)

	doc, err := GetDMMF(context.Background(), "Post", WithEnginePath(engine))
	require.NoError(t, err)

	model, ok := doc.Datamodel.Model("Post")
	require.True(t, ok)
	require.Equal(t, "Post", model.Name)
}

func TestGetConfig(t *testing.T) {
	engine := writeFakeEngine(t)

	cfg, err := GetConfig(context.Background(), "generator client {}", WithEnginePath(engine))
	require.NoError(t, err)
	require.Len(t, cfg.Generators, 1)
	require.Equal(t, "prisma-client-js", cfg.Generators[0].Provider)
	require.Nil(t, cfg.Generators[0].Output)
}

func TestDMMFToDML(t *testing.T) {
	engine := writeFakeEngine(t)

	text, err := DMMFToDML(context.Background(), &WholeDMMF{
		DMMF:   &Datamodel{Models: []Model{{Name: "User"}}},
		Config: &ConfigMetaFormat{},
	}, WithEnginePath(engine))
	require.NoError(t, err)
	require.Contains(t, text, "dml:{")
	require.Contains(t, text, `"name":"User"`)
}

func TestGetDMMF_EngineError(t *testing.T) {
	engine := writeFakeEngine(t)

	_, err := GetDMMF(context.Background(), "FAIL", WithEnginePath(engine))
	require.Error(t, err)

	engineErr, ok := errors.AsType[*EngineError](err)
	require.True(t, ok, "expected *EngineError, got %T", err)
	require.Equal(t, "Schema parsing", engineErr.Op)
	require.Equal(t, "Schema parsing Error parsing attribute", err.Error())

	var qe QueryEngineError
	require.ErrorAs(t, err, &qe)
}

func TestGetDMMF_MissingEngineBinary(t *testing.T) {
	_, err := GetDMMF(context.Background(), "Post",
		WithEnginePath(filepath.Join(t.TempDir(), "missing-engine")),
		WithRetry(0),
	)
	require.Error(t, err)

	_, ok := errors.AsType[*LaunchError](err)
	require.True(t, ok, "expected *LaunchError, got %T", err)
}

func TestGetDMMFBatch(t *testing.T) {
	engine := writeFakeEngine(t)

	docs, err := GetDMMFBatch(context.Background(), map[string]string{
		"blog":  "Post",
		"users": "User",
		"shop":  "Order",
	}, WithEnginePath(engine), WithConcurrency(2))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, "Order", docs["shop"].Datamodel.Models[0].Name)
	require.Equal(t, "User", docs["users"].Datamodel.Models[0].Name)
}

func TestGetDMMFBatch_NamesFailingEntry(t *testing.T) {
	engine := writeFakeEngine(t)

	_, err := GetDMMFBatch(context.Background(), map[string]string{
		"ok":  "Post",
		"bad": "FAIL",
	}, WithEnginePath(engine))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad: Schema parsing")
}

func TestOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := applyOptions([]Option{
		WithLogger(NopLogger()),
		WithCwd("/work"),
		WithEnv(map[string]string{"A": "1"}),
		WithEnginePath("/bin/engine"),
		WithInstallDir("/opt/engines"),
		WithDatamodelPath("schema.prisma"),
		WithTempDir("/scratch"),
		WithMaxOutput(1024),
		WithRetry(0),
		WithBackoff(time.Second, time.Millisecond),
		WithConcurrency(3),
		WithMetrics(reg),
	})

	require.NotNil(t, opts.Logger)
	require.Equal(t, "/work", opts.Cwd)
	require.Equal(t, map[string]string{"A": "1"}, opts.Env)
	require.Equal(t, "/bin/engine", opts.EnginePath)
	require.Equal(t, "/opt/engines", opts.InstallDir)
	require.Equal(t, "schema.prisma", opts.DatamodelPath)
	require.Equal(t, "/scratch", opts.TempDir)
	require.Equal(t, 1024, opts.OutputLimit())
	require.Equal(t, 0, opts.RetryBudget())
	require.Equal(t, time.Second, opts.ReadinessBackoff)
	require.Equal(t, time.Millisecond, opts.BusyBackoff)
	require.Equal(t, 3, opts.Concurrency)
	require.Same(t, reg, opts.Registerer)
}

func TestDefaultOptions(t *testing.T) {
	opts := applyOptions(nil)

	require.Equal(t, 4, opts.RetryBudget())
	require.Equal(t, 1_000_000_000, opts.OutputLimit())

	readiness, busy := opts.Backoffs()
	require.Equal(t, 5*time.Second, readiness)
	require.Equal(t, 500*time.Millisecond, busy)
}

func TestToolServer(t *testing.T) {
	engine := writeFakeEngine(t)

	srv, err := NewToolServer("test", WithEnginePath(engine))
	require.NoError(t, err)
	require.Equal(t, ToolServerName, srv.Name())
	require.Equal(t, []string{"dmmf_to_dml", "get_config", "get_dmmf"}, srv.ToolNames())

	result, err := srv.CallTool(context.Background(), "get_dmmf", map[string]any{"datamodel": "Post"})
	require.NoError(t, err)
	require.False(t, result.IsError)
}

func TestWithConfigFile(t *testing.T) {
	retry := 1
	reg := prometheus.NewRegistry()
	logger := NopLogger()

	opts := applyOptions([]Option{
		WithLogger(logger),
		WithMetrics(reg),
		WithConfigFile(&ConfigFile{EnginePath: "/opt/engine", Retry: &retry}),
		WithTempDir("/scratch"),
	})

	require.Same(t, logger, opts.Logger)
	require.Same(t, reg, opts.Registerer)
	require.Equal(t, "/opt/engine", opts.EnginePath)
	require.Equal(t, 1, opts.RetryBudget())
	require.Equal(t, "/scratch", opts.TempDir)
}

func TestWithConfigFile_NilIsNoOp(t *testing.T) {
	var opts *Options

	require.NotPanics(t, func() {
		opts = applyOptions([]Option{
			WithEnginePath("/bin/engine"),
			WithConfigFile(nil),
		})
	})
	require.Equal(t, "/bin/engine", opts.EnginePath)
}

func TestMissingEngineErrorIsQueryEngineError(t *testing.T) {
	_, err := GetConfig(context.Background(), "datasource db {}",
		WithEnginePath(filepath.Join(t.TempDir(), "missing-engine")),
		WithRetry(0),
	)
	require.Error(t, err)

	opErr, ok := errors.AsType[*OperationError](err)
	require.True(t, ok, "expected *OperationError, got %T", err)
	require.Equal(t, "Get config", opErr.Op)

	_, ok = errors.AsType[QueryEngineError](err)
	require.True(t, ok)
}
