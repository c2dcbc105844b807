package cli

import (
	"fmt"
	"os"
	"slices"
)

const (
	// EnvDatamodelPath points the engine at the staged datamodel.
	EnvDatamodelPath = "PRISMA_DML_PATH"

	// EnvBacktrace enables Rust backtraces in engine crash output.
	EnvBacktrace = "RUST_BACKTRACE"
)

// Mode selects the engine sub-command.
type Mode int

const (
	// ModeDMMF requests the document model of the staged datamodel.
	ModeDMMF Mode = iota
	// ModeGetConfig requests the configuration metadata of the staged datamodel.
	ModeGetConfig
	// ModeDMMFToDML converts a staged {dmmf, config} document back to schema text.
	ModeDMMFToDML
)

// String returns the engine flag of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDMMF:
		return "--dmmf"
	case ModeGetConfig:
		return "--get_config"
	case ModeDMMFToDML:
		return "--dmmf_to_dml"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// BuildArgs constructs the engine command arguments for mode.
//
// The dmmf mode reads its input from PRISMA_DML_PATH only; the other modes
// also take the staged file as a positional argument.
func BuildArgs(mode Mode, stagedPath string) []string {
	args := []string{"cli", mode.String()}

	if mode != ModeDMMF {
		args = append(args, stagedPath)
	}

	return args
}

// BuildEnvironment constructs the engine environment: the inherited
// environment, caller extras, then the engine variables for mode.
// Later entries win, so the engine variables cannot be shadowed by extras.
func BuildEnvironment(mode Mode, stagedPath string, extra map[string]string) []string {
	// Start with current environment
	env := os.Environ()

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		env = append(env, fmt.Sprintf("%s=%s", key, extra[key]))
	}

	if mode != ModeDMMFToDML {
		env = append(env, EnvDatamodelPath+"="+stagedPath)
	}

	env = append(env, EnvBacktrace+"=1")

	return env
}
