// Package subprocess runs the query engine binary as a child process.
//
// Each Invocation is a one-shot launch: the engine runs to completion while
// stdout and stderr are captured into bounded buffers. Launch failures,
// non-zero exits and oversized output are reported as distinct error types so
// the retry policy can tell transient hazards from engine-reported failures.
package subprocess
