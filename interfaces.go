// Package clitest runs a command-line program under test as a child process and
// captures its result for assertions.
//
// # Core Types
//
// - Setup: the invocation configuration (program, environment overrides, flags).
// - Output: the captured result of one run (exit status, stdout, stderr).
// - Environment: where commands actually execute. Local is the default.
//
// # Usage
//
//	out, err := clitest.New().
//		WithEnv("RUST_LOG", "debug").
//		WithCargoFlag("--release").
//		Run("--help")
//	require.NoError(t, err)
//	_, err = out.Success()
//	require.NoError(t, err)
//	assert.Contains(t, out.StdoutString(), "Usage")
//
// Each Run is synchronous: it blocks until the child exits and both output
// streams are fully read. There is no timeout unless RunContext is used.
package clitest

import (
	"context"
	"io"
)

// Environment abstracts the system where commands are executed.
type Environment interface {
	io.Closer

	// Run executes a command synchronously.
	// A non-zero exit is reported through Result.Status, not as an error. Errors are
	// reserved for failures to start the process or collect its output.
	// Output is not captured by default; use Command.Stdout/Stderr.
	Run(ctx context.Context, cmd *Command) (*Result, error)

	// TargetOS returns the operating system of the target environment.
	TargetOS() TargetOS

	// LookPath searches for an executable named file in the directories named by
	// the PATH environment variable.
	LookPath(ctx context.Context, file string) (string, error)
}
