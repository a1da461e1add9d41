package clitest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument indicates a Setup or Config was rejected before anything was spawned.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrSpawn indicates the child process could not be started or its output could not be collected.
var ErrSpawn = errors.New("spawn failed")

// ErrCommandFailed indicates the child process ran to completion with a non-success status.
var ErrCommandFailed = errors.New("command failed")

// ErrEnvironmentClosed indicates that an operation was attempted on a closed environment.
var ErrEnvironmentClosed = errors.New("environment is closed")

// CommandFailedError is returned by Output.Success when the child did not exit cleanly.
// The Output it was derived from is still usable.
type CommandFailedError struct {
	Command *Command
	Status  ExitStatus
	Stderr  []byte
}

func (e *CommandFailedError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "command failed with status: %s", e.Status)

	if stderr := strings.TrimSpace(lossyString(e.Stderr)); stderr != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", stderr)
	}

	return b.String()
}

// Is reports ErrCommandFailed so callers can match without a type assertion.
func (e *CommandFailedError) Is(target error) bool {
	return target == ErrCommandFailed
}

// SpawnError represents a failure to create the child process or read its output
// (e.g. executable not found, environment closed).
type SpawnError struct {
	Command *Command
	Err     error
}

func (e *SpawnError) Error() string {
	if e.Command == nil {
		return fmt.Sprintf("spawn error: %v", e.Err)
	}

	return fmt.Sprintf("spawn error running %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Is reports ErrSpawn in addition to whatever the wrapped error matches.
func (e *SpawnError) Is(target error) bool {
	return target == ErrSpawn
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
