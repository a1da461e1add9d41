package clitest

import (
	"bytes"
	"context"
	"errors"
)

var errNoResult = errors.New("environment returned no result")

// Executor runs Commands against an Environment and buffers their output.
type Executor struct {
	env Environment
}

// NewExecutor creates a new Executor with the given environment.
func NewExecutor(env Environment) *Executor {
	return &Executor{env: env}
}

// RunBuffered executes a command and captures both Stdout and Stderr in full.
//
// A non-zero exit is not an error here; inspect Output.Status or call
// Output.Success. Any failure to start the process or collect its output is
// returned as a *SpawnError, together with whatever output was read.
func (e *Executor) RunBuffered(ctx context.Context, cmd *Command) (*Output, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	cmdCopy := *cmd // copy
	cmdCopy.Stdout = &stdoutBuf
	cmdCopy.Stderr = &stderrBuf

	result, err := e.env.Run(ctx, &cmdCopy)
	if err != nil {
		var spawnErr *SpawnError
		if !errors.As(err, &spawnErr) {
			err = &SpawnError{Command: cmd, Err: err}
		}

		if result == nil {
			return nil, err
		}
	}

	if result == nil {
		return nil, &SpawnError{Command: cmd, Err: errNoResult}
	}

	return &Output{
		Command:  cmd,
		Status:   result.Status,
		Duration: result.Duration,
		Stdout:   stdoutBuf.Bytes(),
		Stderr:   stderrBuf.Bytes(),
	}, err
}

// LookPath resolves file the way the environment would when spawning it.
func (e *Executor) LookPath(ctx context.Context, file string) (string, error) {
	return e.env.LookPath(ctx, file)
}
