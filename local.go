package clitest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

var _ Environment = (*Local)(nil)

// Local implements Environment for the local operating system.
// Thread-safe wrapper around os/exec.
type Local struct {
	targetOS TargetOS
	mu       sync.RWMutex
	active   int
	closed   bool
}

// LocalOption defines a functional option for the local environment.
type LocalOption func(*Local)

// WithTargetOS overrides the detected operating system. Only the default shell
// program is affected; commands still run on the host.
func WithTargetOS(os TargetOS) LocalOption {
	return func(l *Local) {
		l.targetOS = os
	}
}

// NewLocal creates a new local environment.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		targetOS: DetectLocalOS(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Run executes a command synchronously on the local machine.
//
// Env entries are appended to os.Environ(), so inherited variables survive and
// overrides win on key collision. The child runs in its own process group which
// is killed as a whole if ctx is canceled.
func (l *Local) Run(ctx context.Context, cmd *Command) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()

	if l.closed {
		l.mu.Unlock()

		return nil, fmt.Errorf("cannot run %s: %w", cmd, ErrEnvironmentClosed)
	}

	l.active++
	l.mu.Unlock()

	defer l.decrementActive()

	c := exec.CommandContext(ctx, cmd.Cmd, cmd.Args...) //nolint:gosec // running arbitrary programs is the point

	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}

	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	// If Stdout/Stderr are nil, os/exec connects them to the null device.
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	// Create a new process group so cancellation reaches the whole tree.
	setProcessGroup(c)

	c.Cancel = func() error {
		if c.Process == nil || c.Process.Pid <= 0 {
			return nil
		}

		return killProcessGroup(c.Process.Pid)
	}

	startTime := time.Now()

	if err := c.Start(); err != nil {
		return nil, err
	}

	waitErr := c.Wait()

	result := &Result{
		Status:   exitStatus(c.ProcessState),
		Duration: time.Since(startTime),
	}

	return result, waitError(ctx, cmd, waitErr)
}

// waitError classifies the error returned by exec.Cmd.Wait. A non-zero exit is a
// valid outcome. ctx only counts when Wait failed, so a child that exited cleanly
// just before the deadline is not reported as killed.
func waitError(ctx context.Context, cmd *Command, err error) error {
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s killed by context: %w", cmd, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}

	return err
}

// TargetOS returns the operating system of the host machine.
func (l *Local) TargetOS() TargetOS {
	return l.targetOS
}

// ActiveProcesses returns the number of currently running commands.
func (l *Local) ActiveProcesses() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.active
}

// Close shuts down the environment. Later Run and LookPath calls fail.
// Calling Close more than once is a no-op.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true

	return nil
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable.
func (l *Local) LookPath(_ context.Context, file string) (string, error) {
	if l.isClosed() {
		return "", fmt.Errorf("cannot look up path: %w", ErrEnvironmentClosed)
	}

	return exec.LookPath(file)
}

func (l *Local) decrementActive() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
}

func (l *Local) isClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.closed
}
