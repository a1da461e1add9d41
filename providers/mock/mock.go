package mock

import (
	"context"
	"io"

	"github.com/ruffel/clitest"
	"github.com/stretchr/testify/mock"
)

// Environment implements a mock clitest.Environment using testify/mock.
type Environment struct {
	mock.Mock
}

var _ clitest.Environment = (*Environment)(nil)

// New creates a new mock environment.
func New() *Environment {
	return &Environment{}
}

// NewLinux creates a mock environment that already answers TargetOS with
// clitest.OSLinux, which is what clitest.New asks for first, and resolves every
// LookPath. Use New to script LookPath failures.
func NewLinux() *Environment {
	m := New()
	m.On("TargetOS").Return(clitest.OSLinux).Maybe()
	m.On("LookPath", mock.Anything, mock.Anything).Return("/usr/bin/sh", nil).Maybe()

	return m
}

// Run mocks running a command to completion.
func (m *Environment) Run(ctx context.Context, cmd *clitest.Command) (*clitest.Result, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*clitest.Result), args.Error(1)
}

// TargetOS mocks returning the target operating system.
func (m *Environment) TargetOS() clitest.TargetOS {
	args := m.Called()

	return args.Get(0).(clitest.TargetOS)
}

// LookPath mocks resolving an executable.
func (m *Environment) LookPath(ctx context.Context, file string) (string, error) {
	args := m.Called(ctx, file)

	return args.String(0), args.Error(1)
}

// Close mocks closing the environment.
func (m *Environment) Close() error {
	args := m.Called()

	return args.Error(0)
}

// Respond is a Run hook that writes stdout and stderr to the streams of the
// command passed to Run, simulating a child's output.
// Usage: env.On("Run", mock.Anything, mock.Anything).Run(Respond("out", "")).Return(res, nil).
func Respond(stdout, stderr string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		cmd, ok := args.Get(1).(*clitest.Command)
		if !ok {
			return
		}

		writeTo(cmd.Stdout, stdout)
		writeTo(cmd.Stderr, stderr)
	}
}

func writeTo(w io.Writer, content string) {
	if w != nil && content != "" {
		_, _ = io.WriteString(w, content)
	}
}
