package clitest

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEnv is a simple mock for testing Executor.
type MockEnv struct {
	mock.Mock
}

func (m *MockEnv) Run(ctx context.Context, cmd *Command) (*Result, error) {
	args := m.Called(ctx, cmd)
	if r := args.Get(0); r != nil {
		return r.(*Result), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockEnv) Close() error {
	return m.Called().Error(0)
}

func (m *MockEnv) TargetOS() TargetOS {
	return OSLinux
}

func (m *MockEnv) LookPath(_ context.Context, file string) (string, error) {
	args := m.Called(file)

	return args.String(0), args.Error(1)
}

func writeStreams(stdout, stderr string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		cmd := args.Get(1).(*Command)
		_, _ = io.WriteString(cmd.Stdout, stdout)
		_, _ = io.WriteString(cmd.Stderr, stderr)
	}
}

func TestExecutor_LookPath(t *testing.T) {
	t.Parallel()

	mockEnv := new(MockEnv)
	exec := NewExecutor(mockEnv)

	// Success case: Environment finds the path
	mockEnv.On("LookPath", "cargo").Return("/usr/bin/cargo", nil)

	path, err := exec.LookPath(context.Background(), "cargo")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/cargo", path)

	// Failure case: Environment returns error
	mockEnv.On("LookPath", "missing").Return("", errors.New("exec: executable file not found in $PATH"))

	_, err = exec.LookPath(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec: executable file not found")
}

func TestExecutor_RunBuffered(t *testing.T) {
	t.Parallel()

	mockEnv := new(MockEnv)
	exec := NewExecutor(mockEnv)

	cmd := NewCommand("sh", "-c", "cargo run -- hello")

	mockEnv.On("Run", mock.Anything, mock.MatchedBy(func(c *Command) bool {
		return c.Cmd == "sh" && c.Stdout != nil && c.Stderr != nil
	})).Run(writeStreams("hello\n", "warning\n")).
		Return(&Result{Status: ExitStatus{Code: 0}, Duration: time.Millisecond}, nil)

	out, err := exec.RunBuffered(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, "hello\n", out.StdoutString())
	assert.Equal(t, "warning\n", out.StderrString())
	assert.Equal(t, time.Millisecond, out.Duration)
	assert.Same(t, cmd, out.Command)

	// The caller's command is not mutated.
	assert.Nil(t, cmd.Stdout)
	assert.Nil(t, cmd.Stderr)
}

func TestExecutor_RunBuffered_NonZeroIsNotAnError(t *testing.T) {
	t.Parallel()

	mockEnv := new(MockEnv)
	exec := NewExecutor(mockEnv)

	mockEnv.On("Run", mock.Anything, mock.Anything).
		Run(writeStreams("", "boom\n")).
		Return(&Result{Status: ExitStatus{Code: 1}}, nil)

	out, err := exec.RunBuffered(context.Background(), NewCommand("false"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Status.Code)
	assert.Equal(t, "boom\n", out.StderrString())
}

func TestExecutor_RunBuffered_SpawnFailure(t *testing.T) {
	t.Parallel()

	mockEnv := new(MockEnv)
	exec := NewExecutor(mockEnv)

	cause := errors.New("fork/exec /nope: no such file or directory")
	mockEnv.On("Run", mock.Anything, mock.Anything).Return(nil, cause)

	out, err := exec.RunBuffered(context.Background(), NewCommand("/nope"))
	require.Error(t, err)
	assert.Nil(t, out)

	require.ErrorIs(t, err, ErrSpawn)
	require.ErrorIs(t, err, cause)

	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "/nope", spawnErr.Command.Cmd)
}

func TestExecutor_RunBuffered_PartialOutputOnFailure(t *testing.T) {
	t.Parallel()

	mockEnv := new(MockEnv)
	exec := NewExecutor(mockEnv)

	mockEnv.On("Run", mock.Anything, mock.Anything).
		Run(writeStreams("half", "")).
		Return(&Result{Status: ExitStatus{Code: -1}}, context.Canceled)

	out, err := exec.RunBuffered(context.Background(), NewCommand("sleep", "10"))
	require.ErrorIs(t, err, ErrSpawn)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, out)
	assert.Equal(t, "half", out.StdoutString())
}

func TestExecutor_RunBuffered_NoResult(t *testing.T) {
	t.Parallel()

	mockEnv := new(MockEnv)
	exec := NewExecutor(mockEnv)

	mockEnv.On("Run", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := exec.RunBuffered(context.Background(), NewCommand("true"))
	require.ErrorIs(t, err, ErrSpawn)
}

func TestExecutor_RunBuffered_InvalidCommand(t *testing.T) {
	t.Parallel()

	mockEnv := new(MockEnv)
	exec := NewExecutor(mockEnv)

	_, err := exec.RunBuffered(context.Background(), &Command{})
	require.ErrorIs(t, err, ErrInvalidArgument)

	mockEnv.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}
