package clitest

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osWindows = "windows"

func TestLocal_Run(t *testing.T) {
	t.Parallel()

	env := NewLocal()

	t.Cleanup(func() { _ = env.Close() })

	ctx := context.Background()

	tests := []struct {
		name     string
		cmd      *Command
		wantCode int
	}{
		{
			name:     "successful command",
			cmd:      &Command{Cmd: "echo", Args: []string{"hello"}},
			wantCode: 0,
		},
		{
			name:     "command with exit code",
			cmd:      getExitCommand(1),
			wantCode: 1,
		},
		{
			name:     "command with high exit code",
			cmd:      getExitCommand(42),
			wantCode: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := env.Run(ctx, tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, result.Status.Code)
			assert.Nil(t, result.Status.Signal)
			assert.Greater(t, result.Duration, time.Duration(0))
		})
	}
}

func TestLocal_Features(t *testing.T) {
	t.Parallel()

	env := NewLocal()

	t.Cleanup(func() { _ = env.Close() })

	ctx := context.Background()

	t.Run("stdout capture", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer

		cmd := Command{Cmd: "echo", Args: []string{"test"}, Stdout: &stdout}
		_, err := env.Run(ctx, &cmd)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "test")
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Parallel()

		var cmd Command
		if runtime.GOOS == osWindows {
			cmd = Command{Cmd: "cmd", Args: []string{"/c", "echo %TEST_VAR%"}, Env: []string{"TEST_VAR=hello"}}
		} else {
			cmd = Command{Cmd: "sh", Args: []string{"-c", "echo $TEST_VAR"}, Env: []string{"TEST_VAR=hello"}}
		}

		var stdout bytes.Buffer

		cmd.Stdout = &stdout

		_, err := env.Run(ctx, &cmd)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "hello")
	})

	t.Run("working directory", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == osWindows {
			t.Skip("pwd is POSIX only")
		}

		dir := t.TempDir()

		var stdout bytes.Buffer

		cmd := Command{Cmd: "sh", Args: []string{"-c", "pwd -P"}, Dir: dir, Stdout: &stdout}
		_, err := env.Run(ctx, &cmd)
		require.NoError(t, err)
		assert.NotEmpty(t, stdout.String())
	})

	t.Run("active processes drop back to zero", func(t *testing.T) {
		t.Parallel()

		local := NewLocal()

		_, err := local.Run(ctx, &Command{Cmd: "echo"})
		require.NoError(t, err)
		assert.Equal(t, 0, local.ActiveProcesses())
	})
}

func TestLocal_Safety(t *testing.T) {
	t.Parallel()

	t.Run("environment closed", func(t *testing.T) {
		t.Parallel()

		localEnv := NewLocal()
		_ = localEnv.Close()
		_, err := localEnv.Run(context.Background(), &Command{Cmd: "echo"})
		require.ErrorIs(t, err, ErrEnvironmentClosed)
		assert.Contains(t, err.Error(), "environment is closed")
	})

	t.Run("missing binary", func(t *testing.T) {
		t.Parallel()

		localEnv := NewLocal()
		res, err := localEnv.Run(context.Background(), &Command{Cmd: "clitest-definitely-missing"})
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, 0, localEnv.ActiveProcesses())
	})

	t.Run("invalid command", func(t *testing.T) {
		t.Parallel()

		_, err := NewLocal().Run(context.Background(), &Command{})
		require.Error(t, err)
	})

	t.Run("target os override", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, OSWindows, NewLocal(WithTargetOS(OSWindows)).TargetOS())
	})
}

func TestLocal_Signals(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == osWindows {
		t.Skip("Signal testing is flaky on Windows")
	}

	env := NewLocal()

	t.Cleanup(func() { _ = env.Close() })

	t.Run("terminating signal is reported", func(t *testing.T) {
		t.Parallel()

		res, err := env.Run(context.Background(), &Command{Cmd: "sh", Args: []string{"-c", "kill -9 $$"}})
		require.NoError(t, err)
		assert.Equal(t, -1, res.Status.Code)
		assert.Equal(t, syscall.SIGKILL, res.Status.Signal)
		assert.False(t, res.Status.Success())
		assert.Equal(t, "signal: killed", res.Status.String())
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		res, err := env.Run(ctx, &Command{Cmd: "sleep", Args: []string{"10"}})
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.NotNil(t, res)
		assert.False(t, res.Status.Success())
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestWaitError(t *testing.T) {
	t.Parallel()

	expired, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewCommand("sleep", "10")
	ioErr := errors.New("read |0: file already closed")

	tests := []struct {
		name    string
		ctx     context.Context
		waitErr error
		wantErr error
	}{
		{"clean exit", context.Background(), nil, nil},
		{"clean exit racing the deadline", expired, nil, nil},
		{"non-zero exit", context.Background(), &exec.ExitError{}, nil},
		{"killed by context", expired, &exec.ExitError{}, context.Canceled},
		{"collection failure", context.Background(), ioErr, ioErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := waitError(tt.ctx, cmd, tt.waitErr)
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func getExitCommand(code int) *Command {
	if runtime.GOOS == osWindows {
		return &Command{Cmd: "cmd", Args: []string{"/c", "exit", strconv.Itoa(code)}}
	}

	return &Command{Cmd: "sh", Args: []string{"-c", "exit " + strconv.Itoa(code)}}
}
