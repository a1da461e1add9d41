// Package golden compares captured CLI output against files kept under testdata.
//
// Set CLITEST_UPDATE_GOLDEN=1 to rewrite the files with the current output
// instead of comparing.
package golden

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruffel/clitest"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateEnv is the environment variable that switches Assert* into update mode.
const UpdateEnv = "CLITEST_UPDATE_GOLDEN"

// ErrMismatch is wrapped by Compare when got differs from the golden file.
var ErrMismatch = errors.New("golden file mismatch")

// T is the subset of testing.TB the assertions need.
type T interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

// Compare checks got against the file at path. With update set, the file (and
// any missing parent directories) is written instead and nil is returned.
func Compare(fs afero.Fs, path string, got []byte, update bool) error {
	if update {
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}

		if err := afero.WriteFile(fs, path, got, 0o644); err != nil {
			return fmt.Errorf("write golden file: %w", err)
		}

		return nil
	}

	want, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("read golden file (run with %s=1 to create it): %w", UpdateEnv, err)
	}

	if bytes.Equal(want, got) {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(want), string(got), false)

	return fmt.Errorf("%w: %s\n%s", ErrMismatch, path, dmp.DiffPrettyText(diffs))
}

// AssertStdout fails t unless out's stdout matches the golden file at path.
// A nil out, as returned by a failed Run, fails t.
func AssertStdout(t T, fs afero.Fs, path string, out *clitest.Output) {
	t.Helper()

	if !hasOutput(t, path, out) {
		return
	}

	require.NoError(t, Compare(fs, path, out.Stdout, Updating()))
}

// AssertStderr fails t unless out's stderr matches the golden file at path.
// A nil out, as returned by a failed Run, fails t.
func AssertStderr(t T, fs afero.Fs, path string, out *clitest.Output) {
	t.Helper()

	if !hasOutput(t, path, out) {
		return
	}

	require.NoError(t, Compare(fs, path, out.Stderr, Updating()))
}

func hasOutput(t T, path string, out *clitest.Output) bool {
	t.Helper()

	if assert.NotNil(t, out, "no output to compare with %s; check the error from Run", path) {
		return true
	}

	t.FailNow()

	return false
}

// Updating reports whether UpdateEnv is set to a truthy value.
func Updating() bool {
	switch os.Getenv(UpdateEnv) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
