//go:build windows

package clitest

import (
	"os"
	"os/exec"
	"strconv"
)

// killProcessGroup kills the process tree rooted at the given PID.
//
// TODO(windows): Use Job Objects so grandchildren that detach from the tree are
// also reaped.
func killProcessGroup(pid int) error {
	return exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run()
}

// setProcessGroup sets the process group for the given command.
func setProcessGroup(_ *exec.Cmd) {
	// Nothing to do until we use Job Objects.
}

// exitStatus extracts the exit code from a finished process. Windows has no
// terminating signals, so Signal is always nil.
func exitStatus(ps *os.ProcessState) ExitStatus {
	if ps == nil {
		return ExitStatus{Code: -1}
	}

	return ExitStatus{Code: ps.ExitCode()}
}
