package clitest

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Command is one fully resolved invocation: the program, its arguments with the
// synthesized run string last, and the environment overrides.
type Command struct {
	Cmd  string   // Executable, looked up on PATH unless it contains a separator
	Args []string // Leading program arguments followed by the run string
	Env  []string // "KEY=VALUE" overrides applied on top of the inherited environment
	Dir  string   // Working directory; empty means the caller's

	// Filled in by Executor.RunBuffered. Nil discards the stream.
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommand returns a Command for binary with args and no overrides.
func NewCommand(binary string, args ...string) *Command {
	return &Command{Cmd: binary, Args: args}
}

// ParseCommand splits line using shell quoting rules, so `docker exec "my box" sh -c`
// yields five tokens. Failures wrap ErrInvalidArgument.
func ParseCommand(line string) (*Command, error) {
	parts, err := shlex.Split(line)
	if err != nil {
		return nil, invalidArgument("parse %q: %v", line, err)
	}

	if len(parts) == 0 || parts[0] == "" {
		return nil, invalidArgument("program can't be empty")
	}

	return NewCommand(parts[0], parts[1:]...), nil
}

// Validate rejects a nil command or one without an executable. Failures wrap
// ErrInvalidArgument.
func (c *Command) Validate() error {
	if c == nil {
		return invalidArgument("nil command")
	}

	if strings.TrimSpace(c.Cmd) == "" {
		return invalidArgument("program can't be empty")
	}

	return nil
}

// String renders the program and its arguments space-separated, quoting the ones
// a shell would split or expand, so the run string shows up as one unit:
//
//	sh -c "cargo run --release -- list"
func (c *Command) String() string {
	var b strings.Builder

	b.WriteString(quoteArg(c.Cmd))

	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(quoteArg(arg))
	}

	return b.String()
}

func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\$`;&|<>") {
		return s
	}

	return strconv.Quote(s)
}

// ExitStatus is the raw termination status of a child process.
type ExitStatus struct {
	Code   int       // Exit code, -1 if the process was terminated by a signal
	Signal os.Signal // Terminating signal, nil on a normal exit
}

// Success reports a normal exit with code 0.
func (s ExitStatus) Success() bool {
	return s.Code == 0 && s.Signal == nil
}

func (s ExitStatus) String() string {
	if s.Signal != nil {
		return fmt.Sprintf("signal: %v", s.Signal)
	}

	return fmt.Sprintf("exit status: %d", s.Code)
}

// Result is what an Environment reports for a finished child.
type Result struct {
	Status   ExitStatus
	Duration time.Duration
}

// TargetOS selects the default shell program of a Setup.
type TargetOS int

const (
	// OSUnknown covers the BSDs and anything else runtime.GOOS may report.
	// It is treated as POSIX.
	OSUnknown TargetOS = iota
	OSLinux
	OSWindows
	OSDarwin
)

var targetOSNames = map[TargetOS]string{
	OSLinux:   "linux",
	OSWindows: "windows",
	OSDarwin:  "darwin",
}

func (t TargetOS) String() string {
	if name, ok := targetOSNames[t]; ok {
		return name
	}

	return "unknown"
}

// ShellProgram returns the program a Setup starts with on t: the shell plus its
// "run this string" flag.
func (t TargetOS) ShellProgram() []string {
	if t == OSWindows {
		return []string{"powershell", "-NoProfile", "-NonInteractive", "-Command"}
	}

	return []string{"sh", "-c"}
}

// DetectLocalOS maps runtime.GOOS onto a TargetOS.
func DetectLocalOS() TargetOS {
	for t, name := range targetOSNames {
		if name == runtime.GOOS {
			return t
		}
	}

	return OSUnknown
}
