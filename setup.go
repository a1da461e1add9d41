package clitest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Setup is the invocation configuration: which program to spawn, which
// environment overrides to apply and which extra flags go in front of the run
// string. Setters return the same *Setup so calls can be chained.
//
// A Setup is not safe for concurrent mutation.
type Setup struct {
	program []string
	env     map[string]string
	flags   map[string]struct{}
	marker  string
	dir     string

	environment Environment
	logger      zerolog.Logger
	fs          afero.Fs
}

// New returns a Setup using the environment's shell ("sh -c" on UNIX-likes),
// no environment overrides and no flags.
func New(opts ...Option) *Setup {
	s := &Setup{
		env:    make(map[string]string),
		flags:  make(map[string]struct{}),
		marker: DefaultRunMarker,
		logger: zerolog.Nop(),
		fs:     afero.NewOsFs(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.environment == nil {
		s.environment = NewLocal()
	}

	s.program = s.environment.TargetOS().ShellProgram()

	return s
}

// SetProgram replaces the program with program split on single spaces.
// Quotes and repeated spaces are not interpreted; use SetProgramLine for that.
// An empty string is rejected with ErrInvalidArgument.
func (s *Setup) SetProgram(program string) (*Setup, error) {
	if program == "" {
		return s, invalidArgument("program can't be empty")
	}

	s.program = strings.Split(program, " ")

	return s, nil
}

// SetProgramLine replaces the program with line split using shell quoting rules
// (see ParseCommand).
func (s *Setup) SetProgramLine(line string) (*Setup, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return s, err
	}

	return s.SetProgramArgs(append([]string{cmd.Cmd}, cmd.Args...)...)
}

// SetProgramArgs replaces the program with the given executable and leading arguments.
func (s *Setup) SetProgramArgs(args ...string) (*Setup, error) {
	if len(args) == 0 || args[0] == "" {
		return s, invalidArgument("program can't be empty")
	}

	s.program = slices.Clone(args)

	return s, nil
}

// SetEnv replaces all environment overrides with a copy of env.
func (s *Setup) SetEnv(env map[string]string) *Setup {
	s.env = make(map[string]string, len(env))
	maps.Copy(s.env, env)

	return s
}

// WithEnv sets a single environment override, replacing any previous value for name.
func (s *Setup) WithEnv(name, value string) *Setup {
	s.env[name] = value

	return s
}

// LoadEnvFile merges the variables of a dotenv file into the overrides.
// Entries from the file replace existing overrides with the same name.
func (s *Setup) LoadEnvFile(path string) (*Setup, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return s, fmt.Errorf("open env file: %w", err)
	}

	defer func() { _ = f.Close() }()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return s, invalidArgument("parse env file %s: %v", path, err)
	}

	maps.Copy(s.env, vars)

	return s, nil
}

// SetCargoFlags replaces the flag set. Duplicates collapse.
func (s *Setup) SetCargoFlags(flags ...string) *Setup {
	s.flags = make(map[string]struct{}, len(flags))

	for _, f := range flags {
		s.flags[f] = struct{}{}
	}

	return s
}

// WithCargoFlag adds a flag to the set. Adding the same flag twice has no effect.
func (s *Setup) WithCargoFlag(flag string) *Setup {
	s.flags[flag] = struct{}{}

	return s
}

// Program returns a copy of the executable and its leading arguments.
func (s *Setup) Program() []string {
	return slices.Clone(s.program)
}

// Env returns a copy of the environment overrides.
func (s *Setup) Env() map[string]string {
	return maps.Clone(s.env)
}

// CargoFlags returns the flag set in sorted order.
func (s *Setup) CargoFlags() []string {
	return slices.Sorted(maps.Keys(s.flags))
}

// CommandLine returns the final argument handed to the program:
//
//	cargo run -- <command>               (no flags)
//	cargo run <flags...> -- <command>    (flags sorted, space separated)
func (s *Setup) CommandLine(command string) string {
	var b strings.Builder

	b.WriteString(s.marker)

	if len(s.flags) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(s.CargoFlags(), " "))
	}

	b.WriteString(" -- ")
	b.WriteString(command)

	return b.String()
}

// Command builds the descriptor Run would execute for command.
func (s *Setup) Command(command string) *Command {
	return Cmd(s.program...).
		Arg(s.CommandLine(command)).
		EnvMap(s.env).
		Dir(s.dir).
		Build()
}

// Run spawns the program with command appended, waits for it to exit and returns
// its captured output. It blocks for as long as the child runs.
//
// A non-zero exit is not an error; call Output.Success. Errors are returned only
// when the process cannot be started or its output cannot be collected.
func (s *Setup) Run(command string) (*Output, error) {
	return s.RunContext(context.Background(), command)
}

// RunContext is Run with a context; canceling ctx kills the child's process group.
//
// A bare program name is resolved through the environment's LookPath first, so a
// missing shell fails with a *SpawnError naming it instead of a generic exec error.
func (s *Setup) RunContext(ctx context.Context, command string) (*Output, error) {
	cmd := s.Command(command)
	executor := NewExecutor(s.environment)

	s.logger.Debug().
		Stringer("target_os", s.environment.TargetOS()).
		Str("program", cmd.Cmd).
		Strs("args", cmd.Args).
		Strs("env_keys", slices.Sorted(maps.Keys(s.env))).
		Str("dir", cmd.Dir).
		Msg("spawning command")

	out, err := s.run(ctx, executor, cmd)
	if err != nil {
		s.logger.Debug().Err(err).Str("program", cmd.Cmd).Msg("command could not be run")

		return out, err
	}

	s.logger.Debug().
		Stringer("status", out.Status).
		Dur("duration", out.Duration).
		Int("stdout_bytes", len(out.Stdout)).
		Int("stderr_bytes", len(out.Stderr)).
		Msg("command finished")

	return out, nil
}

func (s *Setup) run(ctx context.Context, executor *Executor, cmd *Command) (*Output, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Paths are left to the spawn: a relative one resolves against cmd.Dir.
	if !strings.ContainsAny(cmd.Cmd, `/\`) {
		if _, err := executor.LookPath(ctx, cmd.Cmd); err != nil {
			return nil, &SpawnError{Command: cmd, Err: fmt.Errorf("executable %q not found: %w", cmd.Cmd, err)}
		}
	}

	return executor.RunBuffered(ctx, cmd)
}
