package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/ruffel/clitest"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type runOptions struct {
	root *rootOptions

	configPath string
	program    string
	envFile    string
	marker     string
	dir        string
	env        []string
	flags      []string
}

// exitCodeError carries the child's exit code out to main.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{root: root}

	cmd := &cobra.Command{
		Use:   "run [flags] -- COMMAND...",
		Short: "Run the program under test once and report its result",
		Long: `Run spawns the configured program (default "sh -c") with a single final
argument of the form "cargo run [flags...] -- COMMAND", waits for it and
prints its stdout and stderr followed by a status line. The exit code of
clitest is the exit code of the child.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	f.StringVar(&opts.program, "program", "", `Program and leading args, split on single spaces (e.g. "bash -c")`)
	f.StringArrayVarP(&opts.env, "env", "e", nil, "Environment override KEY=VALUE (repeatable)")
	f.StringVar(&opts.envFile, "env-file", "", "dotenv file with environment overrides")
	f.StringArrayVar(&opts.flags, "flag", nil, "Extra flag placed before -- (repeatable)")
	f.StringVar(&opts.marker, "marker", "", "Run marker (default \""+clitest.DefaultRunMarker+"\")")
	f.StringVar(&opts.dir, "dir", "", "Working directory of the child")

	return cmd
}

func (o *runOptions) setup(cmd *cobra.Command) (*clitest.Setup, error) {
	logger, err := newLogger(cmd, o.root.logLevel)
	if err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()

	cfg := &clitest.Config{}
	if o.configPath != "" {
		if cfg, err = clitest.LoadConfig(fs, o.configPath); err != nil {
			return nil, err
		}
	}

	if o.marker != "" {
		cfg.Marker = o.marker
	}

	if o.dir != "" {
		cfg.Dir = o.dir
	}

	if o.envFile != "" {
		cfg.EnvFile = o.envFile
	}

	s, err := clitest.NewFromConfig(cfg, clitest.WithLogger(logger), clitest.WithFs(fs))
	if err != nil {
		return nil, err
	}

	if o.program != "" {
		if _, err := s.SetProgram(o.program); err != nil {
			return nil, err
		}
	}

	for _, kv := range o.env {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: --env %q is not KEY=VALUE", clitest.ErrInvalidArgument, kv)
		}

		s.WithEnv(name, value)
	}

	for _, flag := range o.flags {
		s.WithCargoFlag(flag)
	}

	return s, nil
}

func (o *runOptions) run(cmd *cobra.Command, command string) error {
	s, err := o.setup(cmd)
	if err != nil {
		return err
	}

	out, err := s.RunContext(cmd.Context(), command)
	if err != nil {
		return err
	}

	_, _ = cmd.OutOrStdout().Write(out.Stdout)
	_, _ = cmd.ErrOrStderr().Write(out.Stderr)

	printStatus(cmd, out)

	if _, err := out.Success(); err != nil {
		code := out.Status.Code
		if code <= 0 {
			code = 1
		}

		return &exitCodeError{code: code}
	}

	return nil
}

func printStatus(cmd *cobra.Command, out *clitest.Output) {
	c := color.New(color.FgGreen, color.Bold)
	mark := "ok"

	if !out.Status.Success() {
		c = color.New(color.FgRed, color.Bold)
		mark = "FAIL"
	}

	_, _ = c.Fprintf(cmd.ErrOrStderr(), "%s %s (%s)\n", mark, out.Status, out.Duration.Round(time.Millisecond))
}
