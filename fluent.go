package clitest

import (
	"maps"
	"slices"
)

// Builder assembles a Command piece by piece. Start one with Cmd.
type Builder struct {
	cmd Command
}

// Cmd starts a Builder whose executable is program[0], with program[1:] as the
// leading arguments. This is the shape of Setup.Program.
func Cmd(program ...string) *Builder {
	b := &Builder{}

	if len(program) > 0 {
		b.cmd.Cmd = program[0]
		b.cmd.Args = slices.Clone(program[1:])
	}

	return b
}

// Arg appends one argument.
func (b *Builder) Arg(arg string) *Builder {
	b.cmd.Args = append(b.cmd.Args, arg)

	return b
}

// Env appends a "KEY=VALUE" override. Later entries win in the child.
func (b *Builder) Env(key, value string) *Builder {
	b.cmd.Env = append(b.cmd.Env, key+"="+value)

	return b
}

// EnvMap appends every entry of env in key order, so equal maps give equal Commands.
func (b *Builder) EnvMap(env map[string]string) *Builder {
	for _, k := range slices.Sorted(maps.Keys(env)) {
		b.Env(k, env[k])
	}

	return b
}

// Dir sets the working directory.
func (b *Builder) Dir(dir string) *Builder {
	b.cmd.Dir = dir

	return b
}

// Build returns a fresh Command. The Builder may keep being used afterwards
// without affecting it.
func (b *Builder) Build() *Command {
	c := b.cmd
	c.Args = slices.Clone(b.cmd.Args)
	c.Env = slices.Clone(b.cmd.Env)

	return &c
}
