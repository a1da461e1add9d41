package clitest

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultRunMarker is the token placed before the flag set in the synthesized argument.
const DefaultRunMarker = "cargo run"

// Option defines a functional option for a Setup.
type Option func(*Setup)

// WithEnvironment runs commands through env instead of a fresh Local environment.
// The default program is derived from env.TargetOS().
func WithEnvironment(env Environment) Option {
	return func(s *Setup) {
		s.environment = env
	}
}

// WithLogger enables debug logging of each invocation. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Setup) {
		s.logger = logger
	}
}

// WithFs sets the filesystem used to read env files. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Setup) {
		s.fs = fs
	}
}

// WithDir sets the child's working directory. Empty means the current directory.
func WithDir(dir string) Option {
	return func(s *Setup) {
		s.dir = dir
	}
}

// WithRunMarker replaces DefaultRunMarker, e.g. "go run ." for Go binaries.
func WithRunMarker(marker string) Option {
	return func(s *Setup) {
		s.marker = marker
	}
}
