package clitest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config is the file form of a Setup, typically kept next to the test fixtures:
//
//	program: [bash, -c]
//	marker: cargo run
//	flags: [--release, --quiet]
//	env:
//	  RUST_LOG: debug
//	env_file: testdata/.env
//	dir: ../mycli
type Config struct {
	Program []string          `yaml:"program,omitempty" validate:"omitempty,min=1,dive,required"`
	Env     map[string]string `yaml:"env,omitempty" validate:"dive,keys,required,endkeys"`
	EnvFile string            `yaml:"env_file,omitempty"`
	Flags   []string          `yaml:"flags,omitempty" validate:"dive,required"`
	Marker  string            `yaml:"marker,omitempty"`
	Dir     string            `yaml:"dir,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		})
	})

	return validate
}

// LoadConfig reads and validates a YAML config file from fs.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, invalidArgument("parse config %s: %v", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the config's struct constraints. Failures wrap ErrInvalidArgument.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidArgument("%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}

	return invalidArgument("config: %s", strings.Join(msgs, "; "))
}

// NewFromConfig builds a Setup from cfg. Fields left empty keep New's defaults.
// EnvFile is read through the Setup's filesystem (see WithFs) and applied after Env.
func NewFromConfig(cfg *Config, opts ...Option) (*Setup, error) {
	if cfg == nil {
		return nil, invalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := New(opts...)

	if len(cfg.Program) > 0 {
		if _, err := s.SetProgramArgs(cfg.Program...); err != nil {
			return nil, err
		}
	}

	if cfg.Marker != "" {
		s.marker = cfg.Marker
	}

	if cfg.Dir != "" {
		s.dir = cfg.Dir
	}

	s.SetEnv(cfg.Env).SetCargoFlags(cfg.Flags...)

	if cfg.EnvFile != "" {
		if _, err := s.LoadEnvFile(cfg.EnvFile); err != nil {
			return nil, err
		}
	}

	return s, nil
}
