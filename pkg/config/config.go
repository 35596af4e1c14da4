// Package config resolves the settings of a probe run from the configuration
// file, the environment and the command line.
//
// Settings are applied in increasing order of precedence: defaults, the YAML
// configuration file, CHDIRPROBE_* environment variables, command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"oscomp.dev/chdirprobe/pkg/env"
)

// Defaults of a probe run.
const (
	DefaultName       = "test_chdir"
	DefaultTarget     = "test_chdir"
	DefaultBufferSize = 30
	DefaultSurface    = SurfaceHost
)

// Names of syscall surfaces.
const (
	SurfaceHost = "host"
	SurfaceMem  = "mem"
)

// Config keeps the settings of a probe run.
type Config struct {
	// Name of the probe, used in the start and end markers.
	Name string `yaml:"name"`
	// Directory to change into.
	Target string `yaml:"target"`
	// Capacity of the working-directory buffer.
	BufferSize int `yaml:"buffer_size"`
	// Syscall surface to probe.
	Surface string `yaml:"surface"`
	// Path of the run ledger; empty to not record runs.
	DB string `yaml:"db"`
}

// Default returns the default settings.
func Default() Config {
	return Config{
		Name:       DefaultName,
		Target:     DefaultTarget,
		BufferSize: DefaultBufferSize,
		Surface:    DefaultSurface,
	}
}

// Overrides keeps settings given on the command line. Zero values mean that
// the setting was not given.
type Overrides struct {
	File       string
	Name       string
	Target     string
	BufferSize int
	Surface    string
	DB         string
}

// Resolve builds the Config from all sources. The configuration file is
// o.File if non-empty, or the file named by $CHDIRPROBE_CONFIG; it is
// optional. lookupEnv is usually os.LookupEnv.
func Resolve(o Overrides, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()

	file := o.File
	if file == "" {
		file, _ = lookupEnv(env.CHDIRPROBE_CONFIG)
	}
	if file != "" {
		if err := cfg.LoadFile(file); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return Config{}, err
	}
	cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads the YAML file and overrides settings present in it.
func (c *Config) LoadFile(fname string) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("cannot read config: %w", err)
	}
	if err := c.Load(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	return nil
}

// Load decodes YAML from r and overrides settings present in it. Unknown keys
// are an error; an empty document is not.
func (c *Config) Load(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(c)
	if err == io.EOF {
		return nil
	}
	return err
}

// ApplyEnv overrides settings from CHDIRPROBE_* variables.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	strVars := []struct {
		name string
		p    *string
	}{
		{env.CHDIRPROBE_NAME, &c.Name},
		{env.CHDIRPROBE_TARGET, &c.Target},
		{env.CHDIRPROBE_SURFACE, &c.Surface},
		{env.CHDIRPROBE_DB, &c.DB},
	}
	for _, v := range strVars {
		if value, ok := lookupEnv(v.name); ok && value != "" {
			*v.p = value
		}
	}
	if value, ok := lookupEnv(env.CHDIRPROBE_BUFFER_SIZE); ok && value != "" {
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad $%s: %w", env.CHDIRPROBE_BUFFER_SIZE, err)
		}
		c.BufferSize = size
	}
	return nil
}

// Apply overrides settings that are set in o.
func (c *Config) Apply(o Overrides) {
	setIfNonEmpty(&c.Name, o.Name)
	setIfNonEmpty(&c.Target, o.Target)
	setIfNonEmpty(&c.Surface, o.Surface)
	setIfNonEmpty(&c.DB, o.DB)
	if o.BufferSize != 0 {
		c.BufferSize = o.BufferSize
	}
}

func setIfNonEmpty(p *string, s string) {
	if s != "" {
		*p = s
	}
}

// Errors returned by Validate.
var (
	ErrEmptyName     = errors.New("probe name must not be empty")
	ErrEmptyTarget   = errors.New("target directory must not be empty")
	ErrBadBufferSize = errors.New("buffer size must be positive")
)

// Validate checks that the settings can be used for a run.
func (c *Config) Validate() error {
	switch {
	case c.Name == "":
		return ErrEmptyName
	case c.Target == "":
		return ErrEmptyTarget
	case c.BufferSize <= 0:
		return ErrBadBufferSize
	case c.Surface != SurfaceHost && c.Surface != SurfaceMem:
		return fmt.Errorf("unknown surface %q, want %q or %q", c.Surface, SurfaceHost, SurfaceMem)
	}
	return nil
}
