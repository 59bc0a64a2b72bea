package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ColorMode controls coloured diagnostics in the driver.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options is the sumlang.yaml configuration.
type Options struct {
	// MaxCallDepth bounds the number of nested function activations.
	// Exceeding it is a runtime error, not a crash.
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`

	// Color selects coloured diagnostics: auto (only on a terminal), always or never.
	Color ColorMode `yaml:"color,omitempty"`

	// Builtins loads the builtin program (error types, result sums, stream modes)
	// before the user program. Disabling it also disables the I/O expressions.
	Builtins *bool `yaml:"builtins,omitempty"`

	// PathSeparator overrides the host path separator exported to programs.
	PathSeparator string `yaml:"path_separator,omitempty"`
}

func DefaultOptions() *Options {
	enabled := true
	return &Options{
		MaxCallDepth: DefaultMaxCallDepth,
		Color:        ColorAuto,
		Builtins:     &enabled,
	}
}

// BuiltinsEnabled reports whether the builtin program should be loaded.
func (o *Options) BuiltinsEnabled() bool {
	return o.Builtins == nil || *o.Builtins
}

// LoadOptions reads and parses a sumlang.yaml file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options %s: %w", path, err)
	}
	return ParseOptions(data, path)
}

// ParseOptions parses sumlang.yaml content from bytes.
// The path argument is used only for error messages.
func ParseOptions(data []byte, path string) (*Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing options %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options %s: %w", path, err)
	}
	return opts, nil
}

func (o *Options) Validate() error {
	if o.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must not be negative, got %d", o.MaxCallDepth)
	}
	if o.MaxCallDepth == 0 {
		o.MaxCallDepth = DefaultMaxCallDepth
	}
	switch o.Color {
	case "":
		o.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be one of auto, always, never; got %q", o.Color)
	}
	return nil
}
