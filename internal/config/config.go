package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxEntries caps how many names one listing will hold.
	DefaultMaxEntries = 1024
	// DefaultBufferSize is the chunk size used to stream file contents.
	DefaultBufferSize = 8192
	// MinBufferSize is the smallest bufferSize ValidateConfig accepts.
	MinBufferSize = 512
)

// ListingOptions holds the ls flags. It is built once from the command line
// and passed by value.
type ListingOptions struct {
	Long          bool // -l
	All           bool // -a
	HumanReadable bool // -h
}

// TransferOptions is passed through cp and mv to the transfer engine.
// No fields are defined yet.
type TransferOptions struct{}

// Options holds the application-wide settings.
// Tags are used by Viper for unmarshalling from config files, env vars, and flags,
// and by the yaml/toml encoders when the effective configuration is printed.
type Options struct {
	// Behavior Control
	Verbose bool `mapstructure:"verbose" yaml:"verbose" toml:"verbose"`

	// Listing
	Width      int `mapstructure:"width" yaml:"width" toml:"width"` // 0 means ask the terminal
	MaxEntries int `mapstructure:"maxEntries" yaml:"maxEntries" toml:"maxEntries"`

	// Transfer
	BufferSize int `mapstructure:"bufferSize" yaml:"bufferSize" toml:"bufferSize"`

	// Internal - Not typically set by user directly
	ConfigFile string `mapstructure:"config" yaml:"config,omitempty" toml:"config,omitempty"`
}

// Defaults returns Options with every default applied.
func Defaults() Options {
	return Options{
		MaxEntries: DefaultMaxEntries,
		BufferSize: DefaultBufferSize,
	}
}

// ValidateConfig checks the loaded configuration options for validity.
func (opts *Options) ValidateConfig() error {
	var errs []string

	if opts.Width < 0 {
		errs = append(errs, "width must be non-negative (0 for auto)")
	}
	if opts.MaxEntries <= 0 {
		errs = append(errs, "maxEntries must be positive")
	}
	if opts.BufferSize < MinBufferSize {
		errs = append(errs, fmt.Sprintf("bufferSize must be at least %d", MinBufferSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Render writes opts to w as "yaml" or "toml".
func Render(w io.Writer, opts Options, format string) error {
	var out []byte
	switch strings.ToLower(format) {
	case "yaml", "yml":
		b, err := yaml.Marshal(opts)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		out = b
	case "toml":
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(opts); err != nil {
			return fmt.Errorf("failed to marshal toml: %w", err)
		}
		out = buf.Bytes()
	default:
		return fmt.Errorf("unsupported format '%s' (want yaml or toml)", format)
	}
	_, err := w.Write(out)
	return err
}
