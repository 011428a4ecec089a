package config

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"

	FailOnNone    = "none"
	FailOnWarning = "warning"
	FailOnError   = "error"
)

// FileNames are the config files looked up in a project directory, in order.
var FileNames = []string{
	".importdecl.hcl",
	".importdecl.yaml",
	".importdecl.yml",
	".importdecl.toml",
}

// Config is the project configuration for a scan.
type Config struct {
	// Include are the globs of source files to scan, relative to the root
	Include []string `json:"include,omitempty" hcl:"include,optional" yaml:"include,omitempty" toml:"include"`

	// Exclude are globs removed from the included set
	Exclude []string `json:"exclude,omitempty" hcl:"exclude,optional" yaml:"exclude,omitempty" toml:"exclude"`

	// Format is the report format: text, json or msgpack
	Format string `json:"format,omitempty" hcl:"format,optional" yaml:"format,omitempty" toml:"format"`

	// Concurrency bounds how many files are scanned at once
	Concurrency int `json:"concurrency,omitempty" hcl:"concurrency,optional" yaml:"concurrency,omitempty" toml:"concurrency"`

	// FailOn is the lowest diagnostic severity that makes a scan fail
	FailOn string `json:"fail_on,omitempty" hcl:"fail_on,optional" yaml:"fail_on,omitempty" toml:"fail_on"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*.swift"}
	}
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 4
	}
	if cfg.FailOn == "" {
		cfg.FailOn = FailOnError
	}
}

// Validate reports every invalid field at once.
func (cfg *Config) Validate() error {
	var err error

	switch cfg.Format {
	case FormatText, FormatJSON, FormatMsgpack:
	default:
		err = multierr.Append(err, errors.Errorf("format %q is not one of text, json, msgpack", cfg.Format))
	}

	switch cfg.FailOn {
	case FailOnNone, FailOnWarning, FailOnError:
	default:
		err = multierr.Append(err, errors.Errorf("fail_on %q is not one of none, warning, error", cfg.FailOn))
	}

	if cfg.Concurrency < 1 {
		err = multierr.Append(err, errors.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency))
	}

	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			err = multierr.Append(err, errors.Errorf("invalid glob pattern %q", pattern))
		}
	}

	return err
}

// Discover returns the first config file found in dir, or "" when there is none.
func Discover(fs afero.Fs, dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return "", errors.Errorf("checking for %s: %w", path, err)
		}
		if ok {
			return path, nil
		}
	}
	return "", nil
}

// Load reads the config file at path (HCL, YAML or TOML by extension), fills
// in defaults and validates the result.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch {
	case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	case strings.HasSuffix(path, ".toml"):
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Errorf("parsing TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Errorf("parsing TOML: unknown keys %v", undecoded)
		}
	default:
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}

		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{},
		}

		diags = gohcl.DecodeBody(hclFile.Body, ctx, &cfg)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}
