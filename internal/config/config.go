// Package config loads the optional .clang-checks.yml file found at the root
// of a repository.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/tool"
	"github.com/andyballingall/clang-checks/internal/validator"
)

// FileName is the config file looked for at the repository root.
const FileName = ".clang-checks.yml"

const schemaID = "https://github.com/andyballingall/clang-checks/config.schema.json"

//go:embed config.schema.json
var schemaJSON []byte

const (
	DefaultMinVersion   = "3.8.0"
	DefaultFormatFilter = `\.(h|hpp|c|cpp)$`
	DefaultTidyFilter   = `\.(c|cpp)$`
	DefaultStyle        = "file"
	DefaultBuildDir     = "build"
)

type FormatConfig struct {
	MinVersion    string   `yaml:"minVersion"`
	Style         string   `yaml:"style"`
	Filter        string   `yaml:"filter"`
	FallbackNames []string `yaml:"fallbackNames"`

	minVersion tool.Version
	filter     *regexp.Regexp
}

type TidyConfig struct {
	MinVersion    string   `yaml:"minVersion"`
	BuildDir      string   `yaml:"buildDir"`
	Filter        string   `yaml:"filter"`
	ExtraArgs     []string `yaml:"extraArgs"`
	FallbackNames []string `yaml:"fallbackNames"`

	minVersion tool.Version
	filter     *regexp.Regexp
}

type Config struct {
	BaseBranch string       `yaml:"baseBranch"`
	VCS        repo.Backend `yaml:"vcs"`
	Exclude    []string     `yaml:"exclude"`
	Format     FormatConfig `yaml:"format"`
	Tidy       TidyConfig   `yaml:"tidy"`

	// Path is the file the config was read from; empty for the defaults.
	Path string `yaml:"-"`
}

// MinVersionRequired is the lowest clang-format version accepted.
func (f *FormatConfig) MinVersionRequired() tool.Version {
	return f.minVersion
}

// FilterRegexp selects the files clang-format checks.
func (f *FormatConfig) FilterRegexp() *regexp.Regexp {
	return f.filter
}

// MinVersionRequired is the lowest clang-tidy version accepted.
func (t *TidyConfig) MinVersionRequired() tool.Version {
	return t.minVersion
}

// FilterRegexp selects the files clang-tidy checks.
func (t *TidyConfig) FilterRegexp() *regexp.Regexp {
	return t.filter
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	c := &Config{}
	if err := c.complete(); err != nil {
		panic(err) // the defaults are constants
	}
	return c
}

// Loader reads and validates config files.
type Loader struct {
	schema validator.Validator
}

// NewLoader compiles the config schema with compiler.
func NewLoader(compiler validator.Compiler) (*Loader, error) {
	if err := compiler.AddSchema(schemaID, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	v, err := compiler.Compile(schemaID)
	if err != nil {
		return nil, err
	}
	return &Loader{schema: v}, nil
}

// Find loads explicit if given, otherwise FileName in root. A missing default
// file yields the defaults; a missing explicit file is an error.
func (l *Loader) Find(root, explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = filepath.Join(root, FileName)
	}

	c, err := l.Load(path)
	if explicit == "" {
		var missing *MissingConfigError
		if errors.As(err, &missing) {
			return Default(), nil
		}
	}
	return c, err
}

// Load reads the config file at path.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &MissingConfigError{Path: path}
	}
	if err != nil {
		return nil, err
	}
	return l.Parse(path, data)
}

// Parse decodes and validates config data. path is only used in errors.
func (l *Loader) Parse(path string, data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// The schema is applied to the JSON rendering of the YAML document.
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	jsonDoc, err := validator.Decode(bytes.NewReader(js))
	if err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if err = l.schema.Validate(jsonDoc); err != nil {
		return nil, &SchemaViolationError{Path: path, Wrapped: err}
	}

	c := &Config{Path: path}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if err = c.complete(); err != nil {
		return nil, err
	}
	return c, nil
}

// complete fills in defaults and compiles the derived values.
func (c *Config) complete() error {
	if c.BaseBranch == "" {
		c.BaseBranch = repo.DefaultBaseBranch
	}
	if c.VCS == "" {
		c.VCS = repo.BackendCLI
	}
	if c.Format.MinVersion == "" {
		c.Format.MinVersion = DefaultMinVersion
	}
	if c.Format.Style == "" {
		c.Format.Style = DefaultStyle
	}
	if c.Format.Filter == "" {
		c.Format.Filter = DefaultFormatFilter
	}
	if c.Tidy.MinVersion == "" {
		c.Tidy.MinVersion = DefaultMinVersion
	}
	if c.Tidy.BuildDir == "" {
		c.Tidy.BuildDir = DefaultBuildDir
	}
	if c.Tidy.Filter == "" {
		c.Tidy.Filter = DefaultTidyFilter
	}

	var err error
	if c.Format.minVersion, err = parseVersion("format.minVersion", c.Format.MinVersion); err != nil {
		return err
	}
	if c.Tidy.minVersion, err = parseVersion("tidy.minVersion", c.Tidy.MinVersion); err != nil {
		return err
	}
	if c.Format.filter, err = compileFilter("format.filter", c.Format.Filter); err != nil {
		return err
	}
	if c.Tidy.filter, err = compileFilter("tidy.filter", c.Tidy.Filter); err != nil {
		return err
	}
	return nil
}

func parseVersion(prop, val string) (tool.Version, error) {
	v, err := tool.ParseVersion(val)
	if err != nil {
		return tool.Version{}, &InvalidVersionError{Property: prop, Value: val}
	}
	return v, nil
}

func compileFilter(prop, val string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(val)
	if err != nil {
		return nil, &InvalidFilterError{Property: prop, Value: val, Wrapped: err}
	}
	return re, nil
}
