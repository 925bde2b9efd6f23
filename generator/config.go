// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Parameter keys accepted in the plugin parameter string.
const (
	ParamModulePrefix = "module_prefix"
	ParamPackageInit  = "package_init"
	ParamConfig       = "config"
	ParamExclude      = "exclude"
	ParamLogLevel     = "log_level"
)

// Config contains generator configuration.
type Config struct {
	// ModulePrefix is prepended to the module path of cross-file imports
	// (e.g., "gen." turns "acme.v1" into "gen.acme.v1").
	ModulePrefix string

	// PackageInit emits an empty __init__.py in every generated package
	// directory.
	PackageInit bool

	// Exclude lists doublestar patterns of .proto paths not to generate.
	Exclude []string

	// LogLevel is the slog level name, empty for the default.
	LogLevel string

	// ConfigFile is the options file the configuration was read from.
	ConfigFile string

	// TypeOverrides maps fully-qualified message names to the annotation
	// rendered in their place.
	TypeOverrides map[string]string

	// Options contains target-specific options.
	Options map[string]string
}

// Option returns a target-specific option with default.
func (c Config) Option(key, defaultValue string) string {
	if v, ok := c.Options[key]; ok {
		return v
	}
	return defaultValue
}

// Excluded reports whether path matches one of the Exclude patterns.
func (c Config) Excluded(path string) bool {
	for _, pattern := range c.Exclude {
		// Patterns are validated when the configuration is parsed.
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// optionsFile is the YAML options file layout.
type optionsFile struct {
	ModulePrefix  *string           `yaml:"module_prefix"`
	PackageInit   *bool             `yaml:"package_init"`
	Exclude       []string          `yaml:"exclude"`
	LogLevel      *string           `yaml:"log_level"`
	TypeOverrides map[string]string `yaml:"type_overrides"`
	Options       map[string]string `yaml:"options"`
}

// ParseParameter parses the comma-separated key=value plugin parameter.
//
// When the config key names an options file, the file is read first and
// the other parameters override its values. Unknown keys are an error.
func ParseParameter(param string) (Config, error) {
	values := make(map[string]string)
	for _, pair := range strings.Split(param, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Config{}, fmt.Errorf("parameter %q is not key=value", pair)
		}
		switch key {
		case ParamModulePrefix, ParamPackageInit, ParamConfig, ParamExclude, ParamLogLevel:
		default:
			return Config{}, fmt.Errorf("unknown parameter %q", key)
		}
		if _, dup := values[key]; dup {
			return Config{}, fmt.Errorf("parameter %q given twice", key)
		}
		values[key] = value
	}

	var cfg Config
	if path, ok := values[ParamConfig]; ok {
		loaded, err := LoadOptionsFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if v, ok := values[ParamModulePrefix]; ok {
		cfg.ModulePrefix = v
	}
	if v, ok := values[ParamPackageInit]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parameter %s: %w", ParamPackageInit, err)
		}
		cfg.PackageInit = b
	}
	if v, ok := values[ParamExclude]; ok {
		cfg.Exclude = nil
		for _, pattern := range strings.Split(v, ";") {
			if pattern != "" {
				cfg.Exclude = append(cfg.Exclude, pattern)
			}
		}
	}
	if v, ok := values[ParamLogLevel]; ok {
		cfg.LogLevel = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOptionsFile reads a YAML options file.
func LoadOptionsFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read options file %s: %w", path, err)
	}
	cfg, err := ParseOptions(data)
	if err != nil {
		return Config{}, fmt.Errorf("options file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return cfg, nil
}

// ParseOptions decodes YAML options. Unknown keys are an error.
func ParseOptions(data []byte) (Config, error) {
	var of optionsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&of); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse options YAML: %w", err)
	}

	cfg := Config{
		Exclude:       of.Exclude,
		TypeOverrides: of.TypeOverrides,
		Options:       of.Options,
	}
	if of.ModulePrefix != nil {
		cfg.ModulePrefix = *of.ModulePrefix
	}
	if of.PackageInit != nil {
		cfg.PackageInit = *of.PackageInit
	}
	if of.LogLevel != nil {
		cfg.LogLevel = *of.LogLevel
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	for name, annotation := range c.TypeOverrides {
		if strings.HasPrefix(name, ".") || name == "" {
			return fmt.Errorf("type override %q: want a full name without a leading dot", name)
		}
		if strings.TrimSpace(annotation) == "" {
			return fmt.Errorf("type override %q: empty annotation", name)
		}
	}
	return nil
}
