// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package config

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	aqserr "github.com/odahub/renku-aqs/pkg/errors"
	"github.com/odahub/renku-aqs/pkg/types"
)

// EnvPrefix prefixes environment overrides, e.g. RENKU_AQS_PROVENANCE_ENDPOINT.
const EnvPrefix = "RENKU_AQS"

// Config is the top-level renku-aqs configuration.
type Config struct {
	Project     ProjectConfig     `mapstructure:"project"`
	Provenance  ProvenanceConfig  `mapstructure:"provenance"`
	Annotations AnnotationsConfig `mapstructure:"annotations"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Display     DisplayConfig     `mapstructure:"display"`
	Log         LogConfig         `mapstructure:"log"`
}

// ProjectConfig locates the renku project.
type ProjectConfig struct {
	Path      string `mapstructure:"path"`
	RenkuHome string `mapstructure:"renku_home"`
}

// ProvenanceConfig points at the host's provenance graph.
type ProvenanceConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	// GraphPath is the marker file written by `renku graph generate`.
	GraphPath string        `mapstructure:"graph_path"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Username  string        `mapstructure:"username"`
	// Password may be a keyring://service/key URI.
	Password string `mapstructure:"password"`
}

// AnnotationsConfig controls the hook callbacks.
type AnnotationsConfig struct {
	Dir      string `mapstructure:"dir"`
	ShimPath string `mapstructure:"shim_path"`
}

// StorageConfig selects the triple store backend used while inferring.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// DisplayConfig holds defaults for the display command.
type DisplayConfig struct {
	Filename string `mapstructure:"filename"`
	Format   string `mapstructure:"format"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key on v so environment overrides apply to
// all of them. Paths derived from the renku home are filled in by Resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("project.path", ".")
	v.SetDefault("project.renku_home", ".renku")
	v.SetDefault("provenance.endpoint", "")
	v.SetDefault("provenance.graph_path", "")
	v.SetDefault("provenance.timeout", "60s")
	v.SetDefault("provenance.username", "")
	v.SetDefault("provenance.password", "")
	v.SetDefault("annotations.dir", "")
	v.SetDefault("annotations.shim_path", "../sitecustomize.py")
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.path", "")
	v.SetDefault("display.filename", "graph.png")
	v.SetDefault("display.format", "png")
	v.SetDefault("log.level", "info")
}

// SetupEnv binds RENKU_AQS_* environment variables to config keys.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, aqserr.Errorf(aqserr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes, resolves and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, aqserr.Errorf(aqserr.CodeConfigParseInvalidFormat, "unmarshalling config: %w", err)
	}
	cfg.Resolve()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, aqserr.Errorf(aqserr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}
	return &cfg, nil
}

// RenkuPath is the renku home joined onto the project path.
func (c *Config) RenkuPath() string {
	if filepath.IsAbs(c.Project.RenkuHome) {
		return c.Project.RenkuHome
	}
	return filepath.Join(c.Project.Path, c.Project.RenkuHome)
}

// Resolve fills in paths that default to locations under the renku home.
func (c *Config) Resolve() {
	if c.Provenance.GraphPath == "" {
		c.Provenance.GraphPath = filepath.Join(c.RenkuPath(), "provenance.json")
	}
	if c.Annotations.Dir == "" {
		c.Annotations.Dir = filepath.Join(c.RenkuPath(), "aqs", "common")
	}
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateProject()...)
	errs = append(errs, c.validateProvenance()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateDisplay()...)
	errs = append(errs, c.validateLog()...)

	return errs
}

func invalid(format string, args ...any) error {
	return aqserr.Errorf(aqserr.CodeConfigValidateInvalidValue, "config: "+format, args...)
}

func (c *Config) validateProject() []error {
	var errs []error
	if c.Project.Path == "" {
		errs = append(errs, invalid("project.path must not be empty"))
	}
	if c.Project.RenkuHome == "" {
		errs = append(errs, invalid("project.renku_home must not be empty"))
	}
	return errs
}

func (c *Config) validateProvenance() []error {
	var errs []error

	if c.Provenance.Endpoint != "" {
		u, err := url.Parse(c.Provenance.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, invalid("provenance.endpoint must be an http(s) URL, got %q", c.Provenance.Endpoint))
		}
	}
	if c.Provenance.Timeout <= 0 {
		errs = append(errs, invalid("provenance.timeout must be greater than 0, got %s", c.Provenance.Timeout))
	}
	if c.Provenance.Password != "" && c.Provenance.Username == "" {
		errs = append(errs, invalid("provenance.password is set but provenance.username is empty"))
	}
	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, invalid("storage.backend must be one of [memory, sqlite], got %q", c.Storage.Backend))
	}
	if c.Storage.Backend == "memory" && c.Storage.Path != "" {
		errs = append(errs, invalid("storage.path is only used by the sqlite backend"))
	}
	return errs
}

func (c *Config) validateDisplay() []error {
	var errs []error

	if c.Display.Filename == "" {
		errs = append(errs, invalid("display.filename must not be empty"))
	}
	if _, err := types.ParseImageFormat(c.Display.Format); err != nil {
		errs = append(errs, invalid("display.format must be one of [png, svg, dot], got %q", c.Display.Format))
	}
	return errs
}

func (c *Config) validateLog() []error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return []error{invalid("log.level must be one of [debug, info, warn, error], got %q", c.Log.Level)}
}

// HasPlaintextPassword reports whether the provenance password is stored in
// the config rather than referenced from the keyring.
func (c *Config) HasPlaintextPassword() bool {
	p := c.Provenance.Password
	return p != "" && !strings.HasPrefix(p, "keyring://")
}
