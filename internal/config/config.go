// Package config loads user settings for create-solana-starter.
//
// Values are layered: built-in defaults, then config.yaml in the config
// directory, then SOLSTARTER_* environment variables. Command-line flags are
// applied last by the caller.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
	"github.com/NielsdaWheelz/create-solana-starter/internal/fs"
	"github.com/NielsdaWheelz/create-solana-starter/internal/workflow"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOLSTARTER_"

// Config is the resolved configuration.
type Config struct {
	// Sandbox configures the container backend.
	Sandbox SandboxConfig `yaml:"sandbox" envPrefix:"SANDBOX_"`

	// Frontend configures the starter UI cloned into the project.
	Frontend FrontendConfig `yaml:"frontend" envPrefix:"FRONTEND_"`

	// Program is the program stub variant: basic or data.
	Program string `yaml:"program" env:"PROGRAM"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// SandboxConfig configures the container backend.
type SandboxConfig struct {
	// Image provides anchor, solana, node and git.
	Image string `yaml:"image" env:"IMAGE"`

	// Name is the container name. A leftover container with this name is
	// removed when a run starts.
	Name string `yaml:"name" env:"NAME"`

	// WorkDir is the absolute working directory inside the container.
	WorkDir string `yaml:"workdir" env:"WORKDIR"`

	// DockerBin is the runtime CLI.
	DockerBin string `yaml:"docker_bin" env:"DOCKER_BIN"`

	// KeepOnFailure leaves the container running after a failed run.
	KeepOnFailure bool `yaml:"keep_on_failure" env:"KEEP_ON_FAILURE"`
}

// FrontendConfig configures the starter UI.
type FrontendConfig struct {
	URL string `yaml:"url" env:"URL"`
	Dir string `yaml:"dir" env:"DIR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sandbox: SandboxConfig{
			Image:     "backpackapp/build:v0.27.0",
			Name:      "create-solana-starter",
			WorkDir:   "/workdir",
			DockerBin: "docker",
		},
		Frontend: FrontendConfig{
			URL: workflow.DefaultFrontendURL,
			Dir: workflow.DefaultFrontendDir,
		},
		Program:  "basic",
		LogLevel: "info",
	}
}

// Load layers config.yaml from configDir (a missing file is fine) and the
// SOLSTARTER_* variables in environ over the defaults. Only environ is
// consulted, never the process environment. The result is not validated;
// call Validate once flags are applied.
func Load(fsys fs.FS, configDir string, environ map[string]string) (Config, error) {
	cfg := Default()

	path := filepath.Join(configDir, FileName)
	data, err := fsys.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, errors.WrapWithDetails(errors.EInvalidConfig, "invalid "+FileName+": "+err.Error(), err,
				map[string]string{"path": path})
		}
	case !os.IsNotExist(err):
		return Config{}, errors.WrapWithDetails(errors.EInvalidConfig, "failed to read "+FileName, err,
			map[string]string{"path": path})
	}

	if environ == nil {
		environ = map[string]string{}
	}
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(errors.EInvalidConfig, "invalid environment override: "+err.Error(), err)
	}
	return cfg, nil
}

// decodeYAML merges data into cfg, rejecting unknown keys. An empty document
// leaves cfg unchanged.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// SlogLevel returns the slog level for LogLevel. Validate rejects unknown
// names; anything unrecognized here maps to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
