package config

import (
	"path"
	"regexp"
	"strings"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
	"github.com/NielsdaWheelz/create-solana-starter/internal/scaffold"
)

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field string
	Msg   string
}

func (v *ValidationError) Error() string {
	if v.Field != "" {
		return v.Field + ": " + v.Msg
	}
	return v.Msg
}

// containerName matches the names Docker accepts for --name.
var containerName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Validate checks the resolved configuration.
// Returns E_INVALID_CONFIG naming the first offending field.
func (c Config) Validate() error {
	if err := c.validate(); err != nil {
		return errors.WrapWithDetails(errors.EInvalidConfig, err.Error(), err,
			map[string]string{"field": err.Field})
	}
	return nil
}

func (c Config) validate() *ValidationError {
	if strings.TrimSpace(c.Sandbox.Image) == "" {
		return &ValidationError{Field: "sandbox.image", Msg: "must not be empty"}
	}
	if !containerName.MatchString(c.Sandbox.Name) {
		return &ValidationError{Field: "sandbox.name", Msg: "must be a valid container name, got " + quote(c.Sandbox.Name)}
	}
	if !path.IsAbs(c.Sandbox.WorkDir) {
		return &ValidationError{Field: "sandbox.workdir", Msg: "must be an absolute path, got " + quote(c.Sandbox.WorkDir)}
	}
	if c.Sandbox.DockerBin == "" {
		return &ValidationError{Field: "sandbox.docker_bin", Msg: "must not be empty"}
	}

	if strings.TrimSpace(c.Frontend.URL) == "" {
		return &ValidationError{Field: "frontend.url", Msg: "must not be empty"}
	}
	if !isPlainDirName(c.Frontend.Dir) {
		return &ValidationError{Field: "frontend.dir", Msg: "must be a single directory name, got " + quote(c.Frontend.Dir)}
	}

	if _, err := scaffold.ParseProgramVariant(c.Program); err != nil {
		return &ValidationError{Field: "program", Msg: "must be basic or data, got " + quote(c.Program)}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "log_level", Msg: "must be debug, info, warn or error, got " + quote(c.LogLevel)}
	}
	return nil
}

func isPlainDirName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func quote(s string) string {
	return `"` + s + `"`
}
