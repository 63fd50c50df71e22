package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// GitHub validation
	if cfg.GitHub.BaseURL != "" {
		if u, err := url.Parse(cfg.GitHub.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, ValidationIssue{
				Path:    "github.baseUrl",
				Message: fmt.Sprintf("must be an absolute URL, got %q", cfg.GitHub.BaseURL),
			})
		}
	}
	if cfg.GitHub.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "github.timeoutSeconds",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.GitHub.TimeoutSeconds),
		})
	}

	// Gateway validation
	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Gateway.Port),
		})
	}

	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Gateway.Bind != "" && !slices.Contains(validBinds, cfg.Gateway.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Gateway.Bind),
		})
	}
	if cfg.Gateway.Bind == "custom" && cfg.Gateway.CustomBindHost == "" {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.customBindHost",
			Message: "required when bind is custom",
		})
	}

	validAuthModes := []string{"token", "none"}
	if cfg.Gateway.Auth.Mode != "" && !slices.Contains(validAuthModes, cfg.Gateway.Auth.Mode) {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.auth.mode",
			Message: fmt.Sprintf("must be one of %v, got %q", validAuthModes, cfg.Gateway.Auth.Mode),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}
	if cfg.Logging.ConsoleLevel != "" && !slices.Contains(validLogLevels, cfg.Logging.ConsoleLevel) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleLevel",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.ConsoleLevel),
		})
	}

	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	return issues
}
