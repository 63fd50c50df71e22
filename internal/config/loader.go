package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so tokens can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.GitHub.Token = expandEnvVars(cfg.GitHub.Token)
	cfg.Gateway.Auth.Token = expandEnvVars(cfg.Gateway.Auth.Token)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to a YAML config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.GitHub.BaseURL == "" {
		cfg.GitHub.BaseURL = "https://api.github.com"
	}
	if cfg.GitHub.APIVersion == "" {
		cfg.GitHub.APIVersion = "2022-11-28"
	}
	if cfg.GitHub.UserAgent == "" {
		cfg.GitHub.UserAgent = "octomcp"
	}
	if cfg.GitHub.TimeoutSeconds == 0 {
		cfg.GitHub.TimeoutSeconds = 30
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 18990
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = "loopback"
	}
	if cfg.Gateway.Auth.Mode == "" {
		cfg.Gateway.Auth.Mode = "token"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.ConsoleLevel == "" {
		cfg.Logging.ConsoleLevel = "info"
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = "pretty"
	}
}

// applyEnvOverrides reads OCTOMCP_* environment variables and overrides config
// values. The GitHub token also falls back to the conventional GITHUB_TOKEN /
// GITHUB_PERSONAL_ACCESS_TOKEN variables so the server works with no config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OCTOMCP_GITHUB_TOKEN"); v != "" {
		cfg.GitHub.Token = v
	}
	if cfg.GitHub.Token == "" {
		if v := os.Getenv("GITHUB_PERSONAL_ACCESS_TOKEN"); v != "" {
			cfg.GitHub.Token = v
		} else if v := os.Getenv("GITHUB_TOKEN"); v != "" {
			cfg.GitHub.Token = v
		}
	}
	if v := os.Getenv("OCTOMCP_GITHUB_BASE_URL"); v != "" {
		cfg.GitHub.BaseURL = v
	}
	if v := os.Getenv("OCTOMCP_GATEWAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = port
		}
	}
	if v := os.Getenv("OCTOMCP_GATEWAY_BIND"); v != "" {
		cfg.Gateway.Bind = v
	}
	if v := os.Getenv("OCTOMCP_GATEWAY_TOKEN"); v != "" {
		cfg.Gateway.Auth.Token = v
	}
	if v := os.Getenv("OCTOMCP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}
