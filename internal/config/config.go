package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		GitHub: GitHubConfig{
			BaseURL:        "https://api.github.com",
			APIVersion:     "2022-11-28",
			UserAgent:      "octomcp",
			TimeoutSeconds: 30,
		},
		Gateway: GatewayConfig{
			Port: 18990,
			Bind: "loopback",
			Auth: GatewayAuth{
				Mode: "token",
			},
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleLevel: "info",
			ConsoleStyle: "pretty",
		},
	}
}
