package config

// Config is the root configuration for octomcp.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github,omitempty"`
	Gateway GatewayConfig `yaml:"gateway,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Audit   AuditConfig   `yaml:"audit,omitempty"`
}

// GitHubConfig controls the outbound GitHub REST client.
type GitHubConfig struct {
	Token          string `yaml:"token,omitempty"`          // personal access token; supports ${ENV_VAR} expansion
	BaseURL        string `yaml:"baseUrl,omitempty"`        // override for GitHub Enterprise, default https://api.github.com
	APIVersion     string `yaml:"apiVersion,omitempty"`     // X-GitHub-Api-Version header value
	UserAgent      string `yaml:"userAgent,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"` // per-call deadline for upstream requests
}

// GatewayConfig controls the optional HTTP/WebSocket front.
type GatewayConfig struct {
	Port           int         `yaml:"port,omitempty"`
	Bind           string      `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string      `yaml:"customBindHost,omitempty"`
	Auth           GatewayAuth `yaml:"auth,omitempty"`
}

// GatewayAuth configures gateway authentication.
type GatewayAuth struct {
	Mode  string `yaml:"mode,omitempty"` // "token" | "none"
	Token string `yaml:"token,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleLevel string `yaml:"consoleLevel,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}

// AuditConfig configures the sqlite invocation audit log.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"` // defaults to <data>/audit.db
}
