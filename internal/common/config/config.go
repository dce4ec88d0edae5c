// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Session       SessionConfig      `mapstructure:"session"`
	Database      DatabaseConfig     `mapstructure:"database"`
	APIs          APIsConfig         `mapstructure:"apis"`
	Registry      RegistryConfig     `mapstructure:"registry"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	CookieName      string `mapstructure:"cookie_name"`
	SecureCookie    bool   `mapstructure:"secure_cookie"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// SessionConfig selects the session-scoped store backend.
type SessionConfig struct {
	Backend    string `mapstructure:"backend"` // "redis" or "memory"
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Specific Configuration Sections ---

// EndpointConfig describes one outbound call. Timeout 0 leaves the transport default.
type EndpointConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// APIsConfig holds the verification and registration endpoints.
type APIsConfig struct {
	Verification EndpointConfig `mapstructure:"verification"`
	Registration EndpointConfig `mapstructure:"registration"`
}

// RegistryConfig points at the exported form registry used by the form-registry tool.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// NotificationConfig holds settings for pass delivery.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// Enabled reports whether any delivery channel is switched on.
func (n NotificationConfig) Enabled() bool {
	return n.Email.Enabled || n.SMS.Enabled
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
