package issuepass

import (
	"fmt"
	"time"
)

type Config struct {
	EmailEnabled bool          `mapstructure:"email_enabled"`
	SMSEnabled   bool          `mapstructure:"sms_enabled"`
	FromEmail    string        `mapstructure:"from_email"`
	SenderID     string        `mapstructure:"sender_id"`
	AWSRegion    string        `mapstructure:"aws_region"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		EmailEnabled: false,
		SMSEnabled:   false,
		Timeout:      10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.EmailEnabled && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when email delivery is enabled")
	}
	if (c.EmailEnabled || c.SMSEnabled) && c.AWSRegion == "" {
		return fmt.Errorf("aws_region is required when pass delivery is enabled")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func (c *Config) deliveryEnabled() bool {
	return c.EmailEnabled || c.SMSEnabled
}
