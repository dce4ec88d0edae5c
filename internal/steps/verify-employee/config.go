package verifyemployee

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 leaves the transport default
}

func DefaultConfig() *Config {
	return &Config{}
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("verification url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("verification url %q is not absolute", c.URL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
