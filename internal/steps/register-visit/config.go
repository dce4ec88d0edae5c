package registervisit

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 leaves the transport default
	// CheckContract validates every payload against the registration schema
	// before it is sent.
	CheckContract bool `mapstructure:"check_contract"`
}

func DefaultConfig() *Config {
	return &Config{
		CheckContract: true,
	}
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("registration url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("registration url %q is not absolute", c.URL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
