package email

import "fmt"

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		SMTPHost:     "localhost",
		SMTPPort:     587,
		FromEmail:    "noreply@offmarket.local",
		FromName:     "Offmarket",
		UseTLS:       true,
		Timeout:      10,
		TemplatePath: "./templates/email",
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTPPort)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
