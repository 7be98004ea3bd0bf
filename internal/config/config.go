package config

import (
	"errors"
	"fmt"
)

// ErrUsage is returned for a bad command line
var ErrUsage = errors.New("usage error")

// Config holds the settings for a single poll
type Config struct {
	Program  string
	Key      string
	Binary   string
	ChartDir string
	Debug    bool
}

// Validate checks the requested key against the tool's fields
func (c *Config) Validate(validKey func(string) bool) error {
	if c.Key == "" || !validKey(c.Key) {
		return fmt.Errorf("%w: unknown key %q", ErrUsage, c.Key)
	}
	if c.Binary == "" {
		return fmt.Errorf("binary cannot be empty")
	}
	return nil
}

// Usage is the message printed to standard output on a usage error
func Usage(program string) string {
	return fmt.Sprintf("Usage: %s <key>", program)
}
