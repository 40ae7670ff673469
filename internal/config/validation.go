package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationErrors is a custom error type that holds a slice of validation
// errors (allows for 1+).
type ValidationErrors []error

// Error implements the error interface for ValidationErrors.
// It joins all the underlying errors into a single string.
func (v ValidationErrors) Error() string {
	var b strings.Builder

	b.WriteString("required arguments missing or invalid:\n")
	for _, err := range v {
		b.WriteString(fmt.Sprintf("  - %s\n", err))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Validate checks that the configuration describes a runnable comparison.
// All problems are collected so the user sees everything wrong at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Zone == "" {
		errs = append(errs, fmt.Errorf("--zone is required (domain being verified, eg: example.com)"))
	}

	if c.ZoneFile == "" {
		errs = append(errs, fmt.Errorf("--file is required (path to the zone file)"))
	}

	if c.Nameserver == "" {
		errs = append(errs, fmt.Errorf("--server is required (IP of the DNS server to compare against)"))
	} else if net.ParseIP(c.Nameserver) == nil {
		// Hostnames are rejected rather than resolved: resolving one would
		// depend on a working resolver, which is exactly what may be broken
		// during a migration.
		errs = append(errs, fmt.Errorf("--server must be an IP address, got %q", c.Nameserver))
	}

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, but got %d", c.Port))
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, but got %v", c.Timeout))
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
