// Package config defines the gateway configuration and its HCL/JSON
// loaders. Environment variables override file values so containerized
// deployments can run without a config file at all.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Origin check modes for the request perimeter.
const (
	OriginEnforce = "enforce" // reject cross-origin state-changing requests (default)
	OriginLog     = "log"     // log violations but let requests through
	OriginOff     = "off"     // disable the check entirely
)

// Config is the root gateway configuration.
type Config struct {
	API *APIConfig `hcl:"api,block" json:"api,omitempty"`
	Lab *LabConfig `hcl:"lab,block" json:"lab,omitempty"`
	Log *LogConfig `hcl:"log,block" json:"log,omitempty"`
}

// APIConfig configures the HTTP listener and the origin validation gate.
type APIConfig struct {
	Listen string `hcl:"listen,optional" json:"listen,omitempty"` // default :8080

	// AllowedHosts are deployment hostnames accepted by the origin gate in
	// addition to the request's own Host header. Entries may be bare
	// hostnames or host:port.
	AllowedHosts []string `hcl:"allowed_hosts,optional" json:"allowed_hosts,omitempty"`

	// OriginCheck selects the gate mode: enforce, log, or off.
	// Anything other than enforce is intended for controlled/test
	// deployments only.
	OriginCheck string `hcl:"origin_check,optional" json:"origin_check,omitempty"`

	// SessionTTLMinutes bounds how long an issued session stays valid.
	SessionTTLMinutes int `hcl:"session_ttl_minutes,optional" json:"session_ttl_minutes,omitempty"`
}

// LabConfig points the gateway at the external lab controller.
type LabConfig struct {
	// BaseURL is the controller root; guest/admin/diagnostics URLs derive
	// from it when not set explicitly.
	BaseURL  string `hcl:"base_url,optional" json:"base_url,omitempty"`
	GuestURL string `hcl:"guest_url,optional" json:"guest_url,omitempty"`
	AdminURL string `hcl:"admin_url,optional" json:"admin_url,omitempty"`
	DiagURL  string `hcl:"diag_url,optional" json:"diag_url,omitempty"`

	// Token is forwarded to the controller as an X-Auth-Token header.
	Token string `hcl:"token,optional" json:"token,omitempty"`

	// TimeoutSeconds bounds every outbound controller call. No retries
	// are attempted; a failed call is surfaced immediately.
	TimeoutSeconds int `hcl:"timeout_seconds,optional" json:"timeout_seconds,omitempty"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `hcl:"level,optional" json:"level,omitempty"` // debug, info, warn, error
	JSON  bool   `hcl:"json,optional" json:"json,omitempty"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in defaults and derives the lab URLs from the base URL.
func (c *Config) Normalize() {
	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.Lab == nil {
		c.Lab = &LabConfig{}
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}

	if c.API.Listen == "" {
		c.API.Listen = ":8080"
	}
	if c.API.OriginCheck == "" {
		c.API.OriginCheck = OriginEnforce
	}
	if c.API.SessionTTLMinutes <= 0 {
		c.API.SessionTTLMinutes = 12 * 60
	}

	if c.Lab.TimeoutSeconds <= 0 {
		c.Lab.TimeoutSeconds = 10
	}
	if base := strings.TrimSuffix(c.Lab.BaseURL, "/"); base != "" {
		if c.Lab.GuestURL == "" {
			c.Lab.GuestURL = base + "/guest"
		}
		if c.Lab.AdminURL == "" {
			c.Lab.AdminURL = base + "/admin"
		}
		if c.Lab.DiagURL == "" {
			c.Lab.DiagURL = base + "/diagnostics"
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LabTimeout returns the outbound call timeout as a duration.
func (c *Config) LabTimeout() time.Duration {
	return time.Duration(c.Lab.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values that would misbehave at
// runtime. Normalize must have been called first.
func (c *Config) Validate() error {
	switch c.API.OriginCheck {
	case OriginEnforce, OriginLog, OriginOff:
	default:
		return fmt.Errorf("api.origin_check: unknown mode %q", c.API.OriginCheck)
	}

	for _, u := range []string{c.Lab.GuestURL, c.Lab.AdminURL, c.Lab.DiagURL} {
		if u == "" {
			continue // unconfigured controller is allowed; the client degrades
		}
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("lab: invalid controller URL %q", u)
		}
	}

	for _, h := range c.API.AllowedHosts {
		if strings.ContainsAny(h, " /") {
			return fmt.Errorf("api.allowed_hosts: %q is not a hostname", h)
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}

	return nil
}
