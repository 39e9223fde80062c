package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables recognized by ApplyEnv. The LAB_* names match
// what the lab controller deployments already export; LABGATE_* names
// cover the gateway's own knobs.
const (
	EnvLabBase      = "LAB_API_BASE"
	EnvLabGuest     = "LAB_GUEST_URL"
	EnvLabAdmin     = "LAB_ADMIN_URL"
	EnvLabDiag      = "LAB_DIAG_URL"
	EnvLabToken     = "LAB_API_TOKEN"
	EnvLabTimeout   = "LAB_TIMEOUT_SECONDS"
	EnvListen       = "LABGATE_LISTEN"
	EnvAllowedHosts = "LABGATE_ALLOWED_HOSTS" // comma-separated
	EnvOriginCheck  = "LABGATE_ORIGIN_CHECK"  // enforce, log, off
	EnvLogLevel     = "LABGATE_LOG_LEVEL"
	EnvLogJSON      = "LABGATE_LOG_JSON"
)

// ApplyEnv overlays environment variables onto cfg. File values lose to
// the environment; the derived guest/admin/diag URLs are re-computed when
// only the base changes.
func ApplyEnv(cfg *Config) {
	cfg.Normalize()

	if v := os.Getenv(EnvLabBase); v != "" {
		cfg.Lab.BaseURL = v
		// Re-derive unless explicitly overridden below.
		base := strings.TrimSuffix(v, "/")
		cfg.Lab.GuestURL = base + "/guest"
		cfg.Lab.AdminURL = base + "/admin"
		cfg.Lab.DiagURL = base + "/diagnostics"
	}
	if v := os.Getenv(EnvLabGuest); v != "" {
		cfg.Lab.GuestURL = v
	}
	if v := os.Getenv(EnvLabAdmin); v != "" {
		cfg.Lab.AdminURL = v
	}
	if v := os.Getenv(EnvLabDiag); v != "" {
		cfg.Lab.DiagURL = v
	}
	if v := os.Getenv(EnvLabToken); v != "" {
		cfg.Lab.Token = v
	}
	if v := os.Getenv(EnvLabTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Lab.TimeoutSeconds = secs
		}
	}

	if v := os.Getenv(EnvListen); v != "" {
		cfg.API.Listen = v
	}
	if v := os.Getenv(EnvAllowedHosts); v != "" {
		hosts := []string{}
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hosts = append(hosts, h)
			}
		}
		cfg.API.AllowedHosts = hosts
	}
	if v := os.Getenv(EnvOriginCheck); v != "" {
		cfg.API.OriginCheck = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogJSON); v == "1" || v == "true" {
		cfg.Log.JSON = true
	}
}
