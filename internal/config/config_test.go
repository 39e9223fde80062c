package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.API.Listen)
	assert.Equal(t, OriginEnforce, cfg.API.OriginCheck)
	assert.Equal(t, 10, cfg.Lab.TimeoutSeconds)
	assert.Equal(t, 10*time.Second, cfg.LabTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestNormalizeDerivesLabURLs(t *testing.T) {
	cfg := &Config{Lab: &LabConfig{BaseURL: "https://lab.example.com/"}}
	cfg.Normalize()

	assert.Equal(t, "https://lab.example.com/guest", cfg.Lab.GuestURL)
	assert.Equal(t, "https://lab.example.com/admin", cfg.Lab.AdminURL)
	assert.Equal(t, "https://lab.example.com/diagnostics", cfg.Lab.DiagURL)
}

func TestNormalizeKeepsExplicitURLs(t *testing.T) {
	cfg := &Config{Lab: &LabConfig{
		BaseURL:  "https://lab.example.com",
		GuestURL: "https://guest.example.com",
	}}
	cfg.Normalize()

	assert.Equal(t, "https://guest.example.com", cfg.Lab.GuestURL)
	assert.Equal(t, "https://lab.example.com/admin", cfg.Lab.AdminURL)
}

func TestLoadHCL(t *testing.T) {
	src := `
api {
  listen        = ":9090"
  allowed_hosts = ["labs.example.com", "labs.example.com:8443"]
  origin_check  = "enforce"
}

lab {
  base_url        = "https://controller.internal"
  token           = "secret"
  timeout_seconds = 5
}
`
	cfg, err := LoadHCL([]byte(src), "test.hcl")
	require.NoError(t, err)
	cfg.Normalize()

	assert.Equal(t, ":9090", cfg.API.Listen)
	assert.Equal(t, []string{"labs.example.com", "labs.example.com:8443"}, cfg.API.AllowedHosts)
	assert.Equal(t, "https://controller.internal/guest", cfg.Lab.GuestURL)
	assert.Equal(t, "secret", cfg.Lab.Token)
	assert.Equal(t, 5*time.Second, cfg.LabTimeout())
}

func TestLoadFileJSONFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labgate.json")
	data := `{"api": {"listen": ":7070"}, "lab": {"base_url": "https://c.example.com"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.API.Listen)
	assert.Equal(t, "https://c.example.com/admin", cfg.Lab.AdminURL)
}

func TestLoadHCLParseError(t *testing.T) {
	_, err := LoadHCL([]byte("api { listen = "), "broken.hcl")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLabBase, "https://env.example.com")
	t.Setenv(EnvLabToken, "tok-123")
	t.Setenv(EnvAllowedHosts, "a.example.com, b.example.com:8443")
	t.Setenv(EnvOriginCheck, "log")

	cfg := FromEnv()

	assert.Equal(t, "https://env.example.com/guest", cfg.Lab.GuestURL)
	assert.Equal(t, "https://env.example.com/admin", cfg.Lab.AdminURL)
	assert.Equal(t, "tok-123", cfg.Lab.Token)
	assert.Equal(t, []string{"a.example.com", "b.example.com:8443"}, cfg.API.AllowedHosts)
	assert.Equal(t, OriginLog, cfg.API.OriginCheck)
}

func TestApplyEnvExplicitURLBeatsBase(t *testing.T) {
	t.Setenv(EnvLabBase, "https://base.example.com")
	t.Setenv(EnvLabDiag, "https://diag.example.com")

	cfg := FromEnv()

	assert.Equal(t, "https://base.example.com/guest", cfg.Lab.GuestURL)
	assert.Equal(t, "https://diag.example.com", cfg.Lab.DiagURL)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.API.OriginCheck = "sometimes"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Lab.GuestURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.API.AllowedHosts = []string{"bad host"}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())
}
