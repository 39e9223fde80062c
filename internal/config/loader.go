package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// LoadFile loads a config file (HCL or JSON), normalizes it and applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg *Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		cfg, err = LoadJSON(data)
	case ".hcl":
		cfg, err = LoadHCL(data, path)
	default:
		// Try HCL first, fall back to JSON
		cfg, err = LoadHCL(data, path)
		if err != nil {
			cfg, err = LoadJSON(data)
		}
	}
	if err != nil {
		return nil, err
	}

	cfg.Normalize()
	ApplyEnv(cfg)
	return cfg, nil
}

// LoadHCL parses config from HCL bytes.
func LoadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse error: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("HCL decode error: %s", diags.Error())
	}
	return &cfg, nil
}

// LoadJSON parses config from JSON bytes.
func LoadJSON(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	return &cfg, nil
}

// FromEnv builds a config purely from defaults and environment variables,
// for deployments that ship no config file.
func FromEnv() *Config {
	cfg := Default()
	ApplyEnv(cfg)
	return cfg
}
