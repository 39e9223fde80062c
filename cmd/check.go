package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"otlabs.dev/labgate/internal/brand"
	"otlabs.dev/labgate/internal/config"
	"otlabs.dev/labgate/internal/content"
	"otlabs.dev/labgate/internal/protocol"
)

// RunCheck validates the configuration file syntax and semantics.
func RunCheck(configFile string, verbose bool) error {
	if configFile == "" {
		return fmt.Errorf("usage: %s check [-v] <config-file>\nExample: %s check -v %s/%s",
			brand.BinaryName, brand.BinaryName, brand.DefaultConfigDir, brand.ConfigFileName)
	}

	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Printf("Configuration valid!\n")
	fmt.Printf("Listen: %s\n", cfg.API.Listen)
	fmt.Printf("Origin check: %s\n", cfg.API.OriginCheck)
	fmt.Printf("Allowed hosts: %d\n", len(cfg.API.AllowedHosts))
	fmt.Printf("Lab controller: %s\n", labSummary(cfg))
	fmt.Printf("Lab timeout: %s\n", cfg.LabTimeout())

	if verbose {
		fmt.Println()
		printProtocolSummary()
	}
	return nil
}

func labSummary(cfg *config.Config) string {
	if cfg.Lab.GuestURL == "" && cfg.Lab.AdminURL == "" {
		return "not configured"
	}
	if cfg.Lab.Token != "" {
		return "configured (with token)"
	}
	return "configured (no token)"
}

// printProtocolSummary cross-references the access policy against the
// content catalog so a missing learning page shows up before deploy.
func printProtocolSummary() {
	catalog := content.NewMemoryStore()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PROTOCOL\tGUEST\tPAGE\tPORT")
	for _, p := range protocol.All() {
		guest := "-"
		if protocol.IsGuestAllowed(p) {
			guest = "yes"
		}
		page := "MISSING"
		port := "-"
		if pg, err := catalog.Protocol(string(p)); err == nil {
			page = "ok"
			port = fmt.Sprintf("%d", pg.TransportLayer.Port)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p, guest, page, port)
	}
	w.Flush()
}
