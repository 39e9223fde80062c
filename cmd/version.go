package cmd

import (
	"fmt"

	"otlabs.dev/labgate/internal/brand"
)

// RunVersion prints build information.
func RunVersion() {
	fmt.Printf("%s %s\n", brand.Name, brand.Version)
	fmt.Printf("  commit: %s\n", brand.GitCommit)
	fmt.Printf("  built:  %s\n", brand.BuildTime)
}
