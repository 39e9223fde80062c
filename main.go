package main

import (
	"flag"
	"fmt"
	"os"

	"otlabs.dev/labgate/cmd"
	"otlabs.dev/labgate/internal/brand"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
		configFile := serveFlags.String("config", "", "Configuration file (HCL or JSON)")
		serveFlags.StringVar(configFile, "c", "", "Configuration file (short)")
		listen := serveFlags.String("listen", "", "Listen address override")
		serveFlags.StringVar(listen, "l", "", "Listen address override (short)")
		serveFlags.Parse(os.Args[2:])

		if err := cmd.RunServe(*configFile, *listen); err != nil {
			fmt.Fprintf(os.Stderr, "Serve failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("v", false, "Verbose output")
		checkFlags.Parse(os.Args[2:])

		configFile := checkFlags.Arg(0)
		if configFile == "" {
			configFile = brand.DefaultConfigDir + "/" + brand.ConfigFileName
		}
		if err := cmd.RunCheck(configFile, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	case "version", "--version", "-v":
		cmd.RunVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - lab access gateway for %s

Usage:
  %s <command> [options]

Commands:
  serve     Start the gateway
            Options: --config (-c) <file>, --listen (-l) <addr>
  check     Validate a configuration file
            Options: -v (verbose, prints the protocol table)
  version   Show build information
  help      Show this help

Configuration is read from the file given with --config, then overridden
by environment variables (LAB_API_BASE, LAB_API_TOKEN, LABGATE_LISTEN,
LABGATE_ALLOWED_HOSTS, LABGATE_ORIGIN_CHECK, ...). With no file, the
environment alone is used.
`, brand.Name, brand.Vendor, brand.BinaryName)
}
