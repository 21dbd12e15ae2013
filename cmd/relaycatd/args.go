package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// Args are the command line arguments relaycatd accepts.
type Args struct {
	ConfigFile string
}

func getArgs() (*Args, error) {
	configFile := flag.String("conf", "", "Configuration file.")
	flag.Parse()

	if len(*configFile) == 0 {
		printUsage()
		return nil, fmt.Errorf("you must provide a configuration file")
	}

	configPath, err := filepath.Abs(*configFile)
	if err != nil {
		return nil, fmt.Errorf("unable to determine path to the configuration file: %s", err)
	}

	return &Args{ConfigFile: configPath}, nil
}

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, "Usage: %s <arguments>\n", os.Args[0])
	flag.PrintDefaults()
}
