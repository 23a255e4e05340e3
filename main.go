package main

import (
	"fmt"
	"os"

	"github.com/planboard/planboard/cmd"
	"github.com/planboard/planboard/internal/conf"
	"github.com/planboard/planboard/internal/logging"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
