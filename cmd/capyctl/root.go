package main

import (
	"fmt"
	"os"

	"CapybaraPetService/config"

	"github.com/spf13/cobra"
)

// loadConfig подменяется в тестах
var loadConfig = config.LoadConfig

var rootCmd = &cobra.Command{
	Use:          "capyctl",
	Short:        "capyctl administers the capybara pet backend",
	Long:         "capyctl issues service tokens, applies database migrations and seeds reference data for the capybara pet backend.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
