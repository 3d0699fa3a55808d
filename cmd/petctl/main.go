package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "petctl",
		Short: "Maintenance tasks for the pet adoption API",
		Long: `petctl runs one-off maintenance against the pet adoption database.
It reads the same .env / environment settings as the API server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(hashPasswordsCmd())
	rootCmd.AddCommand(seedDemoCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
