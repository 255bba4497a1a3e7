/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rentfleet",
	Short: "Rental fleet API server",
	Long: `Rental fleet API server: user registration, login and car listings
backed by PostgreSQL.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
