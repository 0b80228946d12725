package main

import (
	"github.com/spf13/cobra"
)

const app = "jobfinder"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "jobfinder ranks job postings against a resume",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
