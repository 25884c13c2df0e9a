// Package cli implements pulsectl, the command-line client for the
// pulseboard API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pulsectl",
		Short:         "Pulseboard CLI",
		Long:          "Command-line client for the pulseboard dashboard query backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("addr", "http://localhost:8080", "Server address (env PULSEBOARD_ADDR)")
	rootCmd.PersistentFlags().String("token", "", "Bearer token (env PULSEBOARD_TOKEN)")
	rootCmd.PersistentFlags().String("output", "table", "Output format: table or json")

	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// serverAddr resolves the server address: flag > environment > default.
func serverAddr(cmd *cobra.Command) string {
	flags := cmd.Root().PersistentFlags()
	if !flags.Changed("addr") {
		if v := os.Getenv("PULSEBOARD_ADDR"); v != "" {
			return v
		}
	}
	v, _ := flags.GetString("addr")
	return v
}

// bearerToken resolves the bearer token: flag > environment.
func bearerToken(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("token")
	if v == "" {
		v = os.Getenv("PULSEBOARD_TOKEN")
	}
	return v
}

// outputFormat returns the effective output format from the root command's
// persistent flags.
func outputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}
