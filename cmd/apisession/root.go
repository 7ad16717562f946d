package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	rootCmd := createRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func createRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "apisession",
		Short:         "Send requests through an authenticated, self-refreshing API session",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		requestCmd(),
		versionCmd(),
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	return rootCmd
}
