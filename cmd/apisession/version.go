package main

import (
	"runtime"

	"github.com/deploymenttheory/go-api-session-client/version"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.AppName, "version:", version.Version)
			cmd.Println("Go version:", runtime.Version())
			cmd.Println("Platform:", runtime.GOOS+"/"+runtime.GOARCH)
		},
	}
}
