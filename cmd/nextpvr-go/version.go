package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set during build using ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintf(out, "v%s\n", version)
				return
			}
			fmt.Fprintf(out, "nextpvr-go v%s (%s %s) %s %s/%s\n",
				version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "print just the version number")
	return cmd
}
