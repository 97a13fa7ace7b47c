package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikepapadim/mx/internal/version"
)

const versionTagline = "modules for jars built without them"

var (
	versionShowHash bool
	versionShowDate bool
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show mx build fingerprints",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), versionShowHash || versionShowFull, versionShowDate || versionShowFull)
	},
}

func printVersion(out io.Writer, showHash, showDate bool) {
	fmt.Fprintf(out, "mx %s - %s\n", fallback(version.Version, "dev"), versionTagline)
	if showHash {
		fmt.Fprintf(out, "commit: %s\n", fallback(version.GitCommit, "unknown"))
	}
	if showDate {
		fmt.Fprintf(out, "built:  %s\n", fallback(version.BuildDate, "unknown"))
	}
	if !showHash && !showDate {
		fmt.Fprintln(out, "set --hash, --date, or --full for more build trivia")
	}
}

func fallback(s, alt string) string {
	if s = strings.TrimSpace(s); s == "" {
		return alt
	}
	return s
}
