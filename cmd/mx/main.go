// Package main implements the mx CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mikepapadim/mx/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "mx",
	Short: "Java platform-module synthesis for distribution jars",
	Long:  "mx derives Java module descriptors for pre-built distribution jars and packs them into modular jars.",
}

// main registers subcommands and persistent flags, then executes the root
// command. A command error exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("suite", "", "path to suite.toml or a directory containing one")
	rootCmd.PersistentFlags().String("jdk", "", "JDK home to synthesize against (defaults to JAVA_HOME)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
