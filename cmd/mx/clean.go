package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove synthesized module artifacts",
	Long:  "Remove the modules tree under the suite output root: staged module dirs, descriptor snapshots and modular jars.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	st, err := loadSuite(cmd)
	if err != nil {
		return err
	}
	modulesDir := filepath.Join(st.Output, "modules")
	info, err := os.Stat(modulesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "modules directory not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", modulesDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", modulesDir)
	}
	if err := os.RemoveAll(modulesDir); err != nil {
		return fmt.Errorf("failed to remove %q: %w", modulesDir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", formatPathForOutput(st.Dir, modulesDir))
	return nil
}

// formatPathForOutput prints path relative to root when it nests inside.
func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
