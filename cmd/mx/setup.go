package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mikepapadim/mx/internal/jdk"
	"github.com/mikepapadim/mx/internal/suite"
)

// loadSuite resolves the suite manifest: the --suite flag when given,
// otherwise the nearest suite.toml at or above the working directory.
func loadSuite(cmd *cobra.Command) (*suite.Suite, error) {
	path, err := cmd.Root().PersistentFlags().GetString("suite")
	if err != nil {
		return nil, err
	}
	if path == "" {
		found, ok, findErr := suite.Find(".")
		if findErr != nil {
			return nil, findErr
		}
		if !ok {
			return nil, errors.New("no suite.toml found here or above; use --suite")
		}
		path = found
	} else if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		path = filepath.Join(path, suite.ManifestName)
	}
	return suite.Load(path)
}

// openJDK resolves the target JDK: the --jdk flag when given, otherwise
// JAVA_HOME.
func openJDK(cmd *cobra.Command) (*jdk.Config, error) {
	home, err := cmd.Root().PersistentFlags().GetString("jdk")
	if err != nil {
		return nil, err
	}
	if home == "" {
		home = os.Getenv("JAVA_HOME")
	}
	if home == "" {
		return nil, errors.New("no JDK given; use --jdk or set JAVA_HOME")
	}
	return jdk.Open(home)
}

// newLogger builds the session logger; --quiet discards everything.
func newLogger(cmd *cobra.Command) (*log.Logger, error) {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, err
	}
	if quiet {
		return quietLogger(), nil
	}
	return log.NewWithOptions(os.Stderr, log.Options{Prefix: "mx"}), nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
