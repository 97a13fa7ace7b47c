package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikepapadim/mx/internal/javamodules"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List distributions and their modules",
	Long:  "List every distribution of the suite with its derived module name and whether its modular jar has been built.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	st, err := loadSuite(cmd)
	if err != nil {
		return err
	}
	session := javamodules.NewSession(javamodules.SessionConfig{
		Resolver: st,
		Logger:   quietLogger(),
	})

	out := cmd.OutOrStdout()
	for _, d := range st.Distributions() {
		info, ok, err := session.ModuleInfo(d)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "%-28s -\n", d.Name())
			continue
		}
		status := "pending"
		if _, statErr := os.Stat(info.Archive); statErr == nil {
			status = "built"
		}
		fmt.Fprintf(out, "%-28s %-32s %s\n", d.Name(), info.Name, status)
	}
	return nil
}
