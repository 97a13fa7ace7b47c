package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikepapadim/mx/internal/javamodules"
)

var describeCmd = &cobra.Command{
	Use:   "describe <distribution>",
	Short: "Print the module declaration of a distribution",
	Long:  "Load or synthesize the distribution's module descriptor and print it as module-info.java source.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	st, err := loadSuite(cmd)
	if err != nil {
		return err
	}
	platform, err := openJDK(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	d, err := st.Distribution(args[0])
	if err != nil {
		return err
	}

	session := javamodules.NewSession(javamodules.SessionConfig{
		Resolver: st,
		Logger:   logger,
	})
	jmd, err := session.ModuleFor(cmd.Context(), d, platform)
	if err != nil {
		return err
	}
	if jmd == nil {
		return fmt.Errorf("%s does not define a module", d.Name())
	}
	fmt.Fprint(cmd.OutOrStdout(), jmd.ModuleInfoSource())
	return nil
}
