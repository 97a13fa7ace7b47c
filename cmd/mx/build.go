package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mikepapadim/mx/internal/javamodules"
	"github.com/mikepapadim/mx/internal/observ"
	"github.com/mikepapadim/mx/internal/suite"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [distribution...]",
	Short: "Synthesize modular jars for distributions",
	Long: "Derive module descriptors for the named distributions (default: every " +
		"module-defining one), compile their module-info.java and pack modular jars.",
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().Bool("force", false, "discard persisted descriptors and built module jars first")
}

func runBuild(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	useTUI, err := uiEnabled(uiValue, isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	var timer observ.Timer
	done := timer.Begin("load suite")
	st, err := loadSuite(cmd)
	if err != nil {
		return err
	}
	done(st.Name)

	done = timer.Begin("open jdk")
	platform, err := openJDK(cmd)
	if err != nil {
		return err
	}
	done(platform.String())

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	if force {
		if err := os.RemoveAll(filepath.Join(st.Output, "modules")); err != nil {
			return err
		}
	}

	timings := newTimingSink()
	var sink javamodules.ProgressSink = timings
	var events chan javamodules.Event
	if useTUI {
		events = make(chan javamodules.Event, 256)
		sink = fanoutSink{javamodules.ChannelSink{Ch: events}, timings}
	}

	session := javamodules.NewSession(javamodules.SessionConfig{
		Resolver: st,
		Logger:   logger,
		Progress: sink,
	})
	dists, err := selectDistributions(session, st, args)
	if err != nil {
		return err
	}
	if len(dists) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to build: no distribution defines a module")
		return nil
	}

	done = timer.Begin("build modules")
	var buildErr error
	if useTUI {
		buildErr = runBuildWithUI(cmd.Context(), "mx build", session, sink, platform, dists, events)
	} else {
		buildErr = buildAll(cmd.Context(), session, sink, platform, dists, logger)
	}
	done(fmt.Sprintf("%d distributions", len(dists)))

	if showTimings {
		printStageTimings(os.Stdout, distNames(dists), timings)
		fmt.Fprint(os.Stdout, timer.Summary())
	}
	return buildErr
}

// uiEnabled interprets the --ui flag: on and off force the live build
// view, auto (or empty) enables it only when stdout is a terminal.
func uiEnabled(value string, tty bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return tty, nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("--ui must be auto, on or off, got %q", value)
	}
}

// selectDistributions returns the named distributions, or every
// module-defining one when no names are given.
func selectDistributions(session *javamodules.Session, st *suite.Suite, names []string) ([]*suite.Distribution, error) {
	if len(names) > 0 {
		dists := make([]*suite.Distribution, 0, len(names))
		for _, name := range names {
			d, err := st.Distribution(name)
			if err != nil {
				return nil, err
			}
			dists = append(dists, d)
		}
		return dists, nil
	}
	var dists []*suite.Distribution
	for _, d := range st.Distributions() {
		_, ok, err := session.ModuleInfo(d)
		if err != nil {
			return nil, err
		}
		if ok {
			dists = append(dists, d)
		}
	}
	return dists, nil
}

// buildAll drives ModuleFor over the selected distributions. It emits a
// final per-row event so descriptors served from a persisted snapshot
// complete in the UI too, and keeps going past failures, returning the
// first error at the end.
func buildAll(ctx context.Context, session *javamodules.Session, sink javamodules.ProgressSink, platform javamodules.Platform, dists []*suite.Distribution, logger *log.Logger) error {
	var firstErr error
	for _, dist := range dists {
		jmd, err := session.ModuleFor(ctx, dist, platform)
		switch {
		case err != nil:
			sink.OnEvent(javamodules.Event{
				Dist:   dist.Name(),
				Stage:  javamodules.StagePackage,
				Status: javamodules.StatusError,
				Err:    err,
			})
			logger.Error("module synthesis failed", "dist", dist.Name(), "err", err)
			if firstErr == nil {
				firstErr = err
			}
		case jmd == nil:
			sink.OnEvent(javamodules.Event{
				Dist:   dist.Name(),
				Stage:  javamodules.StagePackage,
				Status: javamodules.StatusDone,
			})
			logger.Warn("distribution defines no module", "dist", dist.Name())
		default:
			sink.OnEvent(javamodules.Event{
				Dist:   dist.Name(),
				Module: jmd.Name,
				Stage:  javamodules.StagePackage,
				Status: javamodules.StatusDone,
			})
			logger.Info("module ready", "dist", dist.Name(), "module", jmd.Name, "jar", jmd.ArchivePath)
		}
	}
	return firstErr
}

func distNames(dists []*suite.Distribution) []string {
	names := make([]string, 0, len(dists))
	for _, d := range dists {
		names = append(names, d.Name())
	}
	return names
}

// fanoutSink forwards each event to every wrapped sink.
type fanoutSink []javamodules.ProgressSink

func (f fanoutSink) OnEvent(evt javamodules.Event) {
	for _, s := range f {
		s.OnEvent(evt)
	}
}
