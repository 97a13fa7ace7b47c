package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mikepapadim/mx/internal/javamodules"
	"github.com/mikepapadim/mx/internal/suite"
	"github.com/mikepapadim/mx/internal/ui"
)

// runBuildWithUI runs the build behind a Bubble Tea progress view fed by
// the session's event channel. The build itself runs in a goroutine; its
// outcome is reported once the view has drained all events.
func runBuildWithUI(ctx context.Context, title string, session *javamodules.Session, sink javamodules.ProgressSink, platform javamodules.Platform, dists []*suite.Distribution, events chan javamodules.Event) error {
	outcomeCh := make(chan error, 1)
	go func() {
		outcomeCh <- buildAll(ctx, session, sink, platform, dists, quietLogger())
		close(events)
	}()

	model := ui.NewProgressModel(title, distNames(dists), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return uiErr
	}
	return outcome
}
