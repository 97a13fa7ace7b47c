package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mikepapadim/mx/internal/javamodules"
)

// timingSink aggregates per-stage durations from progress events. Only
// terminal events carry a measured duration; everything else is ignored.
type timingSink struct {
	mu     sync.Mutex
	byDist map[string]*javamodules.Timings
}

func newTimingSink() *timingSink {
	return &timingSink{byDist: make(map[string]*javamodules.Timings)}
}

func (t *timingSink) OnEvent(evt javamodules.Event) {
	if evt.Dist == "" || evt.Elapsed <= 0 {
		return
	}
	if evt.Status != javamodules.StatusDone && evt.Status != javamodules.StatusError {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tm := t.byDist[evt.Dist]
	if tm == nil {
		tm = &javamodules.Timings{}
		t.byDist[evt.Dist] = tm
	}
	tm.Set(evt.Stage, evt.Elapsed)
}

func (t *timingSink) timings(dist string) *javamodules.Timings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byDist[dist]
}

var timedStages = []javamodules.Stage{
	javamodules.StageCollect,
	javamodules.StageSynthesize,
	javamodules.StageCompile,
	javamodules.StagePackage,
}

func printStageTimings(out io.Writer, dists []string, sink *timingSink) {
	if out == nil || sink == nil {
		return
	}
	for _, dist := range dists {
		tm := sink.timings(dist)
		if tm == nil {
			continue
		}
		line := dist + ":"
		for _, stage := range timedStages {
			if !tm.Has(stage) {
				continue
			}
			line += fmt.Sprintf(" %s %.1f ms", stage, toMillis(tm.Duration(stage)))
		}
		line += fmt.Sprintf(" | total %.1f ms", toMillis(tm.Sum(timedStages...)))
		fmt.Fprintln(out, line)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
