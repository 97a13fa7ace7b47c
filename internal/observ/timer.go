// Package observ holds the small instrumentation pieces the CLI reports
// build timings with.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Span is one timed slice of a command run, such as probing the JDK or
// building the selected distributions.
type Span struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer collects the spans of one run in begin order. The zero value is
// ready to use. Timer is not safe for concurrent use.
type Timer struct {
	spans []Span
}

// Begin opens a span and returns the function that seals it. The note
// passed on sealing records what the span produced, like "JDK 21" or
// "4 distributions". A span left unsealed keeps a zero duration.
func (t *Timer) Begin(name string) func(note string) {
	idx := len(t.spans)
	t.spans = append(t.spans, Span{Name: name})
	start := time.Now()
	return func(note string) {
		// Index at seal time: later Begin calls may have grown the slice.
		s := &t.spans[idx]
		s.Dur = time.Since(start)
		s.Note = note
	}
}

// Spans returns the recorded spans in begin order.
func (t *Timer) Spans() []Span {
	return t.spans
}

// Total sums the sealed span durations.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, s := range t.spans {
		total += s.Dur
	}
	return total
}

// Summary renders the block the --timings flag appends to the command
// output: one line per span with its note, then the total.
func (t *Timer) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, s := range t.spans {
		fmt.Fprintf(&b, "  %-18s %8.2f ms", s.Name, millis(s.Dur))
		if s.Note != "" {
			b.WriteString("  // ")
			b.WriteString(s.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-18s %8.2f ms\n", "total", millis(t.Total()))
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
