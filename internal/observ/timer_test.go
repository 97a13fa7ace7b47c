package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerSpans(t *testing.T) {
	var tm Timer

	done := tm.Begin("load suite")
	time.Sleep(2 * time.Millisecond)
	done("acme")

	done = tm.Begin("build modules")
	time.Sleep(2 * time.Millisecond)
	done("3 distributions")

	spans := tm.Spans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Name != "load suite" || spans[0].Note != "acme" {
		t.Fatalf("first span = %+v", spans[0])
	}
	if spans[1].Dur <= 0 {
		t.Fatalf("second span duration = %v, want > 0", spans[1].Dur)
	}
	if got, want := tm.Total(), spans[0].Dur+spans[1].Dur; got != want {
		t.Fatalf("total = %v, want %v", got, want)
	}
}

func TestTimerNestedSpans(t *testing.T) {
	var tm Timer
	outer := tm.Begin("build modules")
	inner := tm.Begin("open jdk")
	inner("JDK 21")
	outer("1 distribution")

	spans := tm.Spans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Note != "1 distribution" || spans[1].Note != "JDK 21" {
		t.Fatalf("notes landed on the wrong spans: %+v", spans)
	}
	if spans[0].Dur < spans[1].Dur {
		t.Fatalf("outer span shorter than inner: %+v", spans)
	}
}

func TestTimerSummary(t *testing.T) {
	var tm Timer
	tm.Begin("open jdk")("JDK 17")

	summary := tm.Summary()
	for _, part := range []string{"timings:", "open jdk", "// JDK 17", "total"} {
		if !strings.Contains(summary, part) {
			t.Fatalf("summary missing %q:\n%s", part, summary)
		}
	}
}

func TestTimerUnsealedSpan(t *testing.T) {
	var tm Timer
	tm.Begin("build modules")
	if got := tm.Total(); got != 0 {
		t.Fatalf("total = %v, want 0 for an unsealed span", got)
	}
	if spans := tm.Spans(); len(spans) != 1 || spans[0].Dur != 0 {
		t.Fatalf("spans = %+v", spans)
	}
}

func TestEmptyTimer(t *testing.T) {
	var tm Timer
	if tm.Total() != 0 || len(tm.Spans()) != 0 {
		t.Fatalf("zero timer: total=%v spans=%d", tm.Total(), len(tm.Spans()))
	}
	if !strings.Contains(tm.Summary(), "total") {
		t.Fatalf("summary = %q", tm.Summary())
	}
}
