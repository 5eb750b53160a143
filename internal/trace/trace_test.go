package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeModule, false},
		{LevelDetail, ScopeModule, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLevel("Detail"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("unknown level accepted")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
}

func TestRingKeepsNewestInOrder(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Fatalf("snapshot = %v, want [c d e]", names)
	}
}

func TestSpanNestingThroughContext(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	outer := Begin(FromContext(ctx), ScopePass, "load", CurrentSpan(ctx).SpanID)
	ctx = WithSpan(ctx, outer)
	inner := Begin(FromContext(ctx), ScopeModule, "module:a.lazy", CurrentSpan(ctx).SpanID)
	inner.WithExtra("symbols", "2").End("")
	// node scope is filtered at detail level
	Begin(FromContext(ctx), ScopeNode, "expr", CurrentSpan(ctx).SpanID).End("")
	outer.End("ok")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	if events[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", events[1].ParentID, outer.ID())
	}
	if events[2].Extra["symbols"] != "2" {
		t.Fatalf("end extra = %v", events[2].Extra)
	}
	if events[3].Detail != "ok" {
		t.Fatalf("outer end detail = %q", events[3].Detail)
	}
}

func TestDisabledSpanIsSafe(t *testing.T) {
	s := Begin(Nop, ScopeDriver, "x", 0)
	s.WithExtra("k", "v")
	if s.End("") != 0 || s.ID() != 0 {
		t.Fatal("nop span must be inert")
	}
	ctx := context.Background()
	if WithSpan(ctx, s) != ctx {
		t.Fatal("disabled span must not change the context")
	}
}

func TestTextFormatSortsExtras(t *testing.T) {
	ev := &Event{
		Time:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Seq:   7,
		Kind:  KindSpanEnd,
		Scope: ScopePass,
		Name:  "parse",
		Extra: map[string]string{"z": "1", "a": "2"},
	}
	got := string(FormatEvent(ev, FormatText))
	want := "03:04:05.000000 #7     [pass] ← parse {a=2, z=1}\n"
	if got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if !bytes.HasPrefix(FormatEvent(ev, FormatNDJSON), []byte(`{"time":`)) {
		t.Fatal("ndjson must be a JSON object")
	}
}

func TestStreamTracerWrites(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(st, ScopeDriver, "diag", 0).End("")
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", lines, buf.String())
	}
}

func TestMultiTracerRing(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	var buf bytes.Buffer
	multi := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)
	if got, ok := multi.Ring(); !ok || got != ring {
		t.Fatal("ring tracer not found")
	}
	if _, ok := NewMultiTracer(LevelPhase, Nop).Ring(); ok {
		t.Fatal("no ring expected")
	}
}
