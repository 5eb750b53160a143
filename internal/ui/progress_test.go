package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"lazy/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	files := []string{"/p/a.lazy", "/p/b.lazy"}
	m := NewProgressModel("diag", files, map[string]string{"/p/a.lazy": "a"}, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "/p/a.lazy", Stage: driver.StageParse, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "/p/b.lazy", Stage: driver.StageParse, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "/elsewhere.lazy", Stage: driver.StageLoad, Status: driver.StatusDone})

	if m.items[0].status != "parsed" || m.items[1].status != "error" {
		t.Fatalf("items = %+v", m.items)
	}
	if got := m.percent(); got != 0.75 {
		t.Fatalf("percent = %v", got)
	}

	m.applyEvent(driver.Event{File: "/p/a.lazy", Stage: driver.StageLoad, Status: driver.StatusDone})
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v", got)
	}

	view := m.View()
	if !strings.Contains(view, " a\n") || !strings.Contains(view, "/p/b.lazy") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestFractionNeverGoesBack(t *testing.T) {
	m := NewProgressModel("diag", []string{"x"}, nil, nil).(*progressModel)
	m.applyEvent(driver.Event{File: "x", Stage: driver.StageLoad, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "x", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].fraction != 0.7 {
		t.Fatalf("fraction = %v", m.items[0].fraction)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 6, "abc..."},
		{"abcdef", 2, "ab"},
		{"界界界界", 5, "界..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRunReturnsWorkError(t *testing.T) {
	boom := errors.New("boom")
	var out bytes.Buffer
	err := Run(&out, "diag", []string{"x"}, nil, func(sink driver.ProgressSink) error {
		sink.OnEvent(driver.Event{File: "x", Stage: driver.StageParse, Status: driver.StatusWorking})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
