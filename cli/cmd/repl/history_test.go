package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistoryAdd(t *testing.T) {
	h := NewHistory("")

	steps := []struct {
		line string
		mode inputMode
	}{
		{"K a b", modeEval},
		{"K a b", modeEval}, // repeat of last entry is ignored
		{"list", modeCtrl},
		{"  ", modeEval}, // blank is ignored
		{"K a b", modeEval},
		{"list", modeEval}, // same line in another mode is distinct
	}

	for _, s := range steps {
		if err := h.Add(s.line, s.mode); err != nil {
			t.Fatalf("Add(%q) error = %v", s.line, err)
		}
	}

	want := []HistoryEntry{
		{Line: "list", Mode: modeCtrl},
		{Line: "K a b", Mode: modeEval},
		{Line: "list", Mode: modeEval},
	}

	got := h.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHistoryEntryBounds(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("x", modeEval)

	if e, err := h.Entry(0); err != nil || e.Line != "x" {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}

	for _, e := range []HistoryEntry{
		{"I = \\x.x", modeEval},
		{"help", modeCtrl},
		{"I z", modeEval},
		{"I = \\x.x", modeEval}, // moves to the end, forcing a rewrite
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error = %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	wantFile := "C:help\nE:I z\nE:I = \\x.x\n"
	if string(data) != wantFile {
		t.Errorf("history file = %q, want %q", data, wantFile)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, want := reloaded.Entries(), h.Entries(); len(got) != len(want) {
		t.Fatalf("reloaded %v, want %v", got, want)
	}

	if e, _ := reloaded.Entry(0); e.Mode != modeCtrl || e.Line != "help" {
		t.Errorf("reloaded Entry(0) = %v", e)
	}
}

func TestHistoryLoadUnprefixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	if err := os.WriteFile(path, []byte("K a b\n\nC:quit\nE:I\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	var lines []string
	for _, e := range h.Entries() {
		lines = append(lines, e.Line)
	}

	if got := strings.Join(lines, "|"); got != "K a b|quit|I" {
		t.Errorf("loaded lines = %q", got)
	}

	if e, _ := h.Entry(1); e.Mode != modeCtrl {
		t.Errorf("Entry(1).Mode = %v, want modeCtrl", e.Mode)
	}
}

func TestHistoryLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for i := range maxHistory + 5 {
		if err := h.Add(strings.Repeat("x", i+1), modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != maxHistory {
		t.Errorf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	if e, _ := h.Entry(0); len(e.Line) != 6 {
		t.Errorf("oldest entry has length %d, want 6", len(e.Line))
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if reloaded.Len() != maxHistory {
		t.Errorf("reloaded Len() = %d, want %d", reloaded.Len(), maxHistory)
	}
}
