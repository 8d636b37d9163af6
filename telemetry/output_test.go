package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/backdrop/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	// Nil receivers are no-ops
	if err := om.WriteWindow(WindowStats{}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteWindow(WindowStats{WindowEndFrame: int64(i * 100), Effect: "ocean"}); err != nil {
			t.Fatalf("WriteWindow: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{AvgFrameDuration: time.Millisecond}, 60); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "windows.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "300,") {
		t.Errorf("unexpected last row %q", lines[3])
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(perf), "60,1000,") {
		t.Errorf("perf row missing: %q", perf)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func TestOutputManagerWritesBookmarks(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteBookmarks(nil); err != nil {
		t.Fatalf("WriteBookmarks(nil): %v", err)
	}
	marks := []Bookmark{
		{Type: BookmarkDegraded, Frame: 120, Effect: "hero", Description: "reduced"},
		{Type: BookmarkSteady, Frame: 600, Effect: "hero", Description: "steady"},
	}
	if err := om.WriteBookmarks(marks); err != nil {
		t.Fatalf("WriteBookmarks: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", data)
	}
	if lines[0] != "type,frame,effect,description" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "degraded,120,hero,reduced" {
		t.Errorf("unexpected row %q", lines[1])
	}
}
