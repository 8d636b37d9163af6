package telemetry

import (
	"testing"
)

func hasBookmark(marks []Bookmark, typ BookmarkType) bool {
	for _, m := range marks {
		if m.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FPSDrop(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndFrame: int64(i * 60), FPSMean: 60, FPSMin: 55})
	}

	marks := bd.Check(WindowStats{WindowEndFrame: 300, Effect: "ocean", FPSMean: 40, FPSMin: 20})
	if !hasBookmark(marks, BookmarkFPSDrop) {
		t.Fatalf("expected fps_drop bookmark, got %+v", marks)
	}
	for _, m := range marks {
		if m.Frame != 300 || m.Effect != "ocean" {
			t.Errorf("bookmark not stamped with window: %+v", m)
		}
	}
}

func TestBookmarkDetector_NoFPSDropWithoutHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{FPSMean: 60, FPSMin: 55})

	marks := bd.Check(WindowStats{FPSMean: 20, FPSMin: 10})
	if hasBookmark(marks, BookmarkFPSDrop) {
		t.Error("fps_drop should need at least 3 windows of history")
	}
}

func TestBookmarkDetector_FrameSpike(t *testing.T) {
	tests := []struct {
		name string
		p90  float64
		want bool
	}{
		{"spike", 12, true},
		{"within 2x", 7.5, false},
		{"below floor", 8.5 / 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := NewBookmarkDetector(10)
			for i := 0; i < 4; i++ {
				bd.Check(WindowStats{FrameMSP90: 4})
			}
			marks := bd.Check(WindowStats{FrameMSP90: tt.p90})
			if got := hasBookmark(marks, BookmarkFrameSpike); got != tt.want {
				t.Errorf("frame_spike = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookmarkDetector_LinkSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{LinksMean: 20})
	}
	if marks := bd.Check(WindowStats{LinksMean: 100}); !hasBookmark(marks, BookmarkLinkSurge) {
		t.Errorf("expected link_surge bookmark, got %+v", marks)
	}

	// Small counts never surge
	bd = NewBookmarkDetector(10)
	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{LinksMean: 2})
	}
	if marks := bd.Check(WindowStats{LinksMean: 8}); hasBookmark(marks, BookmarkLinkSurge) {
		t.Error("link_surge below 10 links should not fire")
	}
}

func TestBookmarkDetector_Degraded(t *testing.T) {
	bd := NewBookmarkDetector(10)

	marks := bd.Check(WindowStats{Degradations: 1, Particles: 96})
	if !hasBookmark(marks, BookmarkDegraded) {
		t.Fatal("expected degraded bookmark on the first window")
	}
	if marks := bd.Check(WindowStats{}); hasBookmark(marks, BookmarkDegraded) {
		t.Error("degraded should only fire for windows that degraded")
	}
}

func TestBookmarkDetector_SteadyFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	steady := 0
	for i := 0; i < 20; i++ {
		marks := bd.Check(WindowStats{WindowEndFrame: int64(i * 60), FPSMean: 60})
		if hasBookmark(marks, BookmarkSteady) {
			steady++
		}
	}
	if steady != 1 {
		t.Errorf("expected steady once, got %d", steady)
	}
}

func TestBookmarkDetector_UnsteadyFPS(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 20; i++ {
		fps := 60.0
		if i%2 == 0 {
			fps = 30
		}
		if marks := bd.Check(WindowStats{FPSMean: fps}); hasBookmark(marks, BookmarkSteady) {
			t.Fatalf("window %d: unexpected steady bookmark", i)
		}
	}
}

func TestNewBookmarkDetectorMinimumHistory(t *testing.T) {
	bd := NewBookmarkDetector(0)
	if bd.historySize != 5 {
		t.Errorf("historySize = %d, want 5", bd.historySize)
	}
}
