package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFPSDrop    BookmarkType = "fps_drop"
	BookmarkFrameSpike BookmarkType = "frame_spike"
	BookmarkDegraded   BookmarkType = "degraded"
	BookmarkLinkSurge  BookmarkType = "link_surge"
	BookmarkSteady     BookmarkType = "steady"
)

// Bookmark marks a stats window worth a closer look.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Frame       int64        `csv:"frame"`
	Effect      string       `csv:"effect"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"effect", b.Effect,
		"description", b.Description,
	)
}

// BookmarkDetector compares each stats window with the recent ones.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	steadyWindows int // consecutive windows with a stable frame rate
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			b.Frame = stats.WindowEndFrame
			b.Effect = stats.Effect
			bookmarks = append(bookmarks, *b)
		}
	}

	add(bd.checkDegraded(stats))
	if bd.historyFull || bd.historyIdx > 0 {
		add(bd.checkFPSDrop(stats))
		add(bd.checkFrameSpike(stats))
		add(bd.checkLinkSurge(stats))
		add(bd.checkSteady(stats))
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) mean(field func(WindowStats) float64) float64 {
	history := bd.getHistory()
	if len(history) == 0 {
		return 0
	}
	var sum float64
	for _, h := range history {
		sum += field(h)
	}
	return sum / float64(len(history))
}

func (bd *BookmarkDetector) checkDegraded(stats WindowStats) *Bookmark {
	if stats.Degradations == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDegraded,
		Description: fmt.Sprintf("Quality reduced %d time(s), %d particles left", stats.Degradations, stats.Particles),
	}
}

// checkFPSDrop fires when a one-second window fell below half the recent average.
func (bd *BookmarkDetector) checkFPSDrop(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 3 || stats.FPSMin == 0 {
		return nil
	}
	avg := bd.mean(func(s WindowStats) float64 { return s.FPSMean })
	if avg == 0 || stats.FPSMin >= avg*0.5 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFPSDrop,
		Description: fmt.Sprintf("FPS fell to %.1f against an average of %.1f", stats.FPSMin, avg),
	}
}

func (bd *BookmarkDetector) checkFrameSpike(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}
	avg := bd.mean(func(s WindowStats) float64 { return s.FrameMSP90 })
	if avg == 0 || stats.FrameMSP90 <= avg*2 || stats.FrameMSP90 < 8 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFrameSpike,
		Description: fmt.Sprintf("p90 frame work %.2fms is %.1fx average (%.2fms)", stats.FrameMSP90, stats.FrameMSP90/avg, avg),
	}
}

func (bd *BookmarkDetector) checkLinkSurge(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}
	avg := bd.mean(func(s WindowStats) float64 { return s.LinksMean })
	if avg == 0 || stats.LinksMean <= avg*2 || stats.LinksMean < 10 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkLinkSurge,
		Description: fmt.Sprintf("%.0f links per frame is %.1fx average (%.0f)", stats.LinksMean, stats.LinksMean/avg, avg),
	}
}

// checkSteady fires once after five consecutive windows whose FPS varies by
// less than 5% over the last four.
func (bd *BookmarkDetector) checkSteady(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if stats.FPSMean == 0 || len(history) < 4 {
		bd.steadyWindows = 0
		return nil
	}

	recent := make([]WindowStats, 0, 4)
	for k := 4; k >= 1; k-- {
		recent = append(recent, bd.history[(bd.historyIdx-k+bd.historySize)%bd.historySize])
	}

	var sum float64
	for _, h := range recent {
		sum += h.FPSMean
	}
	mean := sum / 4
	var variance float64
	for _, h := range recent {
		d := h.FPSMean - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < 0.0025 { // CV^2 < 0.0025 means CV < 5%
		bd.steadyWindows++
	} else {
		bd.steadyWindows = 0
	}

	if bd.steadyWindows == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteady,
			Description: fmt.Sprintf("Steady at %.1f fps with %d particles", stats.FPSMean, stats.Particles),
		}
	}
	return nil
}
