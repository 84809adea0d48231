// Package overlay composites highlight and word-span annotations over one
// verse's text into non-overlapping, gap-free render runs.
//
// Input highlights may overlap each other (they are user-generated) and may
// be stale relative to the current verse text (translations drift upstream).
// The compositor clamps every interval to the text bounds, drops anything
// left empty, and never fails: compositing degrades gracefully instead of
// surfacing errors past the render boundary.
package overlay

import (
	"sort"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

// RenderRun is a contiguous slice of verse text with the overlay styling to
// apply when drawing it. Runs returned by Composite tile [0, len(text)) in
// runes with no gaps and no overlaps.
type RenderRun struct {
	// Start is the verse-relative rune offset where the run starts (inclusive).
	Start int `json:"start"`

	// End is the verse-relative rune offset where the run ends (exclusive).
	End int `json:"end"`

	// Text is the base text slice for the run.
	Text string `json:"text"`

	// Colors holds the highlight colors active over the slice, stacked in
	// creation order with the most recent last (topmost).
	Colors []reader.ColorToken `json:"colors,omitempty"`

	// Word is the word span active over the slice, nil when none.
	// Word spans are non-overlapping, so at most one applies.
	Word *reader.WordSpan `json:"word,omitempty"`
}

// Len returns the run length in runes.
func (r RenderRun) Len() int {
	return r.End - r.Start
}

// clampedInterval is an annotation interval clamped to the verse text.
type clampedInterval struct {
	start, end int
}

// Composite merges the verse's highlights and word spans into render runs.
//
// Highlight ranges are clamped to [0, len(text)] before use; zero-length and
// fully-out-of-bounds ranges are dropped. Overlapping highlights are layered
// in creation order. The output covers the whole text: runs with no active
// annotation carry the base slice only.
func Composite(text string, highlights []*reader.Highlight, spans []*reader.WordSpan) []RenderRun {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	// Creation order determines stacking; sort a copy, oldest first.
	ordered := make([]*reader.Highlight, len(highlights))
	copy(ordered, highlights)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var hls []*reader.Highlight
	var hlIntervals []clampedInterval
	for _, h := range ordered {
		iv, ok := clamp(h.Start, h.End, n)
		if !ok {
			continue
		}
		hls = append(hls, h)
		hlIntervals = append(hlIntervals, iv)
	}

	var wss []*reader.WordSpan
	var wsIntervals []clampedInterval
	for _, ws := range spans {
		iv, ok := clamp(ws.Start, ws.End, n)
		if !ok {
			continue
		}
		wss = append(wss, ws)
		wsIntervals = append(wsIntervals, iv)
	}

	cuts := cutPoints(n, hlIntervals, wsIntervals)

	var runs []RenderRun
	for i := 0; i+1 < len(cuts); i++ {
		start, end := cuts[i], cuts[i+1]

		run := RenderRun{
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		}
		for j, iv := range hlIntervals {
			if iv.start <= start && iv.end >= end {
				run.Colors = append(run.Colors, hls[j].Color)
			}
		}
		for j, iv := range wsIntervals {
			if iv.start <= start && iv.end >= end {
				run.Word = wss[j]
				break
			}
		}

		// Coalesce with the previous run when styling is identical.
		if len(runs) > 0 && sameStyle(&runs[len(runs)-1], &run) {
			prev := &runs[len(runs)-1]
			prev.End = run.End
			prev.Text += run.Text
			continue
		}
		runs = append(runs, run)
	}

	return runs
}

// clamp restricts [start, end) to [0, n]; ok is false when nothing remains.
func clamp(start, end, n int) (clampedInterval, bool) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return clampedInterval{}, false
	}
	return clampedInterval{start: start, end: end}, true
}

// cutPoints returns the sorted, deduplicated segment boundaries: the text
// bounds plus every interval edge.
func cutPoints(n int, intervalSets ...[]clampedInterval) []int {
	seen := map[int]bool{0: true, n: true}
	cuts := []int{0, n}
	for _, set := range intervalSets {
		for _, iv := range set {
			for _, p := range [2]int{iv.start, iv.end} {
				if !seen[p] {
					seen[p] = true
					cuts = append(cuts, p)
				}
			}
		}
	}
	sort.Ints(cuts)
	return cuts
}

// sameStyle reports whether two adjacent runs carry identical styling.
func sameStyle(a, b *RenderRun) bool {
	if a.Word != b.Word {
		return false
	}
	if len(a.Colors) != len(b.Colors) {
		return false
	}
	for i := range a.Colors {
		if a.Colors[i] != b.Colors[i] {
			return false
		}
	}
	return true
}
