package overlay

import (
	"testing"
	"time"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

const verseText = "In the beginning God created the heaven and the earth."

func hl(start, end int, color reader.ColorToken, createdAt time.Time) *reader.Highlight {
	return &reader.Highlight{
		VerseID:   "Gen.1.1",
		Start:     start,
		End:       end,
		Color:     color,
		CreatedAt: createdAt,
	}
}

// checkTiling verifies the output runs cover [0, len(text)) in runes with no
// gaps and no overlaps, and that run text matches run offsets.
func checkTiling(t *testing.T, text string, runs []RenderRun) {
	t.Helper()
	runes := []rune(text)

	pos := 0
	for i, r := range runs {
		if r.Start != pos {
			t.Fatalf("runs[%d].Start = %d, want %d (gap or overlap)", i, r.Start, pos)
		}
		if r.End <= r.Start {
			t.Fatalf("runs[%d] is empty or inverted: [%d,%d)", i, r.Start, r.End)
		}
		if want := string(runes[r.Start:r.End]); r.Text != want {
			t.Fatalf("runs[%d].Text = %q, want %q", i, r.Text, want)
		}
		pos = r.End
	}
	if pos != len(runes) {
		t.Fatalf("runs end at %d, want %d (gap at tail)", pos, len(runes))
	}
}

func TestCompositeNoAnnotations(t *testing.T) {
	runs := Composite(verseText, nil, nil)
	checkTiling(t, verseText, runs)

	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Text != verseText {
		t.Errorf("runs[0].Text = %q, want full text", runs[0].Text)
	}
	if len(runs[0].Colors) != 0 || runs[0].Word != nil {
		t.Error("unannotated run carries styling")
	}
}

func TestCompositeEmptyText(t *testing.T) {
	runs := Composite("", []*reader.Highlight{hl(0, 5, reader.ColorYellow, time.Now())}, nil)
	if len(runs) != 0 {
		t.Errorf("len(runs) = %d, want 0 for empty text", len(runs))
	}
}

func TestCompositeSingleHighlight(t *testing.T) {
	runs := Composite(verseText, []*reader.Highlight{
		hl(17, 20, reader.ColorYellow, time.Now()),
	}, nil)
	checkTiling(t, verseText, runs)

	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	if runs[1].Text != "God" {
		t.Errorf("runs[1].Text = %q, want %q", runs[1].Text, "God")
	}
	if len(runs[1].Colors) != 1 || runs[1].Colors[0] != reader.ColorYellow {
		t.Errorf("runs[1].Colors = %v, want [yellow]", runs[1].Colors)
	}
}

func TestCompositeOverlappingHighlights(t *testing.T) {
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	// [7,20) yellow (older) and [17,28) green (newer) overlap on [17,20).
	runs := Composite(verseText, []*reader.Highlight{
		hl(17, 28, reader.ColorGreen, newer), // input order differs from creation order
		hl(7, 20, reader.ColorYellow, older),
	}, nil)
	checkTiling(t, verseText, runs)

	var overlap *RenderRun
	for i := range runs {
		if runs[i].Start == 17 && runs[i].End == 20 {
			overlap = &runs[i]
		}
	}
	if overlap == nil {
		t.Fatalf("no run covering [17,20): %+v", runs)
	}

	// Stacked in creation order, most recent last.
	if len(overlap.Colors) != 2 {
		t.Fatalf("overlap.Colors = %v, want 2 colors", overlap.Colors)
	}
	if overlap.Colors[0] != reader.ColorYellow || overlap.Colors[1] != reader.ColorGreen {
		t.Errorf("overlap.Colors = %v, want [yellow green]", overlap.Colors)
	}
}

func TestCompositeClampNotCrash(t *testing.T) {
	// Highlights created against a longer, older edition of the verse text.
	runs := Composite(verseText, []*reader.Highlight{
		hl(48, 90, reader.ColorYellow, time.Now()), // end past current text
		hl(60, 70, reader.ColorGreen, time.Now()),  // fully out of bounds: dropped
		hl(-3, 2, reader.ColorBlue, time.Now()),    // negative start: clamped
		hl(30, 30, reader.ColorPink, time.Now()),   // zero length: dropped
	}, nil)
	checkTiling(t, verseText, runs)

	var sawYellow, sawBlue bool
	for _, r := range runs {
		for _, c := range r.Colors {
			switch c {
			case reader.ColorYellow:
				sawYellow = true
				if r.End > 54 {
					t.Errorf("yellow run extends past text: [%d,%d)", r.Start, r.End)
				}
			case reader.ColorBlue:
				sawBlue = true
			case reader.ColorGreen, reader.ColorPink:
				t.Errorf("dropped highlight leaked into output: %v", c)
			}
		}
	}
	if !sawYellow {
		t.Error("clamped highlight missing from output")
	}
	if !sawBlue {
		t.Error("negative-start highlight missing from output")
	}
}

func TestCompositeWordSpans(t *testing.T) {
	spans := []*reader.WordSpan{
		{VerseID: "Gen.1.1", WordIndex: 0, Start: 0, End: 2, Original: "In"},
		{VerseID: "Gen.1.1", WordIndex: 1, Start: 3, End: 6, Original: "the"},
	}
	runs := Composite(verseText, nil, spans)
	checkTiling(t, verseText, runs)

	if runs[0].Word == nil || runs[0].Word.WordIndex != 0 {
		t.Errorf("runs[0].Word = %+v, want word 0", runs[0].Word)
	}
	// The gap between spans carries no word identity.
	if runs[1].Word != nil {
		t.Errorf("runs[1].Word = %+v, want nil over the gap", runs[1].Word)
	}
	if runs[2].Word == nil || runs[2].Word.WordIndex != 1 {
		t.Errorf("runs[2].Word = %+v, want word 1", runs[2].Word)
	}
}

func TestCompositeHighlightOverWordSpan(t *testing.T) {
	spans := []*reader.WordSpan{
		{VerseID: "Gen.1.1", WordIndex: 3, Start: 17, End: 20, Original: "אֱלֹהִים"},
	}
	runs := Composite(verseText, []*reader.Highlight{
		hl(7, 28, reader.ColorYellow, time.Now()),
	}, spans)
	checkTiling(t, verseText, runs)

	var found bool
	for _, r := range runs {
		if r.Start == 17 && r.End == 20 {
			found = true
			if r.Word == nil || r.Word.WordIndex != 3 {
				t.Errorf("run [17,20) Word = %+v, want word 3", r.Word)
			}
			if len(r.Colors) != 1 {
				t.Errorf("run [17,20) Colors = %v, want one color", r.Colors)
			}
		}
	}
	if !found {
		t.Fatalf("no run at word boundary [17,20): %+v", runs)
	}
}

func TestCompositeCoalescesIdenticalRuns(t *testing.T) {
	// Two touching highlights of the same color collapse into one run.
	at := time.Now()
	runs := Composite(verseText, []*reader.Highlight{
		hl(0, 10, reader.ColorYellow, at),
		hl(10, 16, reader.ColorYellow, at),
	}, nil)
	checkTiling(t, verseText, runs)

	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2 (coalesced highlight + tail): %+v", len(runs), runs)
	}
	if runs[0].Start != 0 || runs[0].End != 16 {
		t.Errorf("runs[0] = [%d,%d), want [0,16)", runs[0].Start, runs[0].End)
	}
}

func TestCompositeMultiByteText(t *testing.T) {
	text := "בְּרֵאשִׁית בָּרָא אֱלֹהִים"
	runs := Composite(text, []*reader.Highlight{
		hl(0, 11, reader.ColorYellow, time.Now()),
	}, nil)
	checkTiling(t, text, runs)

	if runs[0].Text != "בְּרֵאשִׁית" {
		t.Errorf("runs[0].Text = %q, want first word", runs[0].Text)
	}
}
