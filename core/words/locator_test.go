package words

import (
	"testing"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

func spansFor(verse reader.VerseID, ranges ...[2]int) []*reader.WordSpan {
	var spans []*reader.WordSpan
	for i, r := range ranges {
		spans = append(spans, &reader.WordSpan{
			VerseID:   verse,
			WordIndex: i,
			Start:     r[0],
			End:       r[1],
		})
	}
	return spans
}

func TestFind(t *testing.T) {
	spans := spansFor("Gen.1.1", [2]int{0, 2}, [2]int{3, 12}, [2]int{13, 16}, [2]int{17, 24})

	tests := []struct {
		offset    int
		wantIndex int
		wantOK    bool
	}{
		{0, 0, true},
		{1, 0, true},
		{2, 0, false}, // gap between spans
		{3, 1, true},
		{11, 1, true},
		{12, 1, false}, // end is exclusive
		{13, 2, true},
		{23, 3, true},
		{24, 3, false}, // past the last span
		{-1, 0, false},
		{100, 0, false},
	}

	for _, tt := range tests {
		got, ok := Find(spans, tt.offset)
		if ok != tt.wantOK {
			t.Errorf("Find(%d) ok = %v, want %v", tt.offset, ok, tt.wantOK)
			continue
		}
		if ok && got.WordIndex != tt.wantIndex {
			t.Errorf("Find(%d).WordIndex = %d, want %d", tt.offset, got.WordIndex, tt.wantIndex)
		}
	}
}

func TestFindEmpty(t *testing.T) {
	if _, ok := Find(nil, 0); ok {
		t.Error("Find(nil, 0) = ok, want miss")
	}
}

func TestSortSpans(t *testing.T) {
	// Reading order for RTL interlinear data is not offset order.
	spans := []*reader.WordSpan{
		{WordIndex: 0, Start: 13, End: 16},
		{WordIndex: 1, Start: 0, End: 2},
		{WordIndex: 2, Start: 3, End: 12},
	}
	sorted := SortSpans(spans)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].Start {
			t.Fatalf("spans not sorted by Start: %+v", sorted)
		}
	}

	// Find works after sorting.
	got, ok := Find(sorted, 5)
	if !ok || got.WordIndex != 2 {
		t.Errorf("Find(5) = %+v, %v; want span with WordIndex 2", got, ok)
	}
}

func TestExtractWord(t *testing.T) {
	text := "In the beginning God created the heaven and the earth."

	tests := []struct {
		name      string
		position  int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"start of word", 7, "beginning", 7, 16},
		{"middle of word", 11, "beginning", 7, 16},
		{"last rune of word", 15, "beginning", 7, 16},
		{"first word", 0, "In", 0, 2},
		{"word before period", 50, "earth", 48, 53},
		{"on whitespace", 2, "", 2, 2},
		{"on punctuation", 53, "", 53, 53},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractWord(text, tt.position)
			if err != nil {
				t.Fatalf("ExtractWord failed: %v", err)
			}
			if got.Word != tt.wantWord {
				t.Errorf("Word = %q, want %q", got.Word, tt.wantWord)
			}
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("range = [%d,%d), want [%d,%d)", got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestExtractWordBounds(t *testing.T) {
	text := "light"

	for _, position := range []int{-1, 5, 100} {
		_, err := ExtractWord(text, position)
		if err == nil {
			t.Errorf("ExtractWord(%d) succeeded, want BoundsError", position)
			continue
		}
		if !errors.Is(err, errors.ErrOutOfRange) {
			t.Errorf("ExtractWord(%d) error = %v, want ErrOutOfRange", position, err)
		}
		var be *errors.BoundsError
		if !errors.As(err, &be) {
			t.Errorf("ExtractWord(%d) error is not a BoundsError", position)
		}
	}

	if _, err := ExtractWord("", 0); err == nil {
		t.Error("ExtractWord on empty text succeeded, want BoundsError")
	}
}

func TestExtractWordMultiByte(t *testing.T) {
	text := "καὶ εἶπεν ὁ θεός"

	got, err := ExtractWord(text, 5)
	if err != nil {
		t.Fatalf("ExtractWord failed: %v", err)
	}
	if got.Word != "εἶπεν" {
		t.Errorf("Word = %q, want %q", got.Word, "εἶπεν")
	}
	if got.Start != 4 || got.End != 9 {
		t.Errorf("range = [%d,%d), want [4,9)", got.Start, got.End)
	}
}
