package reader

import (
	"testing"
)

func TestValidateVerse(t *testing.T) {
	valid := &Verse{ID: "Gen.1.1", Book: "Gen", Chapter: 1, Number: 1, Text: "In the beginning"}
	if errs := ValidateVerse(valid); len(errs) != 0 {
		t.Errorf("ValidateVerse(valid) = %v, want no errors", errs)
	}

	invalid := &Verse{Number: 0, Chapter: 0}
	errs := ValidateVerse(invalid)
	if len(errs) != 3 {
		t.Errorf("ValidateVerse(invalid) returned %d errors, want 3: %v", len(errs), errs)
	}
}

func TestValidateWordSpans(t *testing.T) {
	verse := &Verse{ID: "Gen.1.1", Book: "Gen", Chapter: 1, Number: 1,
		Text: "In the beginning God created the heaven and the earth."}

	t.Run("valid spans", func(t *testing.T) {
		spans := []*WordSpan{
			{VerseID: "Gen.1.1", WordIndex: 0, Start: 0, End: 2, Original: "בְּ"},
			{VerseID: "Gen.1.1", WordIndex: 1, Start: 3, End: 12, Original: "רֵאשִׁית"},
		}
		if errs := ValidateWordSpans(verse, spans); len(errs) != 0 {
			t.Errorf("ValidateWordSpans = %v, want no errors", errs)
		}
	})

	t.Run("overlapping spans", func(t *testing.T) {
		spans := []*WordSpan{
			{VerseID: "Gen.1.1", WordIndex: 0, Start: 0, End: 10},
			{VerseID: "Gen.1.1", WordIndex: 1, Start: 5, End: 12},
		}
		if errs := ValidateWordSpans(verse, spans); len(errs) == 0 {
			t.Error("overlapping spans passed validation")
		}
	})

	t.Run("span past end of text", func(t *testing.T) {
		spans := []*WordSpan{
			{VerseID: "Gen.1.1", WordIndex: 0, Start: 50, End: 100},
		}
		if errs := ValidateWordSpans(verse, spans); len(errs) == 0 {
			t.Error("out-of-bounds span passed validation")
		}
	})

	t.Run("wrong verse id", func(t *testing.T) {
		spans := []*WordSpan{
			{VerseID: "Gen.1.2", WordIndex: 0, Start: 0, End: 2},
		}
		if errs := ValidateWordSpans(verse, spans); len(errs) == 0 {
			t.Error("mismatched VerseID passed validation")
		}
	})

	t.Run("reading order differs from offset order", func(t *testing.T) {
		// Hebrew interlinear data can arrive in reading order that is not
		// offset order; overlap detection must still work.
		spans := []*WordSpan{
			{VerseID: "Gen.1.1", WordIndex: 0, Start: 13, End: 16},
			{VerseID: "Gen.1.1", WordIndex: 1, Start: 0, End: 2},
		}
		if errs := ValidateWordSpans(verse, spans); len(errs) != 0 {
			t.Errorf("ValidateWordSpans = %v, want no errors", errs)
		}
	})
}

func TestValidateHighlight(t *testing.T) {
	tests := []struct {
		name     string
		h        *Highlight
		wantErrs int
	}{
		{
			name:     "valid",
			h:        &Highlight{VerseID: "Gen.1.1", Start: 17, End: 20, Color: ColorYellow},
			wantErrs: 0,
		},
		{
			name:     "empty range",
			h:        &Highlight{VerseID: "Gen.1.1", Start: 5, End: 5, Color: ColorYellow},
			wantErrs: 1,
		},
		{
			name:     "inverted range",
			h:        &Highlight{VerseID: "Gen.1.1", Start: 20, End: 17, Color: ColorYellow},
			wantErrs: 1,
		},
		{
			name:     "bad color",
			h:        &Highlight{VerseID: "Gen.1.1", Start: 17, End: 20, Color: "#ff0000"},
			wantErrs: 1,
		},
		{
			name:     "missing verse",
			h:        &Highlight{Start: 17, End: 20, Color: ColorYellow},
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateHighlight(tt.h)
			if len(errs) != tt.wantErrs {
				t.Errorf("ValidateHighlight returned %d errors, want %d: %v", len(errs), tt.wantErrs, errs)
			}
		})
	}
}
