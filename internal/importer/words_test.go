package importer

import (
	"strings"
	"testing"
)

func TestImportWords(t *testing.T) {
	s := openTestStore(t)
	if _, err := ImportOSIS(s, strings.NewReader(osisFixture)); err != nil {
		t.Fatalf("seeding corpus: %v", err)
	}

	seed := strings.Join([]string{
		"# verse_id\tword_index\tstart\tend\toriginal\ttranslit\tgloss\tmorphology",
		"Gen.1.1\t0\t0\t2\tבְּ\tbe\tin\tprep",
		"Gen.1.1\t1\t7\t16\tרֵאשִׁית\treshit\tbeginning",
		"",
		"Gen.1.1\t2\tnotanint\t5\tbad",
		"Gen.1.1\t3\t9\t4\tinverted",
		"short\tline",
		"Lev.1.1\t0\t0\t3\torphan",
		"Gen.1.2\t0\t0\t3\tAnd",
	}, "\n")

	res, err := ImportWords(s, strings.NewReader(seed))
	if err != nil {
		t.Fatalf("ImportWords error: %v", err)
	}
	if res.Inserted != 3 {
		t.Errorf("Inserted = %d, want 3", res.Inserted)
	}
	// Two unparseable lines, one short line, one inverted range, one
	// orphan verse.
	if res.Skipped != 4 {
		t.Errorf("Skipped = %d, want 4", res.Skipped)
	}

	spans, err := s.WordSpans("Gen.1.1")
	if err != nil {
		t.Fatalf("WordSpans error: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("Gen.1.1 has %d spans, want 2", len(spans))
	}
	if spans[0].Gloss != "in" || spans[0].Morphology != "prep" {
		t.Errorf("spans[0] optional fields = %q/%q, want in/prep", spans[0].Gloss, spans[0].Morphology)
	}
	if spans[1].Gloss != "beginning" || spans[1].Morphology != "" {
		t.Errorf("spans[1] optional fields = %q/%q, want beginning/empty", spans[1].Gloss, spans[1].Morphology)
	}
}

func TestParseWordLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
	}{
		{"full record", "Gen.1.1\t0\t0\t2\tword\tw\tgloss\tmorph", true},
		{"minimal record", "Gen.1.1\t0\t0\t2\tword", true},
		{"missing original", "Gen.1.1\t0\t0\t2\t", false},
		{"too few fields", "Gen.1.1\t0\t0", false},
		{"negative start", "Gen.1.1\t0\t-1\t2\tword", false},
		{"end before start", "Gen.1.1\t0\t5\t2\tword", false},
		{"non-numeric index", "Gen.1.1\tx\t0\t2\tword", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, reason := parseWordLine(tt.line)
			if tt.ok && span == nil {
				t.Errorf("parseWordLine(%q) rejected: %s", tt.line, reason)
			}
			if !tt.ok && span != nil {
				t.Errorf("parseWordLine(%q) accepted %+v", tt.line, span)
			}
		})
	}
}

func TestParseWordLineZeroWidth(t *testing.T) {
	// Zero-width spans are legal; markers with no surface text occur in
	// interlinear data.
	span, reason := parseWordLine("Gen.1.1\t0\t4\t4\tmarker")
	if span == nil {
		t.Fatalf("zero-width span rejected: %s", reason)
	}
	if span.Start != 4 || span.End != 4 {
		t.Errorf("span = [%d,%d), want [4,4)", span.Start, span.End)
	}
}
