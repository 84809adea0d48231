package text

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

func genesisVerses() []*reader.Verse {
	return []*reader.Verse{
		{ID: "Gen.1.1", Book: "Gen", Chapter: 1, Number: 1,
			Text: "In the beginning God created the heaven and the earth."},
		{ID: "Gen.1.2", Book: "Gen", Chapter: 1, Number: 2,
			Text: "And the earth was without form, and void."},
		{ID: "Gen.1.3", Book: "Gen", Chapter: 1, Number: 3,
			Text: "And God said, Let there be light: and there was light."},
	}
}

func TestBuildLayout(t *testing.T) {
	verses := genesisVerses()
	cfg := reader.DefaultRenderConfig()
	buf := Build(verses, cfg)

	spans := buf.Spans()
	if len(spans) != 3 {
		t.Fatalf("len(Spans()) = %d, want 3", len(spans))
	}

	// First verse starts at offset zero.
	if spans[0].AbsStart != 0 {
		t.Errorf("spans[0].AbsStart = %d, want 0", spans[0].AbsStart)
	}

	// Second verse starts after "1 " + verse text + one separator.
	want := len([]rune("1 ")) + len([]rune(verses[0].Text)) + 1
	if spans[1].AbsStart != want {
		t.Errorf("spans[1].AbsStart = %d, want %d", spans[1].AbsStart, want)
	}

	// The buffer reads back label, text, separator in order.
	text := buf.Text()
	if !strings.HasPrefix(text, "1 In the beginning") {
		t.Errorf("buffer prefix = %q", text[:20])
	}
	if !strings.Contains(text, "\n2 And the earth") {
		t.Error("second verse label not preceded by separator")
	}

	// No separator after the last verse.
	if strings.HasSuffix(text, "\n") {
		t.Error("buffer ends with a separator")
	}

	// Span geometry is consistent.
	for i, s := range spans {
		if s.TextLen() != len([]rune(verses[i].Text)) {
			t.Errorf("spans[%d].TextLen() = %d, want %d", i, s.TextLen(), len([]rune(verses[i].Text)))
		}
		got, ok := buf.VerseText(s.VerseID)
		if !ok {
			t.Fatalf("VerseText(%q) not found", s.VerseID)
		}
		if got != verses[i].Text {
			t.Errorf("VerseText(%q) = %q, want %q", s.VerseID, got, verses[i].Text)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	buf := Build(nil, reader.DefaultRenderConfig())
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buf.Len())
	}
	if len(buf.Spans()) != 0 {
		t.Errorf("len(Spans()) = %d, want 0", len(buf.Spans()))
	}
	if buf.Text() != "" {
		t.Errorf("Text() = %q, want empty", buf.Text())
	}
}

func TestBuildIdempotent(t *testing.T) {
	cfg := reader.DefaultRenderConfig()

	a := Build(genesisVerses(), cfg)
	b := Build(genesisVerses(), cfg)

	if a.Text() != b.Text() {
		t.Error("two builds of identical input produced different buffers")
	}
	if a.Key() != b.Key() {
		t.Errorf("Key() differs across identical builds: %q vs %q", a.Key(), b.Key())
	}
	if len(a.Spans()) != len(b.Spans()) {
		t.Fatalf("span counts differ: %d vs %d", len(a.Spans()), len(b.Spans()))
	}
	for i := range a.Spans() {
		if a.Spans()[i] != b.Spans()[i] {
			t.Errorf("spans[%d] differ: %+v vs %+v", i, a.Spans()[i], b.Spans()[i])
		}
	}
}

func TestBuildKeyChangesWithConfig(t *testing.T) {
	verses := genesisVerses()

	a := Build(verses, reader.DefaultRenderConfig())
	b := Build(verses, reader.RenderConfig{LabelFormat: "[%d] ", Separator: ' '})
	if a.Key() == b.Key() {
		t.Error("different configs produced the same cache key")
	}

	c := Build(verses[:2], reader.DefaultRenderConfig())
	if a.Key() == c.Key() {
		t.Error("different verse sets produced the same cache key")
	}
}

func TestBufferKeyMatchesBuild(t *testing.T) {
	cfg := reader.DefaultRenderConfig()
	verses := genesisVerses()

	if got, want := BufferKey(verses, cfg), Build(verses, cfg).Key(); got != want {
		t.Errorf("BufferKey = %q, Build().Key() = %q", got, want)
	}

	changed := genesisVerses()
	changed[0].Text = "revised"
	if BufferKey(verses, cfg) == BufferKey(changed, cfg) {
		t.Error("changed verse text produced the same cache key")
	}
}

func TestBuildMultiByteText(t *testing.T) {
	verses := []*reader.Verse{
		{ID: "Gen.1.1", Book: "Gen", Chapter: 1, Number: 1, Text: "בְּרֵאשִׁית בָּרָא"},
		{ID: "Gen.1.2", Book: "Gen", Chapter: 1, Number: 2, Text: "וְהָאָרֶץ"},
	}
	buf := Build(verses, reader.DefaultRenderConfig())

	spans := buf.Spans()
	// Offsets count runes, not bytes.
	wantLen := len([]rune(verses[0].Text))
	if spans[0].TextLen() != wantLen {
		t.Errorf("TextLen() = %d, want %d (rune count)", spans[0].TextLen(), wantLen)
	}

	// Slicing at rune boundaries never splits a character.
	got, _ := buf.VerseText("Gen.1.1")
	if got != verses[0].Text {
		t.Errorf("VerseText = %q, want %q", got, verses[0].Text)
	}
	if s := buf.Slice(spans[1].TextStart(), spans[1].AbsEnd()); s != verses[1].Text {
		t.Errorf("Slice = %q, want %q", s, verses[1].Text)
	}
}

func TestSliceClamps(t *testing.T) {
	buf := Build(genesisVerses(), reader.DefaultRenderConfig())

	if got := buf.Slice(-5, 4); got != "1 In" {
		t.Errorf("Slice(-5, 4) = %q, want %q", got, "1 In")
	}
	if got := buf.Slice(buf.Len()-1, buf.Len()+10); got != "." {
		t.Errorf("Slice past end = %q, want %q", got, ".")
	}
	if got := buf.Slice(10, 5); got != "" {
		t.Errorf("inverted Slice = %q, want empty", got)
	}
}

func TestSpanLookup(t *testing.T) {
	buf := Build(genesisVerses(), reader.DefaultRenderConfig())

	span, ok := buf.Span("Gen.1.2")
	if !ok {
		t.Fatal("Span(Gen.1.2) not found")
	}
	if span.Number != 2 {
		t.Errorf("Number = %d, want 2", span.Number)
	}

	if _, ok := buf.Span("Exod.1.1"); ok {
		t.Error("Span returned ok for verse not in buffer")
	}
}
