// Package text flattens ordered verses into a single addressable buffer and
// maps between buffer-absolute and verse-relative coordinates.
//
// The buffer is ephemeral and derived: it is rebuilt wholesale whenever the
// verse set, ordering, or render configuration changes, and is always
// reproducible from (verses, config). All offsets are rune offsets, never
// byte offsets, so multi-byte characters are never split.
package text

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

// VerseSpan locates one verse inside the flattened buffer.
type VerseSpan struct {
	// VerseID is the verse this span renders.
	VerseID reader.VerseID `json:"verse_id"`

	// Number is the verse number used for the label.
	Number int `json:"number"`

	// AbsStart is the rune offset of the label's first rune.
	AbsStart int `json:"abs_start"`

	// AbsLen is the span length in runes: label plus verse text.
	// The separator between verses belongs to no span.
	AbsLen int `json:"abs_len"`

	// LabelLen is the label length in runes.
	LabelLen int `json:"label_len"`
}

// TextStart returns the absolute rune offset of the verse text (past the label).
func (s VerseSpan) TextStart() int {
	return s.AbsStart + s.LabelLen
}

// TextLen returns the verse text length in runes.
func (s VerseSpan) TextLen() int {
	return s.AbsLen - s.LabelLen
}

// AbsEnd returns the absolute rune offset just past the span.
func (s VerseSpan) AbsEnd() int {
	return s.AbsStart + s.AbsLen
}

// Buffer is the flattened character sequence for a set of verses plus the
// per-verse offset table. Buffers are immutable once built.
type Buffer struct {
	runes []rune
	spans []VerseSpan
	byID  map[reader.VerseID]int
	key   string
}

// Build flattens an ordered verse list into a Buffer.
//
// For each verse it emits the numeric label (cfg.Label), then the verse text,
// then a single separator rune except after the last verse. Build is pure and
// deterministic: identical input yields a byte-identical buffer and span
// list, so results may be cached keyed on Key(). An empty verse list yields
// an empty buffer.
func Build(verses []*reader.Verse, cfg reader.RenderConfig) *Buffer {
	cfg = cfg.Normalized()

	b := &Buffer{
		byID: make(map[reader.VerseID]int, len(verses)),
		key:  BufferKey(verses, cfg),
	}

	for i, v := range verses {
		if i > 0 {
			b.runes = append(b.runes, cfg.Separator)
		}

		label := []rune(cfg.Label(v.Number))
		textRunes := []rune(v.Text)

		span := VerseSpan{
			VerseID:  v.ID,
			Number:   v.Number,
			AbsStart: len(b.runes),
			AbsLen:   len(label) + len(textRunes),
			LabelLen: len(label),
		}

		b.runes = append(b.runes, label...)
		b.runes = append(b.runes, textRunes...)

		b.byID[v.ID] = len(b.spans)
		b.spans = append(b.spans, span)
	}

	return b
}

// BufferKey computes the cache key a Build over the same input would
// produce, without building. The key covers the render configuration and
// each verse's identity and text, so a reimported verse invalidates
// cached buffers.
func BufferKey(verses []*reader.Verse, cfg reader.RenderConfig) string {
	cfg = cfg.Normalized()

	h := blake3.New()
	h.Write([]byte(cfg.Hash()))
	for _, v := range verses {
		h.Write([]byte(v.ID))
		h.Write([]byte{0})
		h.Write([]byte(v.Text))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Text returns the full buffer text.
func (b *Buffer) Text() string {
	return string(b.runes)
}

// Len returns the buffer length in runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Spans returns the verse offset table, sorted by AbsStart.
func (b *Buffer) Spans() []VerseSpan {
	return b.spans
}

// Span returns the VerseSpan for the given verse.
func (b *Buffer) Span(id reader.VerseID) (VerseSpan, bool) {
	idx, ok := b.byID[id]
	if !ok {
		return VerseSpan{}, false
	}
	return b.spans[idx], true
}

// VerseText returns the text region of the given verse (label excluded).
func (b *Buffer) VerseText(id reader.VerseID) (string, bool) {
	span, ok := b.Span(id)
	if !ok {
		return "", false
	}
	return string(b.runes[span.TextStart() : span.TextStart()+span.TextLen()]), true
}

// Slice returns the buffer text between two absolute rune offsets.
// Offsets are clamped to the buffer bounds.
func (b *Buffer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.runes) {
		end = len(b.runes)
	}
	if start >= end {
		return ""
	}
	return string(b.runes[start:end])
}

// Key returns a stable cache key derived from the verse-id sequence and the
// render configuration. Two Build calls with identical input share a key.
func (b *Buffer) Key() string {
	return b.key
}
