package text

import (
	"sort"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

// AbsRange is a half-open range in buffer-absolute rune offsets.
type AbsRange struct {
	Start int `json:"start"`
	Len   int `json:"len"`
}

// End returns the exclusive end offset.
func (r AbsRange) End() int {
	return r.Start + r.Len
}

// IsEmpty reports whether the range covers no runes.
func (r AbsRange) IsEmpty() bool {
	return r.Len <= 0
}

// RelRange is a half-open range in verse-relative rune offsets.
// Verse-relative offsets are measured from the start of the verse text,
// excluding the numeric label. This is the coordinate space highlights and
// word spans are persisted in.
type RelRange struct {
	Start int `json:"start"`
	Len   int `json:"len"`
}

// End returns the exclusive end offset.
func (r RelRange) End() int {
	return r.Start + r.Len
}

// IsEmpty reports whether the range covers no runes.
func (r RelRange) IsEmpty() bool {
	return r.Len <= 0
}

// ToAbsolute converts a verse-relative range into buffer-absolute coordinates.
// It fails with a RangeError when the relative range does not fit the verse
// text, and a NotFoundError when the verse is not in the buffer.
func (b *Buffer) ToAbsolute(id reader.VerseID, rel RelRange) (AbsRange, error) {
	span, ok := b.Span(id)
	if !ok {
		return AbsRange{}, errors.NewNotFound("verse", string(id))
	}

	if rel.Start < 0 || rel.Len < 0 || rel.End() > span.TextLen() {
		return AbsRange{}, errors.NewRange(string(id), rel.Start, rel.End(), span.TextLen())
	}

	return AbsRange{
		Start: span.TextStart() + rel.Start,
		Len:   rel.Len,
	}, nil
}

// ToRelative converts a buffer-absolute range into the coordinate space of
// the verse containing the range's start offset.
//
// Two clamps apply, both reported via the clamped return:
//   - a start inside the verse's label (not its text) is clamped to relative
//     offset 0;
//   - a range extending past the located verse (a selection straddling a
//     verse boundary, or reaching into the separator) is clamped to the
//     verse's text length. The whole selection is attributed to the verse
//     containing the start offset.
func (b *Buffer) ToRelative(abs AbsRange) (reader.VerseID, RelRange, bool, error) {
	if len(b.spans) == 0 {
		return "", RelRange{}, false, errors.NewNotFound("verse", "")
	}
	if abs.Start < 0 || abs.Start > len(b.runes) {
		return "", RelRange{}, false, errors.NewBounds(abs.Start, len(b.runes))
	}

	// Locate the last span starting at or before abs.Start. O(log n) in
	// verse count.
	idx := sort.Search(len(b.spans), func(i int) bool {
		return b.spans[i].AbsStart > abs.Start
	}) - 1
	if idx < 0 {
		idx = 0
	}
	span := b.spans[idx]

	clamped := false

	relStart := abs.Start - span.TextStart()
	if relStart < 0 {
		// Start fell inside the label.
		relStart = 0
		clamped = true
	}
	if relStart > span.TextLen() {
		// Start fell on the separator after the verse.
		relStart = span.TextLen()
		clamped = true
	}

	relEnd := abs.End() - span.TextStart()
	if relEnd > span.TextLen() {
		relEnd = span.TextLen()
		clamped = true
	}
	if relEnd < relStart {
		relEnd = relStart
	}

	return span.VerseID, RelRange{Start: relStart, Len: relEnd - relStart}, clamped, nil
}

// VerseAt returns the verse containing the given absolute offset.
// Offsets inside a verse's label or on its trailing separator resolve to
// that verse, matching tap behavior.
func (b *Buffer) VerseAt(absOffset int) (reader.VerseID, error) {
	id, _, _, err := b.ToRelative(AbsRange{Start: absOffset, Len: 0})
	return id, err
}
