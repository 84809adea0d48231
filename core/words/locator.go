// Package words locates the word under a verse-relative offset, either from
// persisted interlinear word spans or via a tokenizing fallback scan.
//
// Both paths operate on verse-relative rune offsets, the same coordinate
// space word spans are persisted in, so results are directly comparable.
package words

import (
	"sort"
	"unicode"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

// Find returns the word span containing the given verse-relative offset.
// Spans must be sorted by Start and pairwise non-overlapping (the import
// invariant); lookup is O(log w) in the span count.
func Find(spans []*reader.WordSpan, offset int) (*reader.WordSpan, bool) {
	if len(spans) == 0 {
		return nil, false
	}

	// Last span starting at or before offset.
	idx := sort.Search(len(spans), func(i int) bool {
		return spans[i].Start > offset
	}) - 1
	if idx < 0 {
		return nil, false
	}
	if spans[idx].Contains(offset) {
		return spans[idx], true
	}
	return nil, false
}

// SortSpans sorts word spans by start offset in place and returns them.
// Store queries order by reading order (WordIndex), which for right-to-left
// interlinear data is not offset order.
func SortSpans(spans []*reader.WordSpan) []*reader.WordSpan {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// Extracted is a word found by the fallback tokenizer.
type Extracted struct {
	// Word is the extracted word text.
	Word string `json:"word"`

	// Start is the verse-relative rune offset where the word starts (inclusive).
	Start int `json:"start"`

	// End is the verse-relative rune offset where the word ends (exclusive).
	End int `json:"end"`
}

// ExtractWord finds the word around position in text, used when a verse has
// no persisted word spans. It scans backward from position while runes are
// neither whitespace nor punctuation to find the start, and forward likewise
// to find the end. Position must satisfy 0 <= position < len(text) in runes;
// otherwise it fails with a BoundsError.
//
// If position sits on a whitespace or punctuation rune, the result is the
// empty word at [position, position).
func ExtractWord(text string, position int) (Extracted, error) {
	runes := []rune(text)
	if position < 0 || position >= len(runes) {
		return Extracted{}, errors.NewBounds(position, len(runes))
	}

	if isWordBreak(runes[position]) {
		return Extracted{Start: position, End: position}, nil
	}

	start := position
	for start > 0 && !isWordBreak(runes[start-1]) {
		start--
	}

	end := position
	for end < len(runes) && !isWordBreak(runes[end]) {
		end++
	}

	return Extracted{
		Word:  string(runes[start:end]),
		Start: start,
		End:   end,
	}, nil
}

// isWordBreak reports whether the rune terminates a word scan.
func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
