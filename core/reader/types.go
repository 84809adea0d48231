package reader

// types.go - Consolidated reading-model type definitions
// This file contains the core types shared by the text engine, the store,
// and the API surface. All packages should import these types from
// core/reader rather than defining their own.

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// VerseID is the canonical identifier of a verse (OSIS-style, e.g. "Gen.1.1").
type VerseID string

// Book represents one book of the corpus.
type Book struct {
	// ID is the OSIS book ID (e.g., "Gen", "Matt", "1John").
	ID string `json:"id"`

	// Title is the human-readable title (e.g., "Genesis").
	Title string `json:"title,omitempty"`

	// Order is the position within the corpus (1-indexed).
	Order int `json:"order"`
}

// Verse is an immutable unit of corpus text.
// Verse text is fixed at import time and never mutated; a verse is removed
// only together with its owning chapter.
type Verse struct {
	// ID is the canonical verse identifier (e.g., "Gen.1.1").
	ID VerseID `json:"id"`

	// Book is the OSIS book ID.
	Book string `json:"book"`

	// Chapter is the chapter number (1-indexed).
	Chapter int `json:"chapter"`

	// Number is the verse number (1-indexed, unique within the chapter).
	// Number is the ordering key within a chapter.
	Number int `json:"number"`

	// Text is the verse text. Offsets into it are rune offsets.
	Text string `json:"text"`
}

// Len returns the length of the verse text in runes.
func (v *Verse) Len() int {
	return len([]rune(v.Text))
}

// WordSpan annotates a sub-range of a verse's text with original-language data.
// Spans are created at import time and read-only afterward. Spans for one
// verse are pairwise non-overlapping and satisfy 0 <= Start < End <= Len(text).
type WordSpan struct {
	// VerseID is the verse this span belongs to.
	VerseID VerseID `json:"verse_id"`

	// WordIndex is the 0-based position in reading order.
	WordIndex int `json:"word_index"`

	// Start is the verse-relative rune offset where the span starts (inclusive).
	Start int `json:"start"`

	// End is the verse-relative rune offset where the span ends (exclusive).
	End int `json:"end"`

	// Original is the original-language word text.
	Original string `json:"original"`

	// Translit is the transliteration (optional).
	Translit string `json:"translit,omitempty"`

	// Gloss is the short translation gloss (optional).
	Gloss string `json:"gloss,omitempty"`

	// Morphology is the morphological code (optional).
	Morphology string `json:"morphology,omitempty"`
}

// Contains reports whether the verse-relative offset falls inside the span.
func (w *WordSpan) Contains(offset int) bool {
	return offset >= w.Start && offset < w.End
}

// ColorToken is an opaque palette token for highlights.
// Tokens are stored verbatim and never formatted or parsed as color values.
type ColorToken string

// Palette tokens.
const (
	ColorYellow ColorToken = "yellow"
	ColorGreen  ColorToken = "green"
	ColorBlue   ColorToken = "blue"
	ColorPink   ColorToken = "pink"
	ColorOrange ColorToken = "orange"
	ColorPurple ColorToken = "purple"
)

// validColorTokens is the set of valid palette tokens.
var validColorTokens = map[ColorToken]bool{
	ColorYellow: true,
	ColorGreen:  true,
	ColorBlue:   true,
	ColorPink:   true,
	ColorOrange: true,
	ColorPurple: true,
}

// IsValid returns true if the color token is a known palette entry.
func (c ColorToken) IsValid() bool {
	return validColorTokens[c]
}

// Highlight is a user-created colored span over a verse's text.
// Highlights for the same verse may overlap; the compositor resolves overlap
// at render time. The annotation store owns the authoritative copy.
type Highlight struct {
	// ID is the unique highlight identifier (UUID).
	ID string `json:"id"`

	// VerseID is the verse the highlight is anchored to.
	VerseID VerseID `json:"verse_id"`

	// Start is the verse-relative rune offset where the highlight starts (inclusive).
	Start int `json:"start"`

	// End is the verse-relative rune offset where the highlight ends (exclusive).
	End int `json:"end"`

	// Color is the palette token to render with.
	Color ColorToken `json:"color"`

	// Snapshot is the highlighted text as it read at creation time.
	// Kept for display resilience when the verse text drifts upstream.
	Snapshot string `json:"snapshot,omitempty"`

	// CreatedAt is the creation timestamp. Stacking order for overlapping
	// highlights is creation order, most recent on top.
	CreatedAt time.Time `json:"created_at"`
}

// RenderConfig carries the render settings that shape the flattened buffer.
// It is passed explicitly into the builder and compositor; any change to it
// triggers a full buffer rebuild.
type RenderConfig struct {
	// LabelFormat is the fmt verb pattern for verse number labels.
	// The default "%d " yields labels like "1 ".
	LabelFormat string `json:"label_format"`

	// Separator is the single rune emitted between verses.
	Separator rune `json:"separator"`

	// FontClass names the font metrics class in use (opaque to this engine).
	FontClass string `json:"font_class,omitempty"`

	// Theme names the active theme (opaque to this engine).
	Theme string `json:"theme,omitempty"`
}

// DefaultRenderConfig returns the default render configuration.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		LabelFormat: "%d ",
		Separator:   '\n',
	}
}

// Label formats the numeric label emitted before a verse's text.
func (c RenderConfig) Label(number int) string {
	n := c.Normalized()
	return fmt.Sprintf(n.LabelFormat, number)
}

// Normalized returns the config with defaults applied to zero fields.
func (c RenderConfig) Normalized() RenderConfig {
	if c.LabelFormat == "" {
		c.LabelFormat = "%d "
	}
	if c.Separator == 0 {
		c.Separator = '\n'
	}
	return c
}

// Hash returns a stable BLAKE3 hash of the configuration, used as part of
// buffer cache keys. Identical configurations hash identically.
func (c RenderConfig) Hash() string {
	n := c.Normalized()
	data, err := json.Marshal(n)
	if err != nil {
		// RenderConfig contains only scalar fields; Marshal cannot fail.
		panic("reader: marshal RenderConfig: " + err.Error())
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
