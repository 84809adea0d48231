package reader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Ref represents a canonical scripture reference.
type Ref struct {
	// Book is the OSIS book ID (e.g., "Gen", "Matt", "1John").
	Book string `json:"book"`

	// Chapter is the chapter number (1-indexed, 0 for whole-book references).
	Chapter int `json:"chapter,omitempty"`

	// Verse is the verse number (1-indexed, 0 for whole-chapter references).
	Verse int `json:"verse,omitempty"`

	// VerseEnd is the ending verse for ranges (optional).
	VerseEnd int `json:"verse_end,omitempty"`
}

// refGrammar is the participle grammar for OSIS-style references.
// Examples: "Gen", "Gen.1", "Gen.1.1", "Gen.1.1-3", "1John.3.16"
//
type refGrammar struct {
	BookPrefix string       `parser:"@Int?"`
	BookName   string       `parser:"@Ident"`
	ChapterRef *chapterPart `parser:"( '.' @@ )?"`
}

type chapterPart struct {
	Chapter  int        `parser:"@Int"`
	VerseRef *versePart `parser:"( '.' @@ )?"`
}

type versePart struct {
	Verse int  `parser:"@Int"`
	Range *int `parser:"( '-' @Int )?"`
}

// refLexer defines the lexer for OSIS references.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Z][A-Za-z]*`}, // Book names start with uppercase
	{Name: "Punct", Pattern: `[.\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// refParser is the participle parser for OSIS references.
var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses an OSIS-style reference string.
// Supported formats:
//   - "Gen" (book only)
//   - "Gen.1" (book and chapter)
//   - "Gen.1.1" (book, chapter, and verse)
//   - "Gen.1.1-3" (verse range)
//   - "1John.3.16" (numbered book)
func ParseRef(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty reference string")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid reference format: %q: %w", s, err)
	}

	ref := &Ref{
		Book: parsed.BookPrefix + parsed.BookName,
	}

	if parsed.ChapterRef != nil {
		ref.Chapter = parsed.ChapterRef.Chapter

		if parsed.ChapterRef.VerseRef != nil {
			ref.Verse = parsed.ChapterRef.VerseRef.Verse

			if parsed.ChapterRef.VerseRef.Range != nil {
				ref.VerseEnd = *parsed.ChapterRef.VerseRef.Range
			}
		}
	}

	return ref, nil
}

// String returns the OSIS ID representation of the reference.
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)

	if r.Chapter > 0 {
		sb.WriteString(".")
		sb.WriteString(strconv.Itoa(r.Chapter))

		if r.Verse > 0 {
			sb.WriteString(".")
			sb.WriteString(strconv.Itoa(r.Verse))

			if r.VerseEnd > 0 {
				sb.WriteString("-")
				sb.WriteString(strconv.Itoa(r.VerseEnd))
			}
		}
	}

	return sb.String()
}

// VerseID returns the VerseID for a fully-qualified verse reference.
// Returns an empty VerseID if the reference is not verse-level.
func (r *Ref) VerseID() VerseID {
	if r.Book == "" || r.Chapter == 0 || r.Verse == 0 {
		return ""
	}
	return VerseID(r.Book + "." + strconv.Itoa(r.Chapter) + "." + strconv.Itoa(r.Verse))
}

// IsRange returns true if this reference spans multiple verses.
func (r *Ref) IsRange() bool {
	return r.VerseEnd > 0 && r.VerseEnd > r.Verse
}

// MakeVerseID builds a VerseID from its components.
func MakeVerseID(book string, chapter, verse int) VerseID {
	return VerseID(book + "." + strconv.Itoa(chapter) + "." + strconv.Itoa(verse))
}
