package reader

import (
	"fmt"
	"sort"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// newValidationError creates a new ValidationError.
func newValidationError(path, message string) error {
	return &ValidationError{Path: path, Message: message}
}

// ValidateVerse validates a Verse and returns all validation errors.
func ValidateVerse(v *Verse) []error {
	var errs []error

	if v.ID == "" {
		errs = append(errs, newValidationError("verse", "ID is required"))
	}
	if v.Number < 1 {
		errs = append(errs, newValidationError("verse.number",
			fmt.Sprintf("Number must be 1-based, got %d", v.Number)))
	}
	if v.Chapter < 1 {
		errs = append(errs, newValidationError("verse.chapter",
			fmt.Sprintf("Chapter must be 1-based, got %d", v.Chapter)))
	}

	return errs
}

// ValidateWordSpans validates the word spans of one verse: each span must fit
// the verse text, and spans must be pairwise non-overlapping.
func ValidateWordSpans(v *Verse, spans []*WordSpan) []error {
	var errs []error

	length := v.Len()
	for i, ws := range spans {
		path := fmt.Sprintf("word_spans[%d]", i)
		if ws.VerseID != v.ID {
			errs = append(errs, newValidationError(path,
				fmt.Sprintf("VerseID %q does not match verse %q", ws.VerseID, v.ID)))
		}
		if ws.Start < 0 || ws.Start >= ws.End || ws.End > length {
			errs = append(errs, newValidationError(path,
				fmt.Sprintf("span [%d,%d) does not satisfy 0 <= start < end <= %d", ws.Start, ws.End, length)))
		}
	}

	// Overlap check over a sorted copy; input order is reading order, not
	// necessarily offset order.
	sorted := make([]*WordSpan, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			errs = append(errs, newValidationError("word_spans",
				fmt.Sprintf("spans [%d,%d) and [%d,%d) overlap",
					sorted[i-1].Start, sorted[i-1].End, sorted[i].Start, sorted[i].End)))
		}
	}

	return errs
}

// ValidateHighlight validates a candidate Highlight before persistence.
func ValidateHighlight(h *Highlight) []error {
	var errs []error

	if h.VerseID == "" {
		errs = append(errs, newValidationError("highlight.verse_id", "VerseID is required"))
	}
	if h.Start < 0 || h.Start >= h.End {
		errs = append(errs, newValidationError("highlight",
			fmt.Sprintf("range [%d,%d) must satisfy 0 <= start < end", h.Start, h.End)))
	}
	if !h.Color.IsValid() {
		errs = append(errs, newValidationError("highlight.color",
			fmt.Sprintf("invalid ColorToken: %q", h.Color)))
	}

	return errs
}
