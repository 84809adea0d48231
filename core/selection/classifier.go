// Package selection classifies raw reading-view gestures into logical
// intents: select a whole verse, look up one word, or highlight a range.
//
// A small state machine drives the classification. Taps and long-presses
// resolve immediately; drag selections are debounced so that a burst of
// selection-change events coalesces into a single classification computed
// from the last event's range. The debounce timer is a cancelable deferred
// task: a fired-but-superseded timer never emits an intent.
package selection

import (
	"sync"
	"time"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/core/text"
	"github.com/FocuswithJustin/JuniperReader/core/words"
)

// DefaultDebounce is the default drag-selection settle window.
const DefaultDebounce = 300 * time.Millisecond

// State is the classifier's lifecycle state for one gesture cycle.
type State int

const (
	// StateIdle means no gesture is in flight.
	StateIdle State = iota

	// StatePending means a drag selection is waiting out the debounce window.
	StatePending

	// StateResolved means the current gesture cycle emitted its intent.
	// The next gesture starts a fresh cycle.
	StateResolved
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Intent is a resolved gesture intent.
type Intent interface {
	intent()
}

// WholeVerseIntent selects an entire verse (tap gesture).
type WholeVerseIntent struct {
	// VerseID is the tapped verse.
	VerseID reader.VerseID `json:"verse_id"`

	// Number is the verse number.
	Number int `json:"number"`
}

func (WholeVerseIntent) intent() {}

// WordLookupIntent requests original-language detail for one word
// (long-press, or a drag that landed on an interlinear word).
type WordLookupIntent struct {
	// VerseID is the enclosing verse.
	VerseID reader.VerseID `json:"verse_id"`

	// Word is the interlinear span hit, nil when the fallback tokenizer ran.
	Word *reader.WordSpan `json:"word,omitempty"`

	// Fallback is the tokenizer result, nil when Word is set.
	Fallback *words.Extracted `json:"fallback,omitempty"`
}

func (WordLookupIntent) intent() {}

// HighlightIntent requests creation of a highlight over a drag selection.
type HighlightIntent struct {
	// VerseID is the verse the selection is attributed to.
	VerseID reader.VerseID `json:"verse_id"`

	// Range is the verse-relative selection range, clamped to the verse.
	Range text.RelRange `json:"range"`

	// Text is the selected verse text.
	Text string `json:"text"`
}

func (HighlightIntent) intent() {}

// Candidate builds the candidate Highlight value for this intent. The
// annotation store assigns the ID and owns the persisted copy; this engine
// only constructs and forwards the value.
func (i HighlightIntent) Candidate(color reader.ColorToken, now time.Time) *reader.Highlight {
	return &reader.Highlight{
		VerseID:   i.VerseID,
		Start:     i.Range.Start,
		End:       i.Range.End(),
		Color:     color,
		Snapshot:  i.Text,
		CreatedAt: now,
	}
}

// Source supplies read-only interlinear data during classification.
// Implementations must return spans sorted by start offset (words.SortSpans);
// an empty slice means the verse has no interlinear data.
type Source interface {
	WordSpans(id reader.VerseID) []*reader.WordSpan
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(id reader.VerseID) []*reader.WordSpan

// WordSpans calls f.
func (f SourceFunc) WordSpans(id reader.VerseID) []*reader.WordSpan {
	return f(id)
}

// Classifier turns gesture events against one buffer into intents.
//
// All gesture methods are synchronous and non-blocking; only the debounce
// timer is deferred. Methods are safe for use from a single caller goroutine
// concurrently with timer fires.
type Classifier struct {
	buf    *text.Buffer
	source Source
	emit   func(Intent)
	delay  time.Duration

	mu      sync.Mutex
	state   State
	gen     uint64
	timer   *time.Timer
	pending text.AbsRange
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithDebounce sets the drag-selection settle window.
func WithDebounce(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.delay = d
		}
	}
}

// New creates a Classifier over the given buffer. Resolved intents are
// delivered through emit, at most once per gesture cycle.
func New(buf *text.Buffer, source Source, emit func(Intent), opts ...Option) *Classifier {
	c := &Classifier{
		buf:    buf,
		source: source,
		emit:   emit,
		delay:  DefaultDebounce,
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Classifier) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Tap resolves immediately to a WholeVerseIntent for the verse at absOffset,
// clearing any pending drag classification (and with it any prior native
// text selection).
func (c *Classifier) Tap(absOffset int) error {
	c.mu.Lock()
	c.cancelLocked()

	id, err := c.buf.VerseAt(absOffset)
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		return err
	}
	span, _ := c.buf.Span(id)
	c.state = StateResolved
	c.mu.Unlock()

	c.emit(WholeVerseIntent{VerseID: id, Number: span.Number})
	return nil
}

// LongPress resolves immediately to a WordLookupIntent for the word at
// absOffset: the interlinear span when the verse has one there, otherwise
// the fallback tokenizer result, always within the enclosing verse's bounds.
func (c *Classifier) LongPress(absOffset int) error {
	c.mu.Lock()
	c.cancelLocked()

	id, rel, _, err := c.buf.ToRelative(text.AbsRange{Start: absOffset})
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		return err
	}

	intent := WordLookupIntent{VerseID: id}
	if w, ok := words.Find(c.source.WordSpans(id), rel.Start); ok {
		intent.Word = w
	} else {
		verseText, _ := c.buf.VerseText(id)
		position := rel.Start
		if n := len([]rune(verseText)); position >= n {
			// Press landed past the text (separator or verse end).
			position = n - 1
		}
		if position >= 0 {
			if ex, exErr := words.ExtractWord(verseText, position); exErr == nil {
				intent.Fallback = &ex
			}
		}
	}

	c.state = StateResolved
	c.mu.Unlock()

	c.emit(intent)
	return nil
}

// SelectionChanged records a drag-selection change and (re)arms the debounce
// timer. Each call cancels and restarts the window: only the last range
// before the window elapses is classified. A zero-length range is treated as
// SelectionCleared.
func (c *Classifier) SelectionChanged(r text.AbsRange) {
	if r.IsEmpty() {
		c.SelectionCleared()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.state = StatePending
	c.pending = r

	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(gen)
	})
}

// SelectionCleared cancels any pending classification and returns to Idle.
// Call on zero-length selection and on view teardown.
func (c *Classifier) SelectionCleared() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.state = StateIdle
}

// Close tears the classifier down, canceling any pending timer.
func (c *Classifier) Close() {
	c.SelectionCleared()
}

// cancelLocked stops the pending timer and invalidates in-flight fires.
// Callers must hold c.mu.
func (c *Classifier) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// fire classifies the pending range once the debounce window elapses.
// A stale fire (superseded by a newer event) is a no-op, guaranteeing at
// most one Resolved transition per gesture cycle.
func (c *Classifier) fire(gen uint64) {
	c.mu.Lock()

	if gen != c.gen || c.state != StatePending {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	id, rel, _, err := c.buf.ToRelative(c.pending)
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		return
	}

	var intent Intent
	spans := c.source.WordSpans(id)
	if w, ok := words.Find(spans, rel.Start); ok {
		// The verse has interlinear data and the selection starts on a word.
		intent = WordLookupIntent{VerseID: id, Word: w}
	} else {
		verseText, _ := c.buf.VerseText(id)
		runes := []rune(verseText)
		selected := ""
		if rel.Start <= len(runes) && rel.End() <= len(runes) {
			selected = string(runes[rel.Start:rel.End()])
		}
		intent = HighlightIntent{VerseID: id, Range: rel, Text: selected}
	}

	c.state = StateResolved
	c.mu.Unlock()

	c.emit(intent)
}
