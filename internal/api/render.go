package api

import (
	"github.com/FocuswithJustin/JuniperReader/core/overlay"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/core/text"
	"github.com/FocuswithJustin/JuniperReader/core/words"
)

// ChapterRender is a fully rendered chapter: the flattened buffer text,
// its verse layout, and the overlay runs covering it.
type ChapterRender struct {
	Book    string              `json:"book"`
	Chapter int                 `json:"chapter"`
	Text    string              `json:"text"`
	Spans   []text.VerseSpan    `json:"spans"`
	Runs    []overlay.RenderRun `json:"runs"`
	Cached  bool                `json:"cached"`
}

// renderChapter loads a chapter, builds (or reuses) its buffer, lifts the
// verse-relative annotations into buffer coordinates, and composites the
// overlay runs.
func (s *Server) renderChapter(book string, chapter int) (*ChapterRender, error) {
	verses, err := s.store.Chapter(book, chapter)
	if err != nil {
		return nil, err
	}

	key := text.BufferKey(verses, s.cfg.Render)
	buf, cached := s.buffers.Get(key)
	if !cached {
		buf = text.Build(verses, s.cfg.Render)
		s.buffers.Put(buf)
	}

	ids := make([]reader.VerseID, len(verses))
	for i, v := range verses {
		ids[i] = v.ID
	}

	byVerse, err := s.store.HighlightsByVerse(ids)
	if err != nil {
		return nil, err
	}
	var absHighlights []*reader.Highlight
	for _, id := range ids {
		for _, h := range byVerse[id] {
			if ah, ok := liftHighlight(buf, h); ok {
				absHighlights = append(absHighlights, ah)
			}
		}
	}

	var absSpans []*reader.WordSpan
	for _, id := range ids {
		spans, err := s.store.WordSpans(id)
		if err != nil {
			return nil, err
		}
		for _, ws := range spans {
			if as, ok := liftWordSpan(buf, ws); ok {
				absSpans = append(absSpans, as)
			}
		}
	}
	words.SortSpans(absSpans)

	return &ChapterRender{
		Book:    book,
		Chapter: chapter,
		Text:    buf.Text(),
		Spans:   buf.Spans(),
		Runs:    overlay.Composite(buf.Text(), absHighlights, absSpans),
		Cached:  cached,
	}, nil
}

// liftHighlight copies a verse-relative highlight into buffer coordinates.
// Ranges beyond the current verse text are clamped; highlights that fall
// entirely outside it are dropped. Stale annotations degrade quietly
// instead of failing the render.
func liftHighlight(buf *text.Buffer, h *reader.Highlight) (*reader.Highlight, bool) {
	span, ok := buf.Span(h.VerseID)
	if !ok {
		return nil, false
	}
	start, end, ok := clampToVerse(h.Start, h.End, span.TextLen())
	if !ok {
		return nil, false
	}
	lifted := *h
	lifted.Start = span.TextStart() + start
	lifted.End = span.TextStart() + end
	return &lifted, true
}

// liftWordSpan copies a verse-relative word span into buffer coordinates.
func liftWordSpan(buf *text.Buffer, ws *reader.WordSpan) (*reader.WordSpan, bool) {
	span, ok := buf.Span(ws.VerseID)
	if !ok {
		return nil, false
	}
	start, end, ok := clampToVerse(ws.Start, ws.End, span.TextLen())
	if !ok {
		return nil, false
	}
	lifted := *ws
	lifted.Start = span.TextStart() + start
	lifted.End = span.TextStart() + end
	return &lifted, true
}

func clampToVerse(start, end, n int) (int, int, bool) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}
