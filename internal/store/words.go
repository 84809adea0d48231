package store

import (
	"fmt"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
)

// InsertWordSpans stores interlinear word spans. Spans referencing a verse
// that is not in the corpus are skipped, not fatal: partial interlinear
// coverage is the normal state of a seed file. Returns the number of spans
// inserted and skipped.
func (s *Store) InsertWordSpans(spans []*reader.WordSpan) (inserted, skipped int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("beginning word span insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO word_spans (verse_id, word_index, start_offset, end_offset, original, translit, gloss, morphology)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(verse_id, word_index) DO UPDATE SET
			start_offset = excluded.start_offset,
			end_offset   = excluded.end_offset,
			original     = excluded.original,
			translit     = excluded.translit,
			gloss        = excluded.gloss,
			morphology   = excluded.morphology`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing word span insert: %w", err)
	}
	defer stmt.Close()

	exists, err := tx.Prepare(`SELECT 1 FROM verses WHERE id = ?`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing verse check: %w", err)
	}
	defer exists.Close()

	for _, ws := range spans {
		var one int
		if err := exists.QueryRow(string(ws.VerseID)).Scan(&one); err != nil {
			logging.ImportSkip("wordspans", fmt.Sprintf("%s#%d", ws.VerseID, ws.WordIndex), "verse not in corpus")
			skipped++
			continue
		}
		if ws.Start < 0 || ws.End < ws.Start {
			logging.ImportSkip("wordspans", fmt.Sprintf("%s#%d", ws.VerseID, ws.WordIndex), "invalid offsets",
				"start", ws.Start, "end", ws.End)
			skipped++
			continue
		}
		_, err := stmt.Exec(string(ws.VerseID), ws.WordIndex, ws.Start, ws.End,
			ws.Original, ws.Translit, ws.Gloss, ws.Morphology)
		if err != nil {
			return inserted, skipped, fmt.Errorf("inserting word span %s#%d: %w", ws.VerseID, ws.WordIndex, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, skipped, err
	}
	return inserted, skipped, nil
}

// WordSpans returns the word spans of a verse ordered by start offset, so
// the result can feed offset binary search directly.
func (s *Store) WordSpans(id reader.VerseID) ([]*reader.WordSpan, error) {
	rows, err := s.db.Query(`
		SELECT verse_id, word_index, start_offset, end_offset, original, translit, gloss, morphology
		FROM word_spans WHERE verse_id = ? ORDER BY start_offset`,
		string(id))
	if err != nil {
		return nil, fmt.Errorf("querying word spans for %s: %w", id, err)
	}
	defer rows.Close()

	var spans []*reader.WordSpan
	for rows.Next() {
		ws := &reader.WordSpan{}
		if err := rows.Scan(&ws.VerseID, &ws.WordIndex, &ws.Start, &ws.End,
			&ws.Original, &ws.Translit, &ws.Gloss, &ws.Morphology); err != nil {
			return nil, fmt.Errorf("scanning word span: %w", err)
		}
		spans = append(spans, ws)
	}
	return spans, rows.Err()
}
