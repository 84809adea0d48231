package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

// CreateHighlight persists a highlight, assigning its ID and creation time.
// The incoming highlight's ID and CreatedAt are ignored.
func (s *Store) CreateHighlight(h *reader.Highlight) (*reader.Highlight, error) {
	if errs := reader.ValidateHighlight(h); len(errs) > 0 {
		return nil, errors.NewValidation("highlight", errs[0].Error())
	}

	stored := *h
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(`
		INSERT INTO highlights (id, verse_id, start_offset, end_offset, color, snapshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, string(stored.VerseID), stored.Start, stored.End,
		string(stored.Color), stored.Snapshot, stored.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("inserting highlight on %s: %w", stored.VerseID, err)
	}
	return &stored, nil
}

// DeleteHighlight removes a highlight by ID.
func (s *Store) DeleteHighlight(id string) error {
	res, err := s.db.Exec(`DELETE FROM highlights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting highlight %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NewNotFound("highlight", id)
	}
	return nil
}

// HighlightByID returns one highlight.
func (s *Store) HighlightByID(id string) (*reader.Highlight, error) {
	row := s.db.QueryRow(`
		SELECT id, verse_id, start_offset, end_offset, color, snapshot, created_at
		FROM highlights WHERE id = ?`, id)
	h, err := scanHighlight(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("highlight", id)
	}
	return h, err
}

// HighlightsByVerse returns the highlights anchored to any of the given
// verses, keyed by verse, ordered oldest first within each verse.
func (s *Store) HighlightsByVerse(ids []reader.VerseID) (map[reader.VerseID][]*reader.Highlight, error) {
	out := make(map[reader.VerseID][]*reader.Highlight)
	if len(ids) == 0 {
		return out, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}
	q := fmt.Sprintf(`
		SELECT id, verse_id, start_offset, end_offset, color, snapshot, created_at
		FROM highlights WHERE verse_id IN (%s) ORDER BY verse_id, created_at`,
		strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","))

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying highlights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, err
		}
		out[h.VerseID] = append(out[h.VerseID], h)
	}
	return out, rows.Err()
}

// ListHighlights returns every highlight ordered by creation time.
func (s *Store) ListHighlights() ([]*reader.Highlight, error) {
	rows, err := s.db.Query(`
		SELECT id, verse_id, start_offset, end_offset, color, snapshot, created_at
		FROM highlights ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing highlights: %w", err)
	}
	defer rows.Close()

	var out []*reader.Highlight
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHighlight(row rowScanner) (*reader.Highlight, error) {
	h := &reader.Highlight{}
	var created string
	if err := row.Scan(&h.ID, &h.VerseID, &h.Start, &h.End, &h.Color, &h.Snapshot, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parsing highlight timestamp %q: %w", created, err)
	}
	h.CreatedAt = t
	return h, nil
}
