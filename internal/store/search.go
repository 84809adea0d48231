package store

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

// SearchResult is one verse matched by a substring search.
type SearchResult struct {
	Verse *reader.Verse `json:"verse"`
	// Offset is the verse-relative rune offset of the first match.
	Offset int `json:"offset"`
}

// Search scans verse text for a case-insensitive substring and returns
// matches in canon order. Limit <= 0 means no limit.
func (s *Store) Search(query string, limit int) ([]*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT v.id, v.book_id, v.chapter, v.number, v.text
		FROM verses v JOIN books b ON b.id = v.book_id
		WHERE v.text LIKE ? ESCAPE '\'
		ORDER BY b.ord, v.chapter, v.number`,
		"%"+escapeLike(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}
	defer rows.Close()

	lower := strings.ToLower(query)
	var out []*SearchResult
	for rows.Next() {
		v := &reader.Verse{}
		if err := rows.Scan(&v.ID, &v.Book, &v.Chapter, &v.Number, &v.Text); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		byteOff := strings.Index(strings.ToLower(v.Text), lower)
		if byteOff < 0 {
			// LIKE matched case-insensitively only for ASCII; fall back
			// to reporting the verse with an unknown offset.
			byteOff = 0
		}
		out = append(out, &SearchResult{
			Verse:  v,
			Offset: len([]rune(v.Text[:byteOff])),
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
