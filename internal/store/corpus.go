package store

import (
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
)

// UpsertBook inserts or updates a book record.
func (s *Store) UpsertBook(b *reader.Book) error {
	_, err := s.db.Exec(`
		INSERT INTO books (id, title, ord) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, ord = excluded.ord`,
		b.ID, b.Title, b.Order)
	if err != nil {
		return fmt.Errorf("upserting book %s: %w", b.ID, err)
	}
	return nil
}

// Books returns all books ordered by canon position.
func (s *Store) Books() ([]*reader.Book, error) {
	rows, err := s.db.Query(`SELECT id, title, ord FROM books ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	var books []*reader.Book
	for rows.Next() {
		b := &reader.Book{}
		if err := rows.Scan(&b.ID, &b.Title, &b.Order); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// InsertVerses stores a batch of verses in one transaction. Verse text is
// hashed (BLAKE3) at insert so downstream consumers can detect upstream
// text drift against persisted annotations.
func (s *Store) InsertVerses(verses []*reader.Verse) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning verse insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO verses (id, book_id, chapter, number, text, text_hash)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text, text_hash = excluded.text_hash`)
	if err != nil {
		return fmt.Errorf("preparing verse insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range verses {
		if errs := reader.ValidateVerse(v); len(errs) > 0 {
			return errors.NewValidation("verse", errs[0].Error())
		}
		sum := blake3.Sum256([]byte(v.Text))
		if _, err := stmt.Exec(string(v.ID), v.Book, v.Chapter, v.Number, v.Text, hex.EncodeToString(sum[:])); err != nil {
			return fmt.Errorf("inserting verse %s: %w", v.ID, err)
		}
	}

	return tx.Commit()
}

// Chapter returns the ordered verses of one chapter.
func (s *Store) Chapter(book string, chapter int) ([]*reader.Verse, error) {
	rows, err := s.db.Query(`
		SELECT id, book_id, chapter, number, text FROM verses
		WHERE book_id = ? AND chapter = ? ORDER BY number`,
		book, chapter)
	if err != nil {
		return nil, fmt.Errorf("querying chapter %s %d: %w", book, chapter, err)
	}
	defer rows.Close()

	var verses []*reader.Verse
	for rows.Next() {
		v := &reader.Verse{}
		if err := rows.Scan(&v.ID, &v.Book, &v.Chapter, &v.Number, &v.Text); err != nil {
			return nil, fmt.Errorf("scanning verse: %w", err)
		}
		verses = append(verses, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(verses) == 0 {
		return nil, errors.NewNotFound("chapter", fmt.Sprintf("%s.%d", book, chapter))
	}
	return verses, nil
}

// VerseByID returns one verse.
func (s *Store) VerseByID(id reader.VerseID) (*reader.Verse, error) {
	v := &reader.Verse{}
	err := s.db.QueryRow(`
		SELECT id, book_id, chapter, number, text FROM verses WHERE id = ?`,
		string(id)).Scan(&v.ID, &v.Book, &v.Chapter, &v.Number, &v.Text)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("verse", string(id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying verse %s: %w", id, err)
	}
	return v, nil
}

// HasVerse reports whether a verse exists.
func (s *Store) HasVerse(id reader.VerseID) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM verses WHERE id = ?`, string(id)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking verse %s: %w", id, err)
	}
	return true, nil
}
