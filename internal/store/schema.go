package store

// schemaDDL creates all tables and indexes. Statements are idempotent so
// Open can run them on every start.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS books (
	id    TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	ord   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS verses (
	id        TEXT PRIMARY KEY,
	book_id   TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	chapter   INTEGER NOT NULL,
	number    INTEGER NOT NULL,
	text      TEXT NOT NULL,
	text_hash TEXT NOT NULL,
	UNIQUE (book_id, chapter, number)
);

CREATE INDEX IF NOT EXISTS idx_verses_chapter ON verses(book_id, chapter, number);

CREATE TABLE IF NOT EXISTS word_spans (
	verse_id     TEXT NOT NULL REFERENCES verses(id) ON DELETE CASCADE,
	word_index   INTEGER NOT NULL,
	start_offset INTEGER NOT NULL,
	end_offset   INTEGER NOT NULL,
	original     TEXT NOT NULL,
	translit     TEXT NOT NULL DEFAULT '',
	gloss        TEXT NOT NULL DEFAULT '',
	morphology   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (verse_id, word_index)
);

CREATE INDEX IF NOT EXISTS idx_word_spans_offset ON word_spans(verse_id, start_offset);

CREATE TABLE IF NOT EXISTS highlights (
	id           TEXT PRIMARY KEY,
	verse_id     TEXT NOT NULL REFERENCES verses(id) ON DELETE CASCADE,
	start_offset INTEGER NOT NULL,
	end_offset   INTEGER NOT NULL,
	color        TEXT NOT NULL,
	snapshot     TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_highlights_verse ON highlights(verse_id, created_at);
`
