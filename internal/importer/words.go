package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/store"
)

// WordsResult summarizes a word-seed import.
type WordsResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// wordFieldCount is the minimum tab-separated fields per seed line:
// verse_id, word_index, start, end, original. Translit, gloss, and
// morphology follow optionally.
const wordFieldCount = 5

// ImportWordsFile imports a tab-separated word-seed file from disk.
// Files with an .xz extension are decompressed transparently.
func ImportWordsFile(s *store.Store, path string) (*WordsResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	r, err := maybeDecompress(f, path)
	if err != nil {
		return nil, err
	}
	return ImportWords(s, r)
}

// ImportWords imports word spans from tab-separated lines. Blank lines
// and lines starting with '#' are ignored. Bad records are skipped and
// logged. Offsets in the seed are rune offsets into the verse text.
func ImportWords(s *store.Store, r io.Reader) (*WordsResult, error) {
	res := &WordsResult{}
	var spans []*reader.WordSpan

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		span, reason := parseWordLine(line)
		if span == nil {
			logging.ImportSkip("wordseed", fmt.Sprintf("line %d", lineNo), reason)
			res.Skipped++
			continue
		}
		spans = append(spans, span)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewIO("read", "wordseed", err)
	}

	inserted, skipped, err := s.InsertWordSpans(spans)
	res.Inserted = inserted
	res.Skipped += skipped
	return res, err
}

func parseWordLine(line string) (*reader.WordSpan, string) {
	fields := strings.Split(line, "\t")
	if len(fields) < wordFieldCount {
		return nil, fmt.Sprintf("%d fields, need at least %d", len(fields), wordFieldCount)
	}

	idx, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, "bad word index"
	}
	start, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, "bad start offset"
	}
	end, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, "bad end offset"
	}
	if start < 0 || end < start {
		return nil, "invalid offsets"
	}
	if fields[4] == "" {
		return nil, "empty original word"
	}

	span := &reader.WordSpan{
		VerseID:   reader.VerseID(fields[0]),
		WordIndex: idx,
		Start:     start,
		End:       end,
		Original:  fields[4],
	}
	if len(fields) > 5 {
		span.Translit = fields[5]
	}
	if len(fields) > 6 {
		span.Gloss = fields[6]
	}
	if len(fields) > 7 {
		span.Morphology = fields[7]
	}
	return span, ""
}
