// Package importer loads corpus text and interlinear seed data into the
// store. Import is tolerant by policy: malformed records are skipped and
// logged, never fatal, so a partially bad seed file still yields a usable
// corpus.
package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/store"
)

// Precompiled OSIS queries. MustCompile surfaces a bad expression at
// startup instead of on the first import.
var (
	bookQuery  = xpath.MustCompile("//div[@type='book']")
	verseQuery = xpath.MustCompile(".//verse[@osisID]")
	titleQuery = xpath.MustCompile("title")
)

// CorpusResult summarizes an OSIS corpus import.
type CorpusResult struct {
	Books   int `json:"books"`
	Verses  int `json:"verses"`
	Skipped int `json:"skipped"`
}

// ImportOSISFile imports an OSIS XML document from disk. Files with an
// .xz extension are decompressed transparently.
func ImportOSISFile(s *store.Store, path string) (*CorpusResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	r, err := maybeDecompress(f, path)
	if err != nil {
		return nil, err
	}
	return ImportOSIS(s, r)
}

// ImportOSIS imports an OSIS XML document. Books are read from
// div[@type='book'] elements and verses from container-form verse
// elements with an osisID. Milestone verses (empty elements paired by
// sID/eID) carry no inner text and are skipped.
func ImportOSIS(s *store.Store, r io.Reader) (*CorpusResult, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewParse("osis", "", err.Error())
	}

	res := &CorpusResult{}
	bookNodes := xmlquery.QuerySelectorAll(doc, bookQuery)

	order := 0
	for _, bn := range bookNodes {
		osisID := bn.SelectAttr("osisID")
		ref, err := reader.ParseRef(osisID)
		if err != nil {
			logging.ImportSkip("osis", osisID, "unparseable book osisID")
			res.Skipped++
			continue
		}

		order++
		title := ""
		if tn := xmlquery.QuerySelector(bn, titleQuery); tn != nil {
			title = strings.TrimSpace(tn.InnerText())
		}
		if err := s.UpsertBook(&reader.Book{ID: ref.Book, Title: title, Order: order}); err != nil {
			return res, err
		}
		res.Books++

		verseNodes := xmlquery.QuerySelectorAll(bn, verseQuery)

		var verses []*reader.Verse
		for _, vn := range verseNodes {
			vid := vn.SelectAttr("osisID")
			vref, err := reader.ParseRef(vid)
			if err != nil || vref.VerseID() == "" {
				logging.ImportSkip("osis", vid, "not a verse-level osisID")
				res.Skipped++
				continue
			}
			text := collapseSpace(vn.InnerText())
			if text == "" {
				logging.ImportSkip("osis", vid, "empty verse text")
				res.Skipped++
				continue
			}
			verses = append(verses, &reader.Verse{
				ID:      vref.VerseID(),
				Book:    vref.Book,
				Chapter: vref.Chapter,
				Number:  vref.Verse,
				Text:    text,
			})
		}

		if err := s.InsertVerses(verses); err != nil {
			return res, err
		}
		res.Verses += len(verses)
	}

	if res.Books == 0 {
		return nil, errors.NewParse("osis", "", "no book divisions found")
	}
	return res, nil
}

func maybeDecompress(f *os.File, path string) (io.Reader, error) {
	if !strings.HasSuffix(path, ".xz") {
		return f, nil
	}
	r, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening xz stream %s: %w", path, err)
	}
	return r, nil
}

// collapseSpace normalizes runs of whitespace to single spaces. OSIS
// documents are typically pretty-printed, and the raw inner text carries
// that indentation.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
