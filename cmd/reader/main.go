// Command reader is the JuniperReader CLI.
// It imports corpus and interlinear data, renders chapters, manages
// highlights, and runs the reading API server.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/overlay"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/core/text"
	"github.com/FocuswithJustin/JuniperReader/internal/api"
	"github.com/FocuswithJustin/JuniperReader/internal/importer"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/store"
)

const version = "0.1.0"

// CLI defines the command-line interface for reader.
var CLI struct {
	// Global flags
	DB        string `help:"SQLite database path" default:"reader.db" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" default:"text"`

	// Command groups (noun-first organization)
	Import    ImportGroup    `cmd:"" help:"Import corpus text and interlinear word data"`
	Render    RenderCmd      `cmd:"" help:"Render a chapter with its highlight overlay"`
	Search    SearchCmd      `cmd:"" help:"Search verse text"`
	Highlight HighlightGroup `cmd:"" help:"Highlight operations (list, add, remove)"`
	Serve     ServeCmd       `cmd:"" help:"Start the reading API server"`
	Version   VersionCmd     `cmd:"" help:"Print version information"`
}

// ImportGroup contains import operations.
type ImportGroup struct {
	Corpus ImportCorpusCmd `cmd:"" help:"Import an OSIS XML corpus (optionally .xz compressed)"`
	Words  ImportWordsCmd  `cmd:"" help:"Import a tab-separated interlinear word-seed file"`
}

// HighlightGroup contains highlight operations.
type HighlightGroup struct {
	List   HighlightListCmd   `cmd:"" help:"List highlights"`
	Add    HighlightAddCmd    `cmd:"" help:"Add a highlight to a verse"`
	Remove HighlightRemoveCmd `cmd:"" help:"Remove a highlight by ID"`
}

// ImportCorpusCmd imports an OSIS corpus.
type ImportCorpusCmd struct {
	Path string `arg:"" help:"Path to OSIS XML file" type:"existingfile"`
}

func (c *ImportCorpusCmd) Run() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := importer.ImportOSISFile(st, c.Path)
	if err != nil {
		return fmt.Errorf("importing corpus: %w", err)
	}
	fmt.Printf("Imported %d books, %d verses (%d records skipped)\n",
		res.Books, res.Verses, res.Skipped)
	return nil
}

// ImportWordsCmd imports interlinear word spans.
type ImportWordsCmd struct {
	Path string `arg:"" help:"Path to tab-separated word-seed file" type:"existingfile"`
}

func (c *ImportWordsCmd) Run() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := importer.ImportWordsFile(st, c.Path)
	if err != nil {
		return fmt.Errorf("importing word seed: %w", err)
	}
	fmt.Printf("Imported %d word spans (%d records skipped)\n", res.Inserted, res.Skipped)
	return nil
}

// RenderCmd renders a chapter to the terminal.
type RenderCmd struct {
	Ref        string `arg:"" help:"Chapter reference (e.g., Gen.1)"`
	Highlights bool   `help:"Show the highlight overlay as run annotations"`
}

func (c *RenderCmd) Run() error {
	ref, err := reader.ParseRef(c.Ref)
	if err != nil {
		return err
	}
	if ref.Chapter == 0 {
		return fmt.Errorf("chapter-level reference required (e.g., Gen.1), got %q", c.Ref)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	verses, err := st.Chapter(ref.Book, ref.Chapter)
	if err != nil {
		return err
	}
	buf := text.Build(verses, reader.DefaultRenderConfig())
	fmt.Println(buf.Text())

	if !c.Highlights {
		return nil
	}

	ids := make([]reader.VerseID, len(verses))
	for i, v := range verses {
		ids[i] = v.ID
	}
	byVerse, err := st.HighlightsByVerse(ids)
	if err != nil {
		return err
	}

	var lifted []*reader.Highlight
	for _, id := range ids {
		for _, h := range byVerse[id] {
			abs, err := buf.ToAbsolute(id, text.RelRange{Start: h.Start, Len: h.End - h.Start})
			if err != nil {
				// Stale against the current text; drop from the view.
				continue
			}
			hl := *h
			hl.Start = abs.Start
			hl.End = abs.End()
			lifted = append(lifted, &hl)
		}
	}
	if len(lifted) == 0 {
		fmt.Println("(no highlights)")
		return nil
	}

	fmt.Println()
	for _, run := range overlay.Composite(buf.Text(), lifted, nil) {
		if len(run.Colors) == 0 {
			continue
		}
		names := make([]string, len(run.Colors))
		for i, col := range run.Colors {
			names[i] = string(col)
		}
		fmt.Printf("[%d,%d) %q  %s\n", run.Start, run.End, run.Text, strings.Join(names, "+"))
	}
	return nil
}

// SearchCmd searches verse text.
type SearchCmd struct {
	Query string `arg:"" help:"Substring to search for"`
	Limit int    `help:"Maximum results" default:"25"`
}

func (c *SearchCmd) Run() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := st.Search(c.Query, c.Limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%-12s %s\n", r.Verse.ID, r.Verse.Text)
	}
	return nil
}

// HighlightListCmd lists highlights.
type HighlightListCmd struct {
	Verse string `help:"Limit to one verse (e.g., Gen.1.1)"`
}

func (c *HighlightListCmd) Run() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var highlights []*reader.Highlight
	if c.Verse != "" {
		byVerse, err := st.HighlightsByVerse([]reader.VerseID{reader.VerseID(c.Verse)})
		if err != nil {
			return err
		}
		highlights = byVerse[reader.VerseID(c.Verse)]
	} else {
		highlights, err = st.ListHighlights()
		if err != nil {
			return err
		}
	}

	if len(highlights) == 0 {
		fmt.Println("No highlights.")
		return nil
	}
	for _, h := range highlights {
		fmt.Printf("%s  %-12s [%d,%d) %-7s %q\n",
			h.ID, h.VerseID, h.Start, h.End, h.Color, h.Snapshot)
	}
	return nil
}

// HighlightAddCmd adds a highlight.
type HighlightAddCmd struct {
	Verse string `arg:"" help:"Verse ID (e.g., Gen.1.1)"`
	Start int    `arg:"" help:"Start rune offset (inclusive, verse-relative)"`
	End   int    `arg:"" help:"End rune offset (exclusive, verse-relative)"`
	Color string `help:"Highlight color" default:"yellow" enum:"yellow,green,blue,pink,orange,purple"`
}

func (c *HighlightAddCmd) Run() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	verse, err := st.VerseByID(reader.VerseID(c.Verse))
	if err != nil {
		return err
	}
	if c.Start < 0 || c.End > verse.Len() || c.Start >= c.End {
		return errors.NewRange(c.Verse, c.Start, c.End, verse.Len())
	}

	h := &reader.Highlight{
		VerseID:  reader.VerseID(c.Verse),
		Start:    c.Start,
		End:      c.End,
		Color:    reader.ColorToken(c.Color),
		Snapshot: string([]rune(verse.Text)[c.Start:c.End]),
	}
	created, err := st.CreateHighlight(h)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s on %s: %q\n", created.ID, created.VerseID, created.Snapshot)
	return nil
}

// HighlightRemoveCmd removes a highlight.
type HighlightRemoveCmd struct {
	ID string `arg:"" help:"Highlight ID"`
}

func (c *HighlightRemoveCmd) Run() error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteHighlight(c.ID); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", c.ID)
	return nil
}

// ServeCmd starts the reading API server.
type ServeCmd struct {
	Port     int    `help:"HTTP server port" default:"8080"`
	Debounce string `help:"Drag-selection settle window (e.g., 300ms)" default:"300ms"`
}

func (c *ServeCmd) Run() error {
	cfg := api.DefaultConfig()
	cfg.Port = c.Port
	cfg.DBPath = CLI.DB
	if c.Debounce != "" {
		d, err := time.ParseDuration(c.Debounce)
		if err != nil {
			return fmt.Errorf("invalid debounce: %w", err)
		}
		if d < 150*time.Millisecond || d > 500*time.Millisecond {
			return fmt.Errorf("debounce %s outside supported window [150ms, 500ms]", d)
		}
		cfg.Debounce = d
	}
	return api.Start(cfg)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("reader version %s (sqlite driver: %s)\n", version, store.DriverType())
	return nil
}

// Helper functions

func openStore() (*store.Store, error) {
	return store.Open(CLI.DB)
}

func initLogging() {
	level := logging.LevelWarn
	switch strings.ToLower(CLI.LogLevel) {
	case "debug":
		level = logging.LevelDebug
	case "info":
		level = logging.LevelInfo
	case "error":
		level = logging.LevelError
	}

	format := logging.FormatText
	if strings.ToLower(CLI.LogFormat) == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("reader"),
		kong.Description("JuniperReader - verse-addressed reading and annotation engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	initLogging()
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
