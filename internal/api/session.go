package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/core/selection"
	"github.com/FocuswithJustin/JuniperReader/core/text"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // same-host reader UI; no cross-origin state to protect
	},
}

// GestureMessage is an inbound gesture-session message.
type GestureMessage struct {
	Type    string `json:"type"` // open, tap, longpress, selection, clear, highlight
	Book    string `json:"book,omitempty"`
	Chapter int    `json:"chapter,omitempty"`
	Offset  int    `json:"offset,omitempty"`
	Start   int    `json:"start,omitempty"`
	End     int    `json:"end,omitempty"`
	Color   string `json:"color,omitempty"`
}

// IntentMessage is an outbound gesture-session message.
type IntentMessage struct {
	Type      string            `json:"type"` // opened, verse, word, highlight_candidate, highlight_created, error
	Book      string            `json:"book,omitempty"`
	Chapter   int               `json:"chapter,omitempty"`
	VerseID   string            `json:"verse_id,omitempty"`
	Number    int               `json:"number,omitempty"`
	Word      *reader.WordSpan  `json:"word,omitempty"`
	Fallback  string            `json:"fallback,omitempty"`
	Start     int               `json:"start,omitempty"`
	End       int               `json:"end,omitempty"`
	Text      string            `json:"text,omitempty"`
	Highlight *reader.Highlight `json:"highlight,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// session is one gesture session: a WebSocket connection paired with a
// classifier over the currently open chapter.
type session struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu         sync.Mutex
	classifier *selection.Classifier
	candidate  *selection.HighlightIntent
}

// handleGestureSession upgrades the connection and runs the session until
// the client disconnects.
func (s *Server) handleGestureSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		server: s,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
	logging.WebSocketEvent("session_started", 1)

	go sess.writePump()
	sess.readPump()
}

func (c *session) readPump() {
	defer func() {
		c.mu.Lock()
		if c.classifier != nil {
			c.classifier.Close()
		}
		c.mu.Unlock()
		close(c.send)
		c.conn.Close()
		logging.WebSocketEvent("session_ended", 0)
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg GestureMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error("websocket unexpected close", "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.dispatch(msg)
	}
}

func (c *session) dispatch(msg GestureMessage) {
	switch msg.Type {
	case "open":
		c.open(msg.Book, msg.Chapter)
		return
	case "highlight":
		c.persistCandidate(reader.ColorToken(msg.Color))
		return
	}

	c.mu.Lock()
	cls := c.classifier
	c.mu.Unlock()
	if cls == nil {
		c.sendError("no chapter open")
		return
	}

	switch msg.Type {
	case "tap":
		if err := cls.Tap(msg.Offset); err != nil {
			c.sendError(err.Error())
		}
	case "longpress":
		if err := cls.LongPress(msg.Offset); err != nil {
			c.sendError(err.Error())
		}
	case "selection":
		cls.SelectionChanged(text.AbsRange{Start: msg.Start, Len: msg.End - msg.Start})
	case "clear":
		cls.SelectionCleared()
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

// open builds (or reuses) the chapter buffer and swaps in a fresh
// classifier over it.
func (c *session) open(book string, chapter int) {
	verses, err := c.server.store.Chapter(book, chapter)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	key := text.BufferKey(verses, c.server.cfg.Render)
	buf, ok := c.server.buffers.Get(key)
	if !ok {
		buf = text.Build(verses, c.server.cfg.Render)
		c.server.buffers.Put(buf)
	}

	source := selection.SourceFunc(func(id reader.VerseID) []*reader.WordSpan {
		spans, err := c.server.store.WordSpans(id)
		if err != nil {
			logging.StoreError("word_spans", err, "verse_id", string(id))
			return nil
		}
		return spans
	})

	c.mu.Lock()
	if c.classifier != nil {
		c.classifier.Close()
	}
	c.candidate = nil
	c.classifier = selection.New(buf, source, c.emitIntent,
		selection.WithDebounce(c.server.cfg.Debounce))
	c.mu.Unlock()

	c.sendMessage(IntentMessage{Type: "opened", Book: book, Chapter: chapter})
}

// emitIntent forwards a classified intent to the client. Highlight intents
// are additionally retained as the pending candidate: a follow-up
// "highlight" message with a color persists it.
func (c *session) emitIntent(intent selection.Intent) {
	switch i := intent.(type) {
	case selection.WholeVerseIntent:
		logging.GestureEvent("whole_verse", string(i.VerseID))
		c.sendMessage(IntentMessage{Type: "verse", VerseID: string(i.VerseID), Number: i.Number})

	case selection.WordLookupIntent:
		logging.GestureEvent("word_lookup", string(i.VerseID))
		out := IntentMessage{Type: "word", VerseID: string(i.VerseID), Word: i.Word}
		if i.Fallback != nil {
			out.Fallback = i.Fallback.Word
			out.Start = i.Fallback.Start
			out.End = i.Fallback.End
		}
		c.sendMessage(out)

	case selection.HighlightIntent:
		logging.GestureEvent("highlight_candidate", string(i.VerseID))
		c.mu.Lock()
		saved := i
		c.candidate = &saved
		c.mu.Unlock()
		c.sendMessage(IntentMessage{
			Type:    "highlight_candidate",
			VerseID: string(i.VerseID),
			Start:   i.Range.Start,
			End:     i.Range.End(),
			Text:    i.Text,
		})
	}
}

// persistCandidate turns the pending highlight candidate into a stored
// highlight. Persistence is fire-and-forget from the gesture path; store
// failures are logged and the session moves on.
func (c *session) persistCandidate(color reader.ColorToken) {
	if !color.IsValid() {
		c.sendError("invalid color: " + string(color))
		return
	}

	c.mu.Lock()
	candidate := c.candidate
	c.candidate = nil
	c.mu.Unlock()
	if candidate == nil {
		c.sendError("no highlight candidate pending")
		return
	}

	h := candidate.Candidate(color, time.Now().UTC())
	go func() {
		created, err := c.server.store.CreateHighlight(h)
		if err != nil {
			logging.StoreError("create_highlight", err, "verse_id", string(h.VerseID))
			return
		}
		c.sendMessage(IntentMessage{Type: "highlight_created", Highlight: created})
	}()
}

func (c *session) sendError(message string) {
	c.sendMessage(IntentMessage{Type: "error", Message: message})
}

func (c *session) sendMessage(msg IntentMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("failed to marshal session message", "error", err)
		return
	}
	defer func() {
		// The send channel closes when the reader exits; a racing timer
		// fire or store callback must not crash the process.
		recover()
	}()
	select {
	case c.send <- data:
	default:
		logging.Warn("session send buffer full, dropping message")
	}
}

func (c *session) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
