// Package api provides the JuniperReader REST and gesture-session server.
//
// REST endpoints serve rendered chapters, highlights, and search. The
// WebSocket endpoint runs one gesture session per connection: raw view
// gestures come in, classified intents go out.
package api

import (
	"fmt"
	"net/http"

	"github.com/FocuswithJustin/JuniperReader/core/cache"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/store"
)

// Server serves the reading API over one store.
type Server struct {
	store   *store.Store
	buffers *cache.BufferCache
	cfg     Config
}

// NewServer creates a Server over an open store.
func NewServer(st *store.Store, cfg Config) *Server {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}
	cfg.Render = cfg.Render.Normalized()
	return &Server{
		store:   st,
		buffers: cache.NewDefaultBufferCache(),
		cfg:     cfg,
	}
}

// Routes configures all HTTP routes.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/books", s.handleBooks)
	mux.HandleFunc("/api/v1/chapters/", s.handleChapter)
	mux.HandleFunc("/api/v1/highlights", s.handleHighlights)
	mux.HandleFunc("/api/v1/highlights/", s.handleHighlightByID)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/ws", s.handleGestureSession)

	return mux
}

// Start opens the store and serves until the listener fails.
func Start(cfg Config) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	srv := NewServer(st, cfg)
	handler := logging.CombinedMiddleware(srv.Routes())

	logging.ServerStartup("reader_api", "http", cfg.Port,
		"db_path", cfg.DBPath,
		"sqlite_driver", store.DriverName())

	return http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), handler)
}
