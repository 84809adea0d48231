package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/reader"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/store"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	SQLiteDriver string `json:"sqlite_driver"`
	Books        int    `json:"books"`
}

// HighlightRequest is the request body for highlight creation.
type HighlightRequest struct {
	VerseID  string `json:"verse_id"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Color    string `json:"color"`
	Snapshot string `json:"snapshot,omitempty"`
}

var startTime = time.Now()

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"service": "juniper-reader-api",
		"version": "v1",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.Books()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	respond(w, http.StatusOK, HealthInfo{
		Status:       "ok",
		Uptime:       time.Since(startTime).Round(time.Second).String(),
		SQLiteDriver: store.DriverType(),
		Books:        len(books),
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET")
		return
	}
	books, err := s.store.Books()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	respondWithTotal(w, http.StatusOK, books, len(books))
}

// handleChapter serves GET /api/v1/chapters/{book}/{chapter} as a fully
// rendered chapter: buffer text, verse spans, and overlay runs.
func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/chapters/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		respondError(w, http.StatusBadRequest, "BAD_PATH", "Expected /api/v1/chapters/{book}/{chapter}")
		return
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil || chapter < 1 {
		respondError(w, http.StatusBadRequest, "BAD_CHAPTER", "Chapter must be a positive integer")
		return
	}

	render, err := s.renderChapter(parts[0], chapter)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "RENDER_ERROR", err.Error())
		return
	}
	respond(w, http.StatusOK, render)
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listHighlights(w, r)
	case http.MethodPost:
		s.createHighlight(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET or POST")
	}
}

func (s *Server) listHighlights(w http.ResponseWriter, r *http.Request) {
	if verse := r.URL.Query().Get("verse"); verse != "" {
		byVerse, err := s.store.HighlightsByVerse([]reader.VerseID{reader.VerseID(verse)})
		if err != nil {
			respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
			return
		}
		hs := byVerse[reader.VerseID(verse)]
		respondWithTotal(w, http.StatusOK, hs, len(hs))
		return
	}

	hs, err := s.store.ListHighlights()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	respondWithTotal(w, http.StatusOK, hs, len(hs))
}

func (s *Server) createHighlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_JSON", err.Error())
		return
	}

	h := &reader.Highlight{
		VerseID:  reader.VerseID(req.VerseID),
		Start:    req.Start,
		End:      req.End,
		Color:    reader.ColorToken(req.Color),
		Snapshot: req.Snapshot,
	}
	if errs := reader.ValidateHighlight(h); len(errs) > 0 {
		respondError(w, http.StatusBadRequest, "INVALID_HIGHLIGHT", errs[0].Error())
		return
	}
	verse, err := s.store.VerseByID(h.VerseID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if n := verse.Len(); h.End > n {
		respondError(w, http.StatusBadRequest, "OUT_OF_RANGE",
			"Highlight range exceeds verse length "+strconv.Itoa(n))
		return
	}
	if h.Snapshot == "" {
		h.Snapshot = string([]rune(verse.Text)[h.Start:h.End])
	}

	created, err := s.store.CreateHighlight(h)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	respond(w, http.StatusCreated, created)
}

func (s *Server) handleHighlightByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/highlights/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, http.StatusBadRequest, "BAD_PATH", "Expected /api/v1/highlights/{id}")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h, err := s.store.HighlightByID(id)
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
				return
			}
			respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
			return
		}
		respond(w, http.StatusOK, h)

	case http.MethodDelete:
		if err := s.store.DeleteHighlight(id); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
				return
			}
			respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
			return
		}
		logging.Info("highlight deleted", "highlight_id", id)
		respond(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET or DELETE")
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET")
		return
	}
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		respondError(w, http.StatusBadRequest, "MISSING_QUERY", "Query parameter q is required")
		return
	}
	limit := 100
	if ls := r.URL.Query().Get("limit"); ls != "" {
		n, err := strconv.Atoi(ls)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "BAD_LIMIT", "Limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := s.store.Search(q, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	respondWithTotal(w, http.StatusOK, results, len(results))
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	writeResponse(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondWithTotal(w http.ResponseWriter, status int, data interface{}, total int) {
	writeResponse(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeResponse(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func writeResponse(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
