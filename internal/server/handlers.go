package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/slide-deck-generator/internal/db"
	"github.com/jonathan/slide-deck-generator/internal/deck"
	"github.com/jonathan/slide-deck-generator/internal/export"
	"github.com/jonathan/slide-deck-generator/internal/fetch"
	"github.com/jonathan/slide-deck-generator/internal/schemas"
	"github.com/jonathan/slide-deck-generator/internal/types"
)

// Request body limits
const (
	maxGenerateBody = 1 << 20
	maxExportBody   = 2 << 20
	maxFetchBody    = 8 << 10
)

var validate = validator.New()

// GenerateRequest represents the request body for /api/generate-slides
type GenerateRequest struct {
	Text string `json:"text" validate:"required"`
	// SourceURL is recorded with the archived deck when present
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url"`
}

// FetchRequest represents the request body for /api/fetch
type FetchRequest struct {
	URL        string `json:"url" validate:"required,url"`
	UseBrowser bool   `json:"use_browser,omitempty"`
}

// FetchResponse represents the response for /api/fetch
type FetchResponse struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// StageEvent is the payload of a "stage" SSE event
type StageEvent struct {
	Stage deck.Stage `json:"stage"`
}

// DeckEvent is the payload of the final "deck" SSE event
type DeckEvent struct {
	ID     string          `json:"id,omitempty"`
	Slides types.SlideDeck `json:"slides"`
}

// decodeBody reads a size-limited JSON body into dst and validates it
func decodeBody(r *http.Request, w http.ResponseWriter, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// generator builds a per-request generator; observer may be nil
func (s *Server) generator(observer func(deck.Stage)) *deck.Generator {
	opts := []deck.Option{deck.WithLogger(s.logger)}
	if observer != nil {
		opts = append(opts, deck.WithObserver(observer))
	}
	if s.cfg.CoverDate {
		opts = append(opts, deck.WithCoverDate(time.Now))
	}
	return deck.NewGenerator(s.cfg.Client, opts...)
}

// handleGenerate turns {text} into a slide deck using the server-held credential
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeBody(r, w, maxGenerateBody, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), deck.UserMessage(deck.ErrEmptySource), err.Error())
		return
	}

	slides, err := s.generate(r, req, nil)
	if err != nil {
		status, resp := generationError(err)
		s.jsonResponse(w, status, resp)
		return
	}

	if id := s.archive(r, req, slides); id != uuid.Nil {
		w.Header().Set("X-Deck-ID", id.String())
	}
	s.jsonResponse(w, http.StatusOK, slides)
}

// handleGenerateStream is handleGenerate with stage progress over SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeBody(r, w, maxGenerateBody, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), deck.UserMessage(deck.ErrEmptySource), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, string(deck.FailureInternal), "Streaming not supported", "")
		return
	}
	stopKeepAlive := sse.StartKeepAlive(sseKeepAlive)
	defer stopKeepAlive()

	slides, err := s.generate(r, req, func(stage deck.Stage) {
		if err := sse.WriteEvent(eventStage, StageEvent{Stage: stage}); err != nil {
			s.logger.Debug("failed to write stage event", zap.Error(err))
		}
	})
	if err != nil {
		_, resp := generationError(err)
		sse.WriteError(resp)
		return
	}

	event := DeckEvent{Slides: slides}
	if id := s.archive(r, req, slides); id != uuid.Nil {
		event.ID = id.String()
	}
	if err := sse.WriteEvent(eventDeck, event); err != nil {
		s.logger.Debug("failed to write deck event", zap.Error(err))
	}
}

// generate runs the pipeline with the server credential
func (s *Server) generate(r *http.Request, req GenerateRequest, observer func(deck.Stage)) (types.SlideDeck, error) {
	if s.cfg.APIKey == "" {
		s.logger.Error("generation requested but no API key is configured")
		return nil, errNoServerKey
	}
	return s.generator(observer).Generate(r.Context(), req.Text, s.cfg.APIKey)
}

// archive stores the deck when an archive is configured.
// Archive failures are logged and do not fail the request.
func (s *Server) archive(r *http.Request, req GenerateRequest, slides types.SlideDeck) uuid.UUID {
	if s.cfg.Archive == nil {
		return uuid.Nil
	}
	id, err := s.cfg.Archive.SaveDeck(r.Context(), &db.DeckInput{
		Provider:    s.cfg.Provider,
		Model:       s.cfg.Model,
		SourceURL:   req.SourceURL,
		SourceChars: len([]rune(req.Text)),
		Deck:        slides,
	})
	if err != nil {
		s.logger.Warn("failed to archive deck", zap.Error(err))
		return uuid.Nil
	}
	return id
}

// handleExport renders a posted deck to PDF or PPTX
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, string(deck.FailureInvalidInput), "Unsupported export format", err.Error())
		return
	}
	theme, err := export.LookupTheme(r.URL.Query().Get("theme"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), "Unknown theme", err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxExportBody))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, string(deck.FailureInvalidInput), "Request body too large", err.Error())
		return
	}
	if err := schemas.ValidateDeckJSON(body); err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), "Invalid slide deck", err.Error())
		return
	}
	slides, err := deck.Decode(body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), "Invalid slide deck", err.Error())
		return
	}

	data, err := export.Render(format, slides, theme)
	if err != nil {
		s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, string(deck.FailureInternal), "Failed to export slides", "")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="slides.%s"`, format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("failed to write export", zap.Error(err))
	}
}

// handleFetch returns the readable text of a URL
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if err := decodeBody(r, w, maxFetchBody, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), "A valid url is required", err.Error())
		return
	}

	opts := *s.cfg.FetchOptions
	opts.UseBrowser = opts.UseBrowser && req.UseBrowser
	result, err := s.cfg.Fetch(r.Context(), req.URL, &opts)
	if err != nil {
		s.logger.Warn("fetch failed", zap.String("url", req.URL), zap.Error(err))
		var fetchErr *fetch.Error
		details := err.Error()
		if errors.As(err, &fetchErr) {
			details = fetchErr.Message
		}
		s.errorResponse(w, http.StatusBadGateway, string(deck.FailureUpstream), "Failed to fetch content from URL", details)
		return
	}

	s.jsonResponse(w, http.StatusOK, FetchResponse{URL: result.URL, Text: result.Text})
}

// handleGetDeck returns an archived deck by ID
func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Archive == nil {
		s.errorResponse(w, http.StatusNotFound, "not_found", "Deck archive is not configured", "")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), "Invalid deck ID", err.Error())
		return
	}

	record, err := s.cfg.Archive.GetDeck(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		s.errorResponse(w, http.StatusNotFound, "not_found", "Deck not found", "")
		return
	}
	if err != nil {
		s.logger.Error("failed to get deck", zap.Stringer("id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, string(deck.FailureInternal), "Failed to load deck", "")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleDeleteDeck removes an archived deck
func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Archive == nil {
		s.errorResponse(w, http.StatusNotFound, "not_found", "Deck archive is not configured", "")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), "Invalid deck ID", err.Error())
		return
	}

	err = s.cfg.Archive.DeleteDeck(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		s.errorResponse(w, http.StatusNotFound, "not_found", "Deck not found", "")
		return
	}
	if err != nil {
		s.logger.Error("failed to delete deck", zap.Stringer("id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, string(deck.FailureInternal), "Failed to delete deck", "")
		return
	}

	s.logger.Info("deck deleted", zap.Stringer("id", id))
	w.WriteHeader(http.StatusNoContent)
}

// handleListDecks returns the most recent archived decks
func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Archive == nil {
		s.errorResponse(w, http.StatusNotFound, "not_found", "Deck archive is not configured", "")
		return
	}

	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			s.errorResponse(w, http.StatusBadRequest, string(deck.FailureInvalidInput), "limit must be between 1 and 100", "")
			return
		}
		limit = n
	}

	decks, err := s.cfg.Archive.ListDecks(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list decks", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, string(deck.FailureInternal), "Failed to list decks", "")
		return
	}
	if decks == nil {
		decks = []db.DeckSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"decks": decks})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"api_key_set": s.cfg.APIKey != "",
		"archive":     s.cfg.Archive != nil,
	})
}
