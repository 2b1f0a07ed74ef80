package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/services"
	"github.com/ferrovax/amx/internal/sessions"
	"github.com/ferrovax/amx/internal/shared"
)

// SessionHandler exposes the session store over HTTP.
//
// Implements the Handler interface for registration with a Router.
type SessionHandler struct {
	store  *sessions.Store
	logger *log.Logger
}

// NewSessionHandler creates a handler backed by the given store.
func NewSessionHandler(store *sessions.Store, logger *log.Logger) *SessionHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SessionHandler{store: store, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *SessionHandler) Routes() []string {
	return []string{
		"/api/login",
		"/api/logout",
		"/api/playlist",
		"/api/recent",
		"/api/recommend",
		"/api/session",
		"/health",
	}
}

// ServeHTTP dispatches to the route-specific handlers.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/login":
		h.post(w, r, h.login)
	case "/api/logout":
		h.post(w, r, h.logout)
	case "/api/playlist":
		h.post(w, r, h.playlist)
	case "/api/recent":
		h.get(w, r, h.recent)
	case "/api/recommend":
		h.get(w, r, h.recommend)
	case "/api/session":
		h.get(w, r, h.session)
	case "/health":
		h.get(w, r, h.health)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) post(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn(w, r)
}

func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn(w, r)
}

type loginRequest struct {
	Token string `json:"token"`
}

type loginResponse struct {
	Handle    int `json:"handle"`
	Songs     int `json:"songs"`
	Genres    int `json:"genres"`
	Subgenres int `json:"subgenres"`
}

func (h *SessionHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}

	session, err := h.store.CreateSession(r.Context(), req.Token, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loginResponse{
		Handle:    session.Handle,
		Songs:     len(session.Songs),
		Genres:    session.Genres.Len(),
		Subgenres: session.Subgenres.Len(),
	})
}

type logoutRequest struct {
	Token string `json:"token"`
}

type logoutResponse struct {
	Ended bool `json:"ended"`
}

func (h *SessionHandler) logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}
	if req.Token == "" {
		h.writeError(w, fmt.Errorf("%w: user credential", shared.ErrMissingCredentials))
		return
	}

	h.writeJSON(w, http.StatusOK, logoutResponse{Ended: h.store.EndSession(req.Token)})
}

type playlistRequest struct {
	Session     int               `json:"session"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Filters     models.FilterSpec `json:"filters"`
}

func (h *SessionHandler) playlist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: malformed request body", shared.ErrInvalidInput))
		return
	}
	if req.Name == "" {
		h.writeError(w, fmt.Errorf("%w: playlist name", shared.ErrInvalidInput))
		return
	}

	playlist, err := h.store.PushPlaylist(r.Context(), req.Session, req.Name, req.Description, req.Filters)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, playlist)
}

type recentResponse struct {
	Songs []services.CatalogSong `json:"songs"`
}

func (h *SessionHandler) recent(w http.ResponseWriter, r *http.Request) {
	handle, err := h.handleParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	songs, err := h.store.RecentlyPlayed(r.Context(), handle)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, recentResponse{Songs: songs})
}

func (h *SessionHandler) recommend(w http.ResponseWriter, r *http.Request) {
	handle, err := h.handleParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	genre := r.URL.Query().Get("genre")
	if genre == "" {
		h.writeError(w, fmt.Errorf("%w: genre", shared.ErrMissingArgument))
		return
	}

	song, err := h.store.Recommend(r.Context(), handle, genre)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, song)
}

type sessionResponse struct {
	Handle    int      `json:"handle"`
	Songs     int      `json:"songs"`
	Genres    []string `json:"genres"`
	Subgenres []string `json:"subgenres"`
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) {
	handle, err := h.handleParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	session, ok := h.store.Get(handle)
	if !ok {
		h.writeError(w, fmt.Errorf("%w: handle %d", shared.ErrUserNotInitialized, handle))
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse{
		Handle:    session.Handle,
		Songs:     len(session.Songs),
		Genres:    session.Genres.Names(),
		Subgenres: session.Subgenres.Names(),
	})
}

func (h *SessionHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.store.Len(),
	})
}

// handleParam parses the session query parameter.
func (h *SessionHandler) handleParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("session")
	if raw == "" {
		return 0, fmt.Errorf("%w: session", shared.ErrMissingArgument)
	}

	handle, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: session %q", shared.ErrInvalidInput, raw)
	}
	return handle, nil
}

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP status codes.
//
// Upstream catalog failures surface as 502 so callers can distinguish
// their mistakes from the catalog being down.
func (h *SessionHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrUserNotInitialized),
		errors.Is(err, shared.ErrEmptyPlaylist),
		errors.Is(err, shared.ErrMissingCredentials),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrGenreNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrAPIRequest), errors.Is(err, shared.ErrRetryExhausted):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}
