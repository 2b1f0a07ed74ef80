package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/server"
	"github.com/ferrovax/amx/internal/services"
	"github.com/ferrovax/amx/internal/sessions"
	"github.com/ferrovax/amx/internal/shared"
	th "github.com/ferrovax/amx/internal/testing"
)

func testRouter(t *testing.T, catalog *th.MockCatalog) (*server.BasicRouter, *sessions.Store) {
	t.Helper()

	store := sessions.NewStore(sessions.StoreOpts{
		Factory: func(string) services.Catalog { return catalog },
	})

	router := server.NewBasicRouter()
	router.Use(server.RequestID())
	router.Handler(server.NewSessionHandler(store, nil))

	return router, store
}

func testCatalog() *th.MockCatalog {
	return &th.MockCatalog{
		LibrarySongIDsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"1", "2"}, nil
		},
		SongsFunc: func(ctx context.Context, ids []string) ([]services.CatalogSong, error) {
			out := make([]services.CatalogSong, 0, len(ids))
			for _, id := range ids {
				out = append(out, th.CatalogSongWithGenres(id, "Song "+id,
					[]models.Genre{{ID: "g1", Name: "Rock"}}, []string{"Rock"}))
			}
			return out, nil
		},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, token string) int {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/login", `{"token":"`+token+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Handle int `json:"handle"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return resp.Handle
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("signs in and returns a handle", func(t *testing.T) {
		router, store := testRouter(t, testCatalog())

		rec := doJSON(t, router, http.MethodPost, "/api/login", `{"token":"alice"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		var resp struct {
			Handle int `json:"handle"`
			Songs  int `json:"songs"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Songs != 2 {
			t.Errorf("songs = %d, want 2", resp.Songs)
		}
		if store.Len() != 1 {
			t.Errorf("store has %d sessions, want 1", store.Len())
		}
	})

	t.Run("missing credential is a bad request", func(t *testing.T) {
		router, _ := testRouter(t, testCatalog())

		rec := doJSON(t, router, http.MethodPost, "/api/login", `{"token":""}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("upstream failure is a bad gateway", func(t *testing.T) {
		catalog := &th.MockCatalog{
			LibrarySongIDsFunc: func(ctx context.Context) ([]string, error) {
				return nil, &shared.UpstreamError{Status: 500, Endpoint: "/v1/me/library/songs"}
			},
		}
		router, _ := testRouter(t, catalog)

		rec := doJSON(t, router, http.MethodPost, "/api/login", `{"token":"alice"}`)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		router, _ := testRouter(t, testCatalog())

		rec := doJSON(t, router, http.MethodGet, "/api/login", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestLogoutEndpoint(t *testing.T) {
	router, store := testRouter(t, testCatalog())
	login(t, router, "alice")

	rec := doJSON(t, router, http.MethodPost, "/api/logout", `{"token":"alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Ended bool `json:"ended"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Ended {
		t.Error("expected ended=true")
	}
	if store.Len() != 0 {
		t.Errorf("store has %d sessions after logout", store.Len())
	}
}

func TestPlaylistEndpoint(t *testing.T) {
	t.Run("creates a playlist from filters", func(t *testing.T) {
		catalog := testCatalog()
		catalog.CreatePlaylistFunc = func(ctx context.Context, name, description string, songIDs []string) (*models.Playlist, error) {
			return &models.Playlist{ID: "p.new", Name: name, TrackCount: len(songIDs)}, nil
		}
		router, _ := testRouter(t, catalog)
		handle := login(t, router, "alice")

		body := `{"session":` + itoa(handle) + `,"name":"Rock Mix","filters":{"genres":["Rock"]}}`
		rec := doJSON(t, router, http.MethodPost, "/api/playlist", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}

		var playlist models.Playlist
		if err := json.Unmarshal(rec.Body.Bytes(), &playlist); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if playlist.TrackCount != 2 {
			t.Errorf("track count = %d, want 2", playlist.TrackCount)
		}
	})

	t.Run("empty filter result is a bad request", func(t *testing.T) {
		router, _ := testRouter(t, testCatalog())
		handle := login(t, router, "alice")

		body := `{"session":` + itoa(handle) + `,"name":"Nothing","filters":{"subgenres":["Polka"]}}`
		rec := doJSON(t, router, http.MethodPost, "/api/playlist", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown session handle is a bad request", func(t *testing.T) {
		router, _ := testRouter(t, testCatalog())

		rec := doJSON(t, router, http.MethodPost, "/api/playlist", `{"session":42,"name":"Ghost"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestSessionEndpoint(t *testing.T) {
	router, _ := testRouter(t, testCatalog())
	handle := login(t, router, "alice")

	rec := doJSON(t, router, http.MethodGet, "/api/session?session="+itoa(handle), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Songs  int      `json:"songs"`
		Genres []string `json:"genres"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Songs != 2 {
		t.Errorf("songs = %d, want 2", resp.Songs)
	}
	if len(resp.Genres) != 1 || resp.Genres[0] != "Rock" {
		t.Errorf("genres = %v, want [Rock]", resp.Genres)
	}

	t.Run("malformed handle is a bad request", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/session?session=abc", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing handle is a bad request", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/session", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRecommendEndpoint(t *testing.T) {
	t.Run("returns a chart song for a known genre", func(t *testing.T) {
		catalog := testCatalog()
		catalog.ChartSongsFunc = func(ctx context.Context, genreID string) ([]services.CatalogSong, error) {
			return []services.CatalogSong{{ID: "chart.1"}}, nil
		}
		router, _ := testRouter(t, catalog)
		handle := login(t, router, "alice")

		rec := doJSON(t, router, http.MethodGet, "/api/recommend?session="+itoa(handle)+"&genre=Rock", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var song services.CatalogSong
		if err := json.Unmarshal(rec.Body.Bytes(), &song); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if song.ID != "chart.1" {
			t.Errorf("song = %q, want chart.1", song.ID)
		}
	})

	t.Run("unknown genre is not found", func(t *testing.T) {
		router, _ := testRouter(t, testCatalog())
		handle := login(t, router, "alice")

		rec := doJSON(t, router, http.MethodGet, "/api/recommend?session="+itoa(handle)+"&genre=Zydeco", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := testRouter(t, testCatalog())

	rec := doJSON(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mk := func(name string) server.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router := server.NewBasicRouter()
	router.Use(mk("first"), mk("second"))
	router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := doJSON(t, router, http.MethodGet, "/ping", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("middleware order = %v, want [first second]", order)
	}

	t.Run("method filtering", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/ping", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
