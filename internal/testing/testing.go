// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/services"
)

// MockCatalog is a configurable test double for [services.Catalog].
//
// Zero value behaves as an empty catalog; set the function fields to
// override individual calls. Call counts are safe for concurrent use.
type MockCatalog struct {
	RecentlyPlayedFunc  func(ctx context.Context) ([]services.CatalogSong, error)
	LibrarySongIDsFunc  func(ctx context.Context) ([]string, error)
	PlaylistIDsFunc     func(ctx context.Context) ([]string, error)
	PlaylistsFunc       func(ctx context.Context) ([]models.Playlist, error)
	PlaylistSongIDsFunc func(ctx context.Context, playlistID string) ([]string, error)
	SongsFunc           func(ctx context.Context, ids []string) ([]services.CatalogSong, error)
	SongFunc            func(ctx context.Context, id string) (*services.CatalogSong, error)
	ChartSongsFunc      func(ctx context.Context, genreID string) ([]services.CatalogSong, error)
	CreatePlaylistFunc  func(ctx context.Context, name, description string, songIDs []string) (*models.Playlist, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockCatalog) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times the named method was invoked.
func (m *MockCatalog) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockCatalog) RecentlyPlayed(ctx context.Context) ([]services.CatalogSong, error) {
	m.record("RecentlyPlayed")
	if m.RecentlyPlayedFunc != nil {
		return m.RecentlyPlayedFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalog) LibrarySongIDs(ctx context.Context) ([]string, error) {
	m.record("LibrarySongIDs")
	if m.LibrarySongIDsFunc != nil {
		return m.LibrarySongIDsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalog) PlaylistIDs(ctx context.Context) ([]string, error) {
	m.record("PlaylistIDs")
	if m.PlaylistIDsFunc != nil {
		return m.PlaylistIDsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalog) Playlists(ctx context.Context) ([]models.Playlist, error) {
	m.record("Playlists")
	if m.PlaylistsFunc != nil {
		return m.PlaylistsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalog) PlaylistSongIDs(ctx context.Context, playlistID string) ([]string, error) {
	m.record("PlaylistSongIDs")
	if m.PlaylistSongIDsFunc != nil {
		return m.PlaylistSongIDsFunc(ctx, playlistID)
	}
	return nil, nil
}

func (m *MockCatalog) Songs(ctx context.Context, ids []string) ([]services.CatalogSong, error) {
	m.record("Songs")
	if m.SongsFunc != nil {
		return m.SongsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockCatalog) Song(ctx context.Context, id string) (*services.CatalogSong, error) {
	m.record("Song")
	if m.SongFunc != nil {
		return m.SongFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalog) ChartSongs(ctx context.Context, genreID string) ([]services.CatalogSong, error) {
	m.record("ChartSongs")
	if m.ChartSongsFunc != nil {
		return m.ChartSongsFunc(ctx, genreID)
	}
	return nil, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name, description string, songIDs []string) (*models.Playlist, error) {
	m.record("CreatePlaylist")
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name, description, songIDs)
	}
	return &models.Playlist{ID: "p.mock", Name: name, Description: description, TrackCount: len(songIDs)}, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// CatalogSongWithGenres builds a catalog song DTO with included genre
// resources and subgenre names, the shape bulk lookup returns.
func CatalogSongWithGenres(id, name string, genres []models.Genre, subgenres []string) services.CatalogSong {
	song := services.CatalogSong{ID: id}
	song.Attributes.Name = name
	song.Attributes.GenreNames = subgenres

	for _, g := range genres {
		song.Relationships.Genres.Data = append(song.Relationships.Genres.Data, services.Genre{
			ID:         g.ID,
			Attributes: services.GenreAttributes{Name: g.Name},
		})
	}

	return song
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	fn func(*http.Request) (*http.Response, error)
}

func NewMockRoundTripper(fn func(*http.Request) (*http.Response, error)) *MockRoundTripper {
	return &MockRoundTripper{fn: fn}
}

func (m *MockRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	return m.fn(r)
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
