package repositories

import (
	"fmt"
	"strings"

	"github.com/ferrovax/amx/internal/models"
)

// SongCacheAdapter implements tasks.SongCacher over the song and genre
// repositories.
//
// Duplicate songs are silently ignored (UNIQUE constraint on the
// catalog ID), so aggregation can write through unconditionally.
type SongCacheAdapter struct {
	songs  *SongRepository
	genres *GenreRepository
}

// NewSongCacheAdapter creates a new SongCacheAdapter with the given repositories
func NewSongCacheAdapter(songs *SongRepository, genres *GenreRepository) *SongCacheAdapter {
	return &SongCacheAdapter{songs: songs, genres: genres}
}

// CacheSong caches an enriched song.
// Returns nil if the song is already cached; only actual failures propagate.
func (a *SongCacheAdapter) CacheSong(song models.Song) error {
	existing, err := a.songs.GetByCatalogID(song.ID)
	if err == nil && existing != nil {
		return nil
	}

	if err := a.songs.Create(models.NewPersistedSong(0, song)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache song: %w", err)
	}

	return nil
}

// CacheGenres upserts the genre mappings attached to a song.
func (a *SongCacheAdapter) CacheGenres(genres []models.Genre) error {
	for _, genre := range genres {
		if genre.Name == "" || genre.ID == "" {
			continue
		}
		if err := a.genres.Upsert(genre); err != nil {
			return err
		}
	}
	return nil
}
