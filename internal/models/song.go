package models

import (
	"fmt"
	"slices"

	"github.com/ferrovax/amx/internal/shared"
)

// Song is a lightweight record of one catalog song: its catalog ID, the
// catalog IDs of its genres, and the human-readable subgenre names the
// catalog attaches to it.
//
// Songs are immutable once constructed; build them with [NewSong].
type Song struct {
	ID            string   `json:"id"`
	GenreIDs      []string `json:"genre_ids"`
	SubgenreNames []string `json:"subgenre_names"`
}

// NewSong validates and constructs a Song.
//
// Every field is required. A missing catalog ID or a nil genre/subgenre
// list is a hard [shared.ErrValidation] failure, never a partially
// constructed value.
func NewSong(id string, genreIDs, subgenreNames []string) (Song, error) {
	if id == "" {
		return Song{}, fmt.Errorf("%w: song catalog ID is empty", shared.ErrValidation)
	}
	if genreIDs == nil {
		return Song{}, fmt.Errorf("%w: song %s has no genre IDs", shared.ErrValidation, id)
	}
	if subgenreNames == nil {
		return Song{}, fmt.Errorf("%w: song %s has no subgenre names", shared.ErrValidation, id)
	}

	return Song{
		ID:            id,
		GenreIDs:      slices.Clone(genreIDs),
		SubgenreNames: slices.Clone(subgenreNames),
	}, nil
}

// HasGenreID reports whether the song carries the given catalog genre ID.
func (s Song) HasGenreID(id string) bool {
	return slices.Contains(s.GenreIDs, id)
}

// HasSubgenre reports whether the song carries the given subgenre name.
func (s Song) HasSubgenre(name string) bool {
	return slices.Contains(s.SubgenreNames, name)
}

// Genre pairs a catalog genre ID with its display name.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Playlist describes a library playlist, either enumerated from the
// user's library or returned by the create-playlist endpoint.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count,omitempty"`
}

// FilterSpec selects songs from a session by genre name and/or subgenre
// name. An empty spec selects every song; a song matches when any listed
// genre or subgenre applies to it.
type FilterSpec struct {
	Genres    []string `json:"genres,omitempty"`
	Subgenres []string `json:"subgenres,omitempty"`
}

// Empty reports whether the spec applies no filtering at all.
func (f FilterSpec) Empty() bool {
	return len(f.Genres) == 0 && len(f.Subgenres) == 0
}
