// Apple Music API response types based on https://developer.apple.com/documentation/applemusicapi
package services

import "github.com/ferrovax/amx/internal/models"

// Genre represents a catalog genre resource.
type Genre struct {
	ID         string          `json:"id"`
	Attributes GenreAttributes `json:"attributes"`
}

// GenreAttributes holds the displayable genre fields.
type GenreAttributes struct {
	Name string `json:"name"`
}

// CatalogSong represents a catalog song resource with its genre relationship.
type CatalogSong struct {
	ID            string            `json:"id"`
	Attributes    SongAttributes    `json:"attributes"`
	Relationships SongRelationships `json:"relationships"`
}

// SongAttributes holds the displayable song fields.
//
// GenreNames mixes the primary genre with subgenre names; the catalog
// exposes no stable ID for the latter.
type SongAttributes struct {
	Name       string   `json:"name"`
	ArtistName string   `json:"artistName"`
	GenreNames []string `json:"genreNames"`
}

// SongRelationships carries the included genre resources for a song.
type SongRelationships struct {
	Genres GenreRelationship `json:"genres"`
}

// GenreRelationship wraps the genre resource list.
type GenreRelationship struct {
	Data []Genre `json:"data"`
}

// GenreData converts the song's included genre resources to domain pairs.
func (s CatalogSong) GenreData() []models.Genre {
	genres := make([]models.Genre, 0, len(s.Relationships.Genres.Data))
	for _, g := range s.Relationships.Genres.Data {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Attributes.Name})
	}
	return genres
}

// GenreIDs returns the catalog IDs of the song's included genres.
func (s CatalogSong) GenreIDs() []string {
	ids := make([]string, 0, len(s.Relationships.Genres.Data))
	for _, g := range s.Relationships.Genres.Data {
		ids = append(ids, g.ID)
	}
	return ids
}

// LibrarySong represents a song in the user's library.
//
// Library song IDs are library-scoped; playParams.catalogId maps back to
// the catalog namespace. Songs pending upload carry no playParams.
type LibrarySong struct {
	ID         string                `json:"id"`
	Attributes LibrarySongAttributes `json:"attributes"`
}

// LibrarySongAttributes holds library song fields.
type LibrarySongAttributes struct {
	Name       string     `json:"name"`
	PlayParams PlayParams `json:"playParams"`
}

// PlayParams carries the catalog mapping for a library song.
type PlayParams struct {
	ID        string `json:"id"`
	CatalogID string `json:"catalogId"`
}

// LibraryPlaylist represents a playlist in the user's library.
type LibraryPlaylist struct {
	ID         string                    `json:"id"`
	Attributes LibraryPlaylistAttributes `json:"attributes"`
}

// LibraryPlaylistAttributes holds playlist fields.
type LibraryPlaylistAttributes struct {
	Name        string `json:"name"`
	Description struct {
		Standard string `json:"standard"`
	} `json:"description"`
}

// chartResponse wraps the chart listing for a genre.
type chartResponse struct {
	Results struct {
		Songs []struct {
			Data []CatalogSong `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

// createPlaylistRequest is the body for the create-library-playlist endpoint.
type createPlaylistRequest struct {
	Attributes    createPlaylistAttributes    `json:"attributes"`
	Relationships createPlaylistRelationships `json:"relationships"`
}

type createPlaylistAttributes struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type createPlaylistRelationships struct {
	Tracks trackRefData `json:"tracks"`
}

type trackRefData struct {
	Data []trackRef `json:"data"`
}

type trackRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}
