// package services defines interface Catalog for the remote music catalog API
package services

import (
	"context"

	"github.com/ferrovax/amx/internal/models"
)

// Catalog defines the catalog API surface the aggregation pipeline and
// session store consume. Implemented by [AppleMusicService]; mocked in
// tests.
type Catalog interface {
	// RecentlyPlayed retrieves the user's most recently played catalog songs with genres included.
	RecentlyPlayed(ctx context.Context) ([]CatalogSong, error)

	// LibrarySongIDs retrieves every catalog song ID in the user's library, deduplicated.
	LibrarySongIDs(ctx context.Context) ([]string, error)

	// PlaylistIDs retrieves every playlist ID in the user's library.
	PlaylistIDs(ctx context.Context) ([]string, error)

	// Playlists retrieves the user's library playlists.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// PlaylistSongIDs retrieves every catalog song ID in one playlist, deduplicated.
	PlaylistSongIDs(ctx context.Context, playlistID string) ([]string, error)

	// Songs bulk-looks-up catalog songs by ID with genres included.
	// At most MaxBulkLookupIDs per call.
	Songs(ctx context.Context, ids []string) ([]CatalogSong, error)

	// Song looks up a single catalog song with genres included.
	Song(ctx context.Context, id string) (*CatalogSong, error)

	// ChartSongs retrieves the chart song list for a catalog genre ID.
	ChartSongs(ctx context.Context, genreID string) ([]CatalogSong, error)

	// CreatePlaylist creates a library playlist from catalog song IDs.
	CreatePlaylist(ctx context.Context, name, description string, songIDs []string) (*models.Playlist, error)

	// Name returns the service name for logs and errors.
	Name() string
}

// CatalogFactory builds a [Catalog] bound to one user's credential.
// The session store calls it once per sign-in.
type CatalogFactory func(userToken string) Catalog
