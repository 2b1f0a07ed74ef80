// package tasks implements the library aggregation pipeline.
//
// The core abstraction is LibraryEngine, which drives the catalog client
// to collect a user's full deduplicated song set, enrich it with genre
// metadata, and populate the per-session dictionaries. Operations emit
// progress updates via channels for non-blocking status reporting.
package tasks

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/services"
	"github.com/ferrovax/amx/internal/shared"
)

// SongCacher persists enriched songs as they are discovered.
// Implementations must tolerate repeat writes for the same catalog ID.
type SongCacher interface {
	CacheSong(song models.Song) error
	CacheGenres(genres []models.Genre) error
}

// AggregateResult contains a user's full deduplicated song set and the
// dictionaries accumulated while enriching it.
type AggregateResult struct {
	Songs     []models.Song             // deduplicated by catalog ID
	Genres    *models.GenreDictionary   // genre name -> catalog ID
	Subgenres *models.SubgenreDictionary // subgenre name presence
}

// EngineOpts contains tuning for a LibraryEngine.
type EngineOpts struct {
	NumWorkers int            // concurrent batch lookups (default 5, max 10)
	Cache      SongCacher     // optional write-through song cache
	Logger     *log.Logger    // defaults to a stderr logger
}

// LibraryEngine aggregates one user's library through a [services.Catalog].
//
// Failure policy is all-or-nothing: the first non-transient error (or a
// retry-exhausted transient) aborts the aggregation and no partial
// result is returned. Cache writes are best-effort and never fail an
// aggregation.
type LibraryEngine struct {
	catalog services.Catalog
	cache   SongCacher
	workers int
	logger  *log.Logger
}

// NewLibraryEngine creates a LibraryEngine for one catalog client.
func NewLibraryEngine(catalog services.Catalog, opts EngineOpts) *LibraryEngine {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &LibraryEngine{
		catalog: catalog,
		cache:   opts.Cache,
		workers: opts.NumWorkers,
		logger:  opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SongIDs returns the deduplicated union of the user's library song IDs
// and the song IDs of every library playlist.
func (e *LibraryEngine) SongIDs(ctx context.Context, progress chan<- ProgressUpdate) ([]string, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrAPIRequest)
	}

	libraryIDs, err := e.catalog.LibrarySongIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch library songs: %w", err)
	}
	e.sendProgress(progress, fetchLibraryUpdate(len(libraryIDs)))

	playlistIDs, err := e.catalog.PlaylistIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}
	e.sendProgress(progress, fetchPlaylistsUpdate(len(playlistIDs)))

	union := make([]string, 0, len(libraryIDs))
	seen := make(map[string]struct{}, len(libraryIDs))
	for _, id := range libraryIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		union = append(union, id)
	}

	for i, playlistID := range playlistIDs {
		e.sendProgress(progress, playlistTracksUpdate(i+1, len(playlistIDs), playlistID))

		songIDs, err := e.catalog.PlaylistSongIDs(ctx, playlistID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tracks for playlist %s: %w", playlistID, err)
		}

		for _, id := range songIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}

	return union, nil
}

// Aggregate collects the user's full deduplicated song set and enriches
// it with genre and subgenre metadata.
//
// IDs are partitioned into batches of at most [MaxBatchSize] and looked
// up by a bounded worker pool; every returned record constructs a
// validated [models.Song] and updates the result dictionaries.
func (e *LibraryEngine) Aggregate(ctx context.Context, progress chan<- ProgressUpdate) (*AggregateResult, error) {
	ids, err := e.SongIDs(ctx, progress)
	if err != nil {
		return nil, err
	}

	result := &AggregateResult{
		Genres:    models.NewGenreDictionary(),
		Subgenres: models.NewSubgenreDictionary(),
	}

	if len(ids) == 0 {
		return result, nil
	}

	batches := Partition(ids, MaxBatchSize)
	songs, err := e.lookupBatches(ctx, progress, batches, result)
	if err != nil {
		return nil, err
	}

	result.Songs = songs
	return result, nil
}

// lookupBatches runs the bulk lookups over a worker pool and assembles
// the deduplicated song list.
func (e *LibraryEngine) lookupBatches(ctx context.Context, progress chan<- ProgressUpdate, batches [][]string, result *AggregateResult) ([]models.Song, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		songs []models.Song
		err   error
	}

	jobs := make(chan []string, len(batches))
	results := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for range e.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				songs, err := e.lookupBatch(ctx, batch, result)
				results <- batchResult{songs: songs, err: err}
				if err != nil {
					cancel()
					return
				}
			}
		}()
	}

	for i, batch := range batches {
		e.sendProgress(progress, lookupBatchUpdate(i+1, len(batches), len(batch)))
		jobs <- batch
	}
	close(jobs)
	wg.Wait()
	close(results)

	seen := make(map[string]struct{})
	var songs []models.Song
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		for _, song := range r.songs {
			if _, ok := seen[song.ID]; ok {
				continue
			}
			seen[song.ID] = struct{}{}
			songs = append(songs, song)
		}
	}

	return songs, nil
}

// lookupBatch performs one bulk lookup, constructing songs and recording
// dictionary entries for each returned record.
func (e *LibraryEngine) lookupBatch(ctx context.Context, batch []string, result *AggregateResult) ([]models.Song, error) {
	records, err := e.catalog.Songs(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("batch lookup failed: %w", err)
	}

	songs := make([]models.Song, 0, len(records))
	for _, record := range records {
		song, err := models.NewSong(record.ID, record.GenreIDs(), record.Attributes.GenreNames)
		if err != nil {
			return nil, err
		}

		result.Genres.Record(record.GenreData())
		result.Subgenres.Record(record.Attributes.GenreNames)
		e.cacheSong(song, record.GenreData())

		songs = append(songs, song)
	}

	return songs, nil
}

// cacheSong writes a song and its genres through to the cache. Cache
// failures are logged, never propagated.
func (e *LibraryEngine) cacheSong(song models.Song, genres []models.Genre) {
	if e.cache == nil {
		return
	}
	if err := e.cache.CacheSong(song); err != nil {
		e.logger.Warn("song cache write failed", "song", song.ID, "error", err)
	}
	if err := e.cache.CacheGenres(genres); err != nil {
		e.logger.Warn("genre cache write failed", "song", song.ID, "error", err)
	}
}

// RecentlyPlayed fetches the user's recently played songs and records
// their genres and subgenres into the given dictionaries.
//
// Recently played songs never join the aggregated session song set;
// they only feed the dictionaries.
func (e *LibraryEngine) RecentlyPlayed(ctx context.Context, progress chan<- ProgressUpdate, genres *models.GenreDictionary, subgenres *models.SubgenreDictionary) ([]services.CatalogSong, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrAPIRequest)
	}

	recent, err := e.catalog.RecentlyPlayed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recently played: %w", err)
	}

	for i, played := range recent {
		e.sendProgress(progress, fetchRecentUpdate(i+1, len(recent), played.ID))

		// The recently-played listing omits relationships; a single-song
		// lookup fills in the genre resources.
		record, err := e.catalog.Song(ctx, played.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch genres for %s: %w", played.ID, err)
		}

		if genres != nil {
			genres.Record(record.GenreData())
		}
		if subgenres != nil {
			subgenres.Record(played.Attributes.GenreNames)
		}
	}

	return recent, nil
}

// Recommend returns a random chart song for the given catalog genre ID.
func (e *LibraryEngine) Recommend(ctx context.Context, genreID string) (*services.CatalogSong, error) {
	songs, err := e.catalog.ChartSongs(ctx, genreID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart songs: %w", err)
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no chart songs for genre %s", shared.ErrAPIRequest, genreID)
	}

	pick := songs[rand.IntN(len(songs))]
	return &pick, nil
}
