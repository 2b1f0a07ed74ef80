// Package repositories implements SQLite persistence for the song cache.
//
// The cache accumulates enriched songs and genre mappings across runs;
// it never backs session state, which lives purely in memory.
//
// Key Implementations:
//   - [SongRepository] : cached songs, unique per catalog ID
//   - [GenreRepository] : durable genre name -> catalog ID mapping
//   - [SongCacheAdapter] : write-through adapter the aggregation engine consumes
//
// Sequence numbers provide stable ordering for cached rows independent
// of UUIDs and timestamps; [NextSequence] atomically increments the
// per-table counter.
package repositories
