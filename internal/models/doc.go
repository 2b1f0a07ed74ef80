// Package models defines domain entities for the catalog aggregation service.
//
// The package contains three categories of types:
//
// 1. Value types flowing through the aggregation pipeline:
//   - [Song] : deduplicated catalog song with genre IDs and subgenre names; construction is fallible
//   - [Genre] : catalog genre ID + display name pair
//   - [Playlist] : library playlist descriptor
//   - [FilterSpec] : genre/subgenre selection applied to a session's songs
//
// 2. Accumulating dictionaries:
//   - [GenreDictionary] : additive genre name -> catalog ID mapping
//   - [SubgenreDictionary] : additive subgenre name set
//
// Both are scoped per session and internally guarded so aggregation
// workers may record concurrently.
//
// 3. Persistent entities for the local song cache:
//   - [PersistedSong] : cached song row, unique per catalog ID
//
// Persistent entities implement the [Model] interface; [Repository]
// defines the CRUD surface the repositories package implements.
package models
