package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or server layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	FetchPlaylists
	FetchPlaylistTracks
	LookupSongs
	FetchRecent
	CreatePlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchPlaylistTracks:
		return "fetch_playlist_tracks"
	case LookupSongs:
		return "lookup_songs"
	case FetchRecent:
		return "fetch_recent"
	case CreatePlaylist:
		return "create_playlist"
	default:
		return ""
	}
}

func fetchLibraryUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d library songs", count),
	}
}

func fetchPlaylistsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d playlists", count),
	}
}

func playlistTracksUpdate(step, total int, playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylistTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks for playlist %s...", step, total, playlistID),
	}
}

func lookupBatchUpdate(step, total, ids int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up %d songs...", step, total, ids),
	}
}

func fetchRecentUpdate(step, total int, songID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecent,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching genres for %s...", step, total, songID),
	}
}
