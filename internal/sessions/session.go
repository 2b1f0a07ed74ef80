package sessions

import (
	"github.com/ferrovax/amx/internal/models"
)

// Session holds one signed-in user's aggregated state: the deduplicated
// song set and the dictionaries accumulated while enriching it.
//
// A session's handle is stable across repeated sign-ins of the same
// credential; its songs and dictionaries are replaced wholesale on each
// successful re-sign-in. Sessions are owned by the [Store] and must be
// treated as read-only by callers.
type Session struct {
	Handle    int
	Songs     []models.Song
	Genres    *models.GenreDictionary
	Subgenres *models.SubgenreDictionary
}

// Filter selects the session songs matching spec. An empty spec selects
// every song; otherwise a song matches when any requested genre or
// subgenre applies to it. Pure: neither the session nor the spec is
// mutated.
func (s *Session) Filter(spec models.FilterSpec) []models.Song {
	if spec.Empty() {
		out := make([]models.Song, len(s.Songs))
		copy(out, s.Songs)
		return out
	}

	// Genre names resolve to catalog IDs through the session's own
	// dictionary; names it has never seen simply match nothing.
	genreIDs := make(map[string]struct{}, len(spec.Genres))
	for _, name := range spec.Genres {
		if id, err := s.Genres.Lookup(name); err == nil {
			genreIDs[id] = struct{}{}
		}
	}

	subgenres := make(map[string]struct{}, len(spec.Subgenres))
	for _, name := range spec.Subgenres {
		subgenres[name] = struct{}{}
	}

	var matched []models.Song
	for _, song := range s.Songs {
		if songMatches(song, genreIDs, subgenres) {
			matched = append(matched, song)
		}
	}
	return matched
}

func songMatches(song models.Song, genreIDs, subgenres map[string]struct{}) bool {
	for _, id := range song.GenreIDs {
		if _, ok := genreIDs[id]; ok {
			return true
		}
	}
	for _, name := range song.SubgenreNames {
		if _, ok := subgenres[name]; ok {
			return true
		}
	}
	return false
}
