package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/services"
	"github.com/ferrovax/amx/internal/shared"
	"github.com/ferrovax/amx/internal/tasks"
)

// Store is the mutually-exclusive registry mapping user credentials to
// sessions.
//
// One store-wide mutex guards every mutation, including the whole
// read-aggregate-install sequence of CreateSession: two concurrent
// sign-ins for the same credential can never interleave into two
// handles or a lost update. Sign-ins for different credentials also
// serialize under this lock; that bounds throughput and is a deliberate
// simplicity tradeoff (per-credential locks would be the scaling path
// without changing this API).
type Store struct {
	mu       sync.Mutex
	factory  services.CatalogFactory
	engine   tasks.EngineOpts
	logger   *log.Logger
	sessions map[string]*Session // credential -> session
	byHandle map[int]string      // handle -> credential
	next     int                 // monotonic; handles are never reused
}

// StoreOpts contains dependencies for a Store.
type StoreOpts struct {
	Factory services.CatalogFactory
	Engine  tasks.EngineOpts
	Logger  *log.Logger
}

// NewStore creates an empty session store.
func NewStore(opts StoreOpts) *Store {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Store{
		factory:  opts.Factory,
		engine:   opts.Engine,
		logger:   opts.Logger,
		sessions: make(map[string]*Session),
		byHandle: make(map[int]string),
	}
}

// newEngine builds an aggregation engine bound to one user credential.
func (s *Store) newEngine(credential string) *tasks.LibraryEngine {
	return tasks.NewLibraryEngine(s.factory(credential), s.engine)
}

// CreateSession signs a credential in: aggregates the user's full song
// set and installs (or replaces) the session for that credential.
//
// Repeated sign-ins with the same credential keep the same handle. On
// failure no session state changes; a previous session for the
// credential survives untouched.
func (s *Store) CreateSession(ctx context.Context, credential string, progress chan<- tasks.ProgressUpdate) (*Session, error) {
	if credential == "" {
		return nil, fmt.Errorf("%w: user credential", shared.ErrMissingCredentials)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.newEngine(credential).Aggregate(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	session := &Session{
		Songs:     result.Songs,
		Genres:    result.Genres,
		Subgenres: result.Subgenres,
	}

	if existing, ok := s.sessions[credential]; ok {
		session.Handle = existing.Handle
		s.logger.Info("replacing session", "handle", session.Handle, "songs", len(session.Songs))
	} else {
		session.Handle = s.next
		s.next++
		s.byHandle[session.Handle] = credential
		s.logger.Info("created session", "handle", session.Handle, "songs", len(session.Songs))
	}

	s.sessions[credential] = session
	return session, nil
}

// PushPlaylist filters the handle's session songs and creates a remote
// library playlist from the result.
//
// The filter step is pure and session-local; the remote call runs inside
// the store guard so a concurrent logout or replace cannot invalidate
// the credential mid-push. A filter that matches nothing fails with
// [shared.ErrEmptyPlaylist] before any remote call.
func (s *Store) PushPlaylist(ctx context.Context, handle int, name, description string, spec models.FilterSpec) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, ok := s.byHandle[handle]
	if !ok {
		return nil, fmt.Errorf("%w: handle %d", shared.ErrUserNotInitialized, handle)
	}
	session := s.sessions[credential]

	matched := session.Filter(spec)
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: playlist %q", shared.ErrEmptyPlaylist, name)
	}

	ids := make([]string, 0, len(matched))
	for _, song := range matched {
		ids = append(ids, song.ID)
	}

	playlist, err := s.factory(credential).CreatePlaylist(ctx, name, description, ids)
	if err != nil {
		return nil, err
	}

	s.logger.Info("pushed playlist", "handle", handle, "playlist", playlist.ID, "songs", len(ids))
	return playlist, nil
}

// RecentlyPlayed fetches the user's recently played songs and records
// their genres into the session's dictionaries.
//
// The songs are returned for display but never join the session's
// aggregated song set.
func (s *Store) RecentlyPlayed(ctx context.Context, handle int) ([]services.CatalogSong, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, ok := s.byHandle[handle]
	if !ok {
		return nil, fmt.Errorf("%w: handle %d", shared.ErrUserNotInitialized, handle)
	}
	session := s.sessions[credential]

	return s.newEngine(credential).RecentlyPlayed(ctx, nil, session.Genres, session.Subgenres)
}

// Recommend returns a random chart song for a genre name known to the
// handle's session dictionary.
func (s *Store) Recommend(ctx context.Context, handle int, genreName string) (*services.CatalogSong, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, ok := s.byHandle[handle]
	if !ok {
		return nil, fmt.Errorf("%w: handle %d", shared.ErrUserNotInitialized, handle)
	}
	session := s.sessions[credential]

	genreID, err := session.Genres.Lookup(genreName)
	if err != nil {
		return nil, err
	}

	return s.newEngine(credential).Recommend(ctx, genreID)
}

// Get returns the session for a handle.
func (s *Store) Get(handle int) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, ok := s.byHandle[handle]
	if !ok {
		return nil, false
	}
	return s.sessions[credential], true
}

// EndSession signs a credential out, removing its session. The retired
// handle is never reassigned. Reports whether a session existed.
func (s *Store) EndSession(credential string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[credential]
	if !ok {
		return false
	}

	delete(s.byHandle, session.Handle)
	delete(s.sessions, credential)
	s.logger.Info("ended session", "handle", session.Handle)
	return true
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
