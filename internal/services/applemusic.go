// Apple Music implementation of [Catalog]
//
// Every request carries two bearer-style credentials: the developer
// token in Authorization and the user token in Music-User-Token.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://api.music.apple.com"
	defaultStorefront = "us"

	// pageLimit is the page size requested from paginated endpoints.
	pageLimit = 100

	// MaxBulkLookupIDs is the catalog's cap on IDs per bulk song lookup.
	MaxBulkLookupIDs = 300

	recentlyPlayedLimit = 10
	chartLimit          = 25
)

// Credentials holds the two opaque bearer tokens required on every
// outbound request. Supplied by the caller, never persisted.
type Credentials struct {
	Developer string // service-level token identifying the application
	User      string // per-user token scoped to one session
}

// Validate checks both tokens are present.
func (c Credentials) Validate() error {
	if c.Developer == "" {
		return fmt.Errorf("%w: developer token", shared.ErrMissingCredentials)
	}
	if c.User == "" {
		return fmt.Errorf("%w: user token", shared.ErrMissingCredentials)
	}
	return nil
}

// ClientOpts contains tuning for the Apple Music client.
type ClientOpts struct {
	BaseURL    string
	Storefront string
	HTTPClient *http.Client
	RateLimit  float64       // requests per second; 0 disables limiting
	MaxRetries int           // transient retries per request after the first attempt
	RetryDelay time.Duration // fixed backoff between transient retries
	Timeout    time.Duration // per-request deadline; 0 disables
}

// AppleMusicService implements [Catalog] against the Apple Music API.
//
// Transient failures (429, 502, 503, 504) are retried up to MaxRetries
// times with a fixed delay, then escalate as [shared.ErrRetryExhausted].
// Any other non-2xx status aborts immediately with [shared.UpstreamError].
type AppleMusicService struct {
	baseURL    string
	storefront string
	creds      Credentials
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// NewAppleMusicService creates a catalog client bound to one credential pair.
func NewAppleMusicService(creds Credentials, opts ClientOpts) *AppleMusicService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Storefront == "" {
		opts.Storefront = defaultStorefront
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &AppleMusicService{
		baseURL:    opts.BaseURL,
		storefront: opts.Storefront,
		creds:      creds,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		timeout:    opts.Timeout,
	}
}

// Name returns the service name.
func (s *AppleMusicService) Name() string {
	return "Apple Music"
}

// transientStatus reports whether an HTTP status is worth retrying.
func transientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// doRequest performs one authenticated HTTP request against the catalog API.
func (s *AppleMusicService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := s.creds.Validate(); err != nil {
		return err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.creds.Developer)
	req.Header.Set("Music-User-Token", s.creds.User)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if transientStatus(resp.StatusCode) {
		return fmt.Errorf("%w: status %d (%s)", shared.ErrTransient, resp.StatusCode, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &shared.UpstreamError{Status: resp.StatusCode, Endpoint: endpoint}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// call performs a request with bounded retry on transient failures.
//
// The same endpoint is retried with a fixed delay; after maxRetries
// consecutive transient failures it escalates to ErrRetryExhausted.
// Non-transient errors abort on the first occurrence.
func (s *AppleMusicService) call(ctx context.Context, method, endpoint string, body, result any) error {
	op := func() error {
		err := s.doRequest(ctx, method, endpoint, body, result)
		if err != nil && !errors.Is(err, shared.ErrTransient) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryDelay), uint64(s.maxRetries)),
		ctx,
	)

	if err := backoff.Retry(op, policy); err != nil {
		if errors.Is(err, shared.ErrTransient) {
			return fmt.Errorf("%w after %d attempts: %v", shared.ErrRetryExhausted, s.maxRetries+1, err)
		}
		return err
	}

	return nil
}

// RecentlyPlayed retrieves the user's most recently played catalog songs.
func (s *AppleMusicService) RecentlyPlayed(ctx context.Context) ([]CatalogSong, error) {
	var p page[CatalogSong]
	endpoint := fmt.Sprintf("/v1/me/recent/played/tracks?limit=%d", recentlyPlayedLimit)
	if err := s.call(ctx, http.MethodGet, endpoint, nil, &p); err != nil {
		return nil, err
	}
	return p.Data, nil
}

// LibrarySongIDs retrieves every catalog song ID in the user's library.
//
// The library endpoint paginates with a server-supplied next cursor.
// Library songs without playParams (pending uploads) are skipped.
func (s *AppleMusicService) LibrarySongIDs(ctx context.Context) ([]string, error) {
	endpoint := fmt.Sprintf("/v1/me/library/songs?limit=%d", pageLimit)
	songs, err := followCursor[LibrarySong](ctx, s, endpoint)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(songs))
	for _, song := range songs {
		if song.Attributes.PlayParams.CatalogID != "" {
			ids = append(ids, song.Attributes.PlayParams.CatalogID)
		}
	}
	return dedupe(ids), nil
}

// PlaylistIDs retrieves every playlist ID in the user's library.
func (s *AppleMusicService) PlaylistIDs(ctx context.Context) ([]string, error) {
	endpoint := fmt.Sprintf("/v1/me/library/playlists?limit=%d", pageLimit)
	playlists, err := followCursor[LibraryPlaylist](ctx, s, endpoint)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(playlists))
	for _, pl := range playlists {
		ids = append(ids, pl.ID)
	}
	return dedupe(ids), nil
}

// Playlists retrieves the user's library playlists.
func (s *AppleMusicService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	endpoint := fmt.Sprintf("/v1/me/library/playlists?limit=%d", pageLimit)
	playlists, err := followCursor[LibraryPlaylist](ctx, s, endpoint)
	if err != nil {
		return nil, err
	}

	out := make([]models.Playlist, 0, len(playlists))
	for _, pl := range playlists {
		out = append(out, models.Playlist{
			ID:          pl.ID,
			Name:        pl.Attributes.Name,
			Description: pl.Attributes.Description.Standard,
		})
	}
	return out, nil
}

// PlaylistSongIDs retrieves every catalog song ID in one playlist.
//
// The tracks endpoint paginates by client-incremented offset.
func (s *AppleMusicService) PlaylistSongIDs(ctx context.Context, playlistID string) ([]string, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("/v1/me/library/playlists/%s/tracks?limit=%d", url.PathEscape(playlistID), pageLimit)
	songs, err := followOffset[LibrarySong](ctx, s, endpoint)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(songs))
	for _, song := range songs {
		if song.Attributes.PlayParams.CatalogID != "" {
			ids = append(ids, song.Attributes.PlayParams.CatalogID)
		}
	}
	return dedupe(ids), nil
}

// Songs bulk-looks-up catalog songs by ID with the genre relationship included.
func (s *AppleMusicService) Songs(ctx context.Context, ids []string) ([]CatalogSong, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no song IDs provided", shared.ErrMissingArgument)
	}
	if len(ids) > MaxBulkLookupIDs {
		return nil, fmt.Errorf("%w: maximum %d song IDs allowed", shared.ErrInvalidInput, MaxBulkLookupIDs)
	}

	endpoint := fmt.Sprintf("/v1/catalog/%s/songs?include=genres&ids=%s", s.storefront, url.QueryEscape(strings.Join(ids, ",")))

	var p page[CatalogSong]
	if err := s.call(ctx, http.MethodGet, endpoint, nil, &p); err != nil {
		return nil, err
	}
	return p.Data, nil
}

// Song looks up a single catalog song with the genre relationship included.
func (s *AppleMusicService) Song(ctx context.Context, id string) (*CatalogSong, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: song ID", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("/v1/catalog/%s/songs/%s?include=genres", s.storefront, url.PathEscape(id))

	var p page[CatalogSong]
	if err := s.call(ctx, http.MethodGet, endpoint, nil, &p); err != nil {
		return nil, err
	}
	if len(p.Data) == 0 {
		return nil, fmt.Errorf("%w: song %s not found", shared.ErrAPIRequest, id)
	}
	return &p.Data[0], nil
}

// ChartSongs retrieves the chart song list for a catalog genre ID.
func (s *AppleMusicService) ChartSongs(ctx context.Context, genreID string) ([]CatalogSong, error) {
	if genreID == "" {
		return nil, fmt.Errorf("%w: genre ID", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("/v1/catalog/%s/charts?types=songs&genre=%s&limit=%d", s.storefront, url.QueryEscape(genreID), chartLimit)

	var chart chartResponse
	if err := s.call(ctx, http.MethodGet, endpoint, nil, &chart); err != nil {
		return nil, err
	}
	if len(chart.Results.Songs) == 0 {
		return nil, nil
	}
	return chart.Results.Songs[0].Data, nil
}

// CreatePlaylist creates a library playlist containing the given catalog songs.
func (s *AppleMusicService) CreatePlaylist(ctx context.Context, name, description string, songIDs []string) (*models.Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	if len(songIDs) == 0 {
		return nil, fmt.Errorf("%w: no songs provided", shared.ErrInvalidInput)
	}

	refs := make([]trackRef, 0, len(songIDs))
	for _, id := range songIDs {
		refs = append(refs, trackRef{ID: id, Type: "songs"})
	}

	body := createPlaylistRequest{
		Attributes:    createPlaylistAttributes{Name: name, Description: description},
		Relationships: createPlaylistRelationships{Tracks: trackRefData{Data: refs}},
	}

	var p page[LibraryPlaylist]
	if err := s.call(ctx, http.MethodPost, "/v1/me/library/playlists", body, &p); err != nil {
		return nil, err
	}
	if len(p.Data) == 0 {
		return nil, fmt.Errorf("%w: create playlist returned no descriptor", shared.ErrAPIRequest)
	}

	created := p.Data[0]
	return &models.Playlist{
		ID:          created.ID,
		Name:        created.Attributes.Name,
		Description: created.Attributes.Description.Standard,
		TrackCount:  len(songIDs),
	}, nil
}
