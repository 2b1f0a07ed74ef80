// Package services defines the [Catalog] interface for the remote music
// catalog and implements it for the Apple Music API.
//
// # Catalog Interface
//
// The aggregation engine and session store consume the catalog strictly
// through [Catalog], which keeps the pipeline testable against mocks.
//
// # Apple Music Implementation
//
// [AppleMusicService] authenticates with two static bearer headers: the
// developer token (Authorization) and the per-user token
// (Music-User-Token). One client instance is bound to one credential
// pair; [CatalogFactory] builds a fresh client per sign-in.
//
// # Pagination
//
// Library listings paginate two ways and both are driven to exhaustion:
//   - cursor style: the response's next field carries the continuation path (library songs, playlists)
//   - offset style: the client advances a numeric offset while next is present (playlist tracks)
//
// # Retry & Rate Limiting
//
// Outbound requests pass through a [rate.Limiter]. Transient statuses
// (429, 502, 503, 504) retry the same request with a fixed delay up to a
// bounded attempt count, then fail with [shared.ErrRetryExhausted]; any
// other non-2xx status fails immediately with [shared.UpstreamError].
// Each request carries the configured deadline, so a paginating loop
// can never block its caller unboundedly.
package services
