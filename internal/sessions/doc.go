// Package sessions implements the multi-tenant session registry.
//
// A [Session] is one signed-in user's aggregated library: the
// deduplicated song set plus the genre and subgenre dictionaries that
// aggregation accumulated. The [Store] maps opaque user credentials to
// sessions behind a single store-wide mutex.
//
// # State machine per credential
//
//	Absent -> Active          CreateSession (new handle assigned)
//	Active -> Active          CreateSession (same handle; songs/dictionaries replaced)
//	Active -> Absent          EndSession (handle retired, never reassigned)
//
// CreateSession runs its entire lookup-aggregate-install sequence inside
// the guard, so concurrent sign-ins with one credential yield exactly
// one handle. A failed sign-in leaves any previous session untouched.
// PushPlaylist executes its remote call inside the same guard so a
// logout cannot invalidate the credential mid-push; its local filter
// step is pure.
package sessions
