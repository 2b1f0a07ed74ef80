// Package server provides HTTP routing, middleware, and the session API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Session API
//
// [SessionHandler] exposes the session store over JSON endpoints:
//
//	POST /api/login      → sign in, aggregate the library, return a session handle
//	POST /api/logout     → sign out, retire the handle
//	POST /api/playlist   → filter the session's songs and create a library playlist
//	GET  /api/recent     → recently played songs, recording genres into the session
//	GET  /api/recommend  → random chart song for a known genre
//	GET  /api/session    → session summary (song count, dictionary contents)
//	GET  /health         → liveness plus active session count
//
// Domain errors map to status codes in one place: caller mistakes
// (unknown handle, empty filter result, missing credential) are 400,
// unknown genres are 404, and upstream catalog failures are 502.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
