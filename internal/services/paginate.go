package services

import (
	"context"
	"fmt"
	"strconv"
)

// page is the envelope shared by paginated catalog listings. Next holds
// a server-supplied continuation path, empty when the listing is
// exhausted.
type page[T any] struct {
	Data []T    `json:"data"`
	Next string `json:"next"`
}

// followCursor accumulates every page of a cursor-style listing,
// following the server-supplied next path until the response omits one.
//
// Each page fetch goes through the client's bounded-retry path, so a
// flaky page either succeeds or fails the whole pagination; the loop
// itself always terminates once a response carries no continuation.
func followCursor[T any](ctx context.Context, s *AppleMusicService, endpoint string) ([]T, error) {
	var items []T

	for {
		var p page[T]
		if err := s.call(ctx, "GET", endpoint, nil, &p); err != nil {
			return nil, err
		}

		items = append(items, p.Data...)

		if p.Next == "" {
			return items, nil
		}
		endpoint = p.Next + "&limit=" + strconv.Itoa(pageLimit)
	}
}

// followOffset accumulates every page of an offset-style listing,
// advancing a client-incremented offset while the server reports a
// continuation.
func followOffset[T any](ctx context.Context, s *AppleMusicService, endpoint string) ([]T, error) {
	var items []T
	offset := 0

	for {
		var p page[T]
		target := fmt.Sprintf("%s&offset=%d", endpoint, offset)
		if err := s.call(ctx, "GET", target, nil, &p); err != nil {
			return nil, err
		}

		items = append(items, p.Data...)

		if p.Next == "" {
			return items, nil
		}
		offset += pageLimit
	}
}

// dedupe returns ids with duplicates removed, preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
