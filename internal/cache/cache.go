// Package cache keeps rendered GET responses per path so that listing views
// are served without hitting the database until a write invalidates them.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrMiss = errors.New("cache miss")

// Store holds rendered bodies grouped by path. A variant distinguishes the
// renderings of one path (query string), and Purge drops all of them at once.
type Store interface {
	Get(ctx context.Context, path, variant string) ([]byte, error)
	Set(ctx context.Context, path, variant string, body []byte, ttl time.Duration) error
	Purge(ctx context.Context, path string) error
}

// NormalizePath trims the trailing slash so "/a/" and "/a" share entries.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
