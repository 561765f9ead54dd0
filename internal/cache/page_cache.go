package cache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const HeaderCache = "X-Cache"

// PageCache serves JSON GET responses from a Store and invalidates them by path.
// Store failures are logged and the request falls through to the handler.
//
// Each path carries a generation that Invalidate bumps. A rendering is only
// stored if no invalidation happened while it was being produced.
type PageCache struct {
	store Store
	ttl   time.Duration
	log   zerolog.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

func NewPageCache(store Store, ttl time.Duration, log zerolog.Logger) *PageCache {
	return &PageCache{
		store:       store,
		ttl:         ttl,
		log:         log,
		generations: make(map[string]uint64),
	}
}

func (p *PageCache) generation(path string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generations[path]
}

// Invalidate drops every cached rendering of path.
func (p *PageCache) Invalidate(ctx context.Context, path string) error {
	path = NormalizePath(path)

	p.mu.Lock()
	p.generations[path]++
	p.mu.Unlock()

	if err := p.store.Purge(ctx, path); err != nil {
		return err
	}
	p.log.Debug().Str("path", path).Msg("page cache invalidated")
	return nil
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func (p *PageCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		path := NormalizePath(c.Request.URL.Path)
		variant := c.Request.URL.RawQuery

		body, err := p.store.Get(ctx, path, variant)
		switch {
		case err == nil:
			c.Header(HeaderCache, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		case !errors.Is(err, ErrMiss):
			p.log.Warn().Err(err).Str("path", path).Msg("page cache read failed")
		}

		gen := p.generation(path)
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header(HeaderCache, "MISS")

		c.Next()

		if rec.Status() != http.StatusOK || rec.body.Len() == 0 {
			return
		}
		p.storeIfCurrent(ctx, path, variant, gen, rec.body.Bytes())
	}
}

// storeIfCurrent writes body unless path was invalidated after gen was read.
// The lock spans the check and the write, so no Invalidate lands between them.
func (p *PageCache) storeIfCurrent(ctx context.Context, path, variant string, gen uint64, body []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generations[path] != gen {
		p.log.Debug().Str("path", path).Msg("page cache skipped stale rendering")
		return
	}
	if err := p.store.Set(ctx, path, variant, body, p.ttl); err != nil {
		p.log.Warn().Err(err).Str("path", path).Msg("page cache write failed")
	}
}
