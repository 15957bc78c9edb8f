package mw

import (
	"bytes"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// KeyFunc derives the cache key of a request. An empty key bypasses the cache.
type KeyFunc func(c *gin.Context) string

// ResponseCache keeps successful GET responses in memory under keys the
// caller controls, so writes can purge exactly the entries they invalidate.
// A response is only stored if no purge happened while it was being built.
type ResponseCache struct {
	store      *cache.Cache
	ttl        time.Duration
	generation atomic.Uint64
}

// NewResponseCache creates a cache whose entries live for ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Middleware serves cached responses for the key returned by keyFn.
func (rc *ResponseCache) Middleware(keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}

		if resp, found := rc.store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		gen := rc.generation.Load()
		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only cache successful responses
		if blw.Status() >= 200 && blw.Status() < 300 && rc.generation.Load() == gen {
			rc.store.Set(key, cachedResponse{
				status:  blw.Status(),
				headers: blw.Header().Clone(),
				body:    blw.body.Bytes(),
			}, rc.ttl)
		}
	}
}

// Purge drops one entry.
func (rc *ResponseCache) Purge(key string) {
	rc.generation.Add(1)
	rc.store.Delete(key)
}

// PurgePrefix drops every entry whose key starts with prefix.
func (rc *ResponseCache) PurgePrefix(prefix string) {
	rc.generation.Add(1)
	for key := range rc.store.Items() {
		if strings.HasPrefix(key, prefix) {
			rc.store.Delete(key)
		}
	}
}
