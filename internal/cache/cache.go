// Package cache holds a small expirable LRU for canonical book records.
// Catalog pages hammer the same handful of books; the TTL keeps staff edits
// from going stale for long. Per-instance, in-memory.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bibliotec-gateway/internal/domain"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bg_book_cache_hits_total",
		Help: "Total number of book cache hits.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bg_book_cache_misses_total",
		Help: "Total number of book cache misses.",
	})
)

type BookCache struct {
	lru *expirable.LRU[string, *domain.Book]
}

// New creates a book cache bounded to maxEntries records with the given
// per-entry TTL.
func New(maxEntries int, ttl time.Duration) *BookCache {
	return &BookCache{
		lru: expirable.NewLRU[string, *domain.Book](maxEntries, nil, ttl),
	}
}

func (c *BookCache) Get(bookID string) (*domain.Book, bool) {
	book, ok := c.lru.Get(bookID)
	if ok {
		cacheHitsTotal.Inc()
		return book, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

func (c *BookCache) Set(book *domain.Book) {
	c.lru.Add(book.ID, book)
}

// Invalidate drops a record after any write that touches it, including
// inventory adjustments made by the loan lifecycle.
func (c *BookCache) Invalidate(bookID string) {
	c.lru.Remove(bookID)
}
