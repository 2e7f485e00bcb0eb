// Package scrape orchestrates the fetch -> parse -> persist pipelines. A
// bounded worker pool fetches and parses; a single collector owns every
// cache write so the on-disk state never interleaves.
package scrape

import (
	"log"
	"sync/atomic"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/fetch"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/ilga"
)

// DefaultWorkers is the detail-page fetch concurrency.
const DefaultWorkers = 10

// checkpointEvery is how many new or updated bills accumulate before the
// collector flushes state to disk mid-scrape.
const checkpointEvery = 50

// Scraper bundles the fetcher, the cache store and the upstream site
// identity shared by the three pipelines.
type Scraper struct {
	Fetcher *fetch.Fetcher
	Store   *cache.Store
	Site    ilga.Site
	Workers int

	warnings atomic.Int64
}

// New builds a Scraper with the default worker pool size.
func New(fetcher *fetch.Fetcher, store *cache.Store, site ilga.Site) *Scraper {
	return &Scraper{Fetcher: fetcher, Store: store, Site: site, Workers: DefaultWorkers}
}

// Warnings returns the number of parse warnings seen across pipelines.
func (s *Scraper) Warnings() int64 { return s.warnings.Load() }

// noteWarnings logs and counts parse warnings; they never abort a scrape.
func (s *Scraper) noteWarnings(ws []ilga.Warning) {
	for _, w := range ws {
		log.Printf("[scrape] warning %s", w)
	}
	s.warnings.Add(int64(len(ws)))
}
