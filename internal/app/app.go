// Package app holds the explicit application state: the immutable graph and
// its analytics, built once at boot or at the end of a scrape. main
// constructs one Application and passes it by reference into the HTTP
// handlers and the ETL orchestrator; there is no global.
package app

import (
	"sync"
	"sync/atomic"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/civics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/config"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// Application is the process-wide state. The graph and analytics maps are
// replaced wholesale by Swap and read lock-free between swaps.
type Application struct {
	Config config.Config
	Store  *cache.Store

	mu         sync.RWMutex
	graph      *graph.Graph
	scorecards map[string]*graph.Scorecard
	moneyball  map[string]*graph.MoneyballProfile
	crosswalk  *civics.Crosswalk

	ready atomic.Bool
}

// New creates an Application with empty state; Swap installs real data.
func New(cfg config.Config, store *cache.Store) *Application {
	return &Application{Config: cfg, Store: store}
}

// Swap atomically installs a freshly built graph and analytics. The first
// swap with members present marks the server ready.
func (a *Application) Swap(g *graph.Graph, cards map[string]*graph.Scorecard, profiles map[string]*graph.MoneyballProfile, cw *civics.Crosswalk) {
	a.mu.Lock()
	a.graph = g
	a.scorecards = cards
	a.moneyball = profiles
	a.crosswalk = cw
	a.mu.Unlock()
	if g != nil && len(g.Members) > 0 {
		a.ready.Store(true)
	}
}

// Ready reports whether members are loaded and the API can serve data.
func (a *Application) Ready() bool { return a.ready.Load() }

// Graph returns the current graph snapshot (may be nil before first Swap).
func (a *Application) Graph() *graph.Graph {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.graph
}

// Scorecards returns the current scorecard map.
func (a *Application) Scorecards() map[string]*graph.Scorecard {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.scorecards
}

// Moneyball returns the current profile map.
func (a *Application) Moneyball() map[string]*graph.MoneyballProfile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.moneyball
}

// Crosswalk returns the ZIP crosswalk.
func (a *Application) Crosswalk() *civics.Crosswalk {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.crosswalk
}

// Selector builds an advocacy selector over the current snapshot.
func (a *Application) Selector() *civics.Selector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return &civics.Selector{
		Graph:     a.graph,
		Cards:     a.scorecards,
		Profiles:  a.moneyball,
		Crosswalk: a.crosswalk,
	}
}
