// rewarm forces an analytics recompute from the current cache, ignoring
// freshness. Run it after changing scoring weights or hand-editing cache
// files.
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/analytics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/config"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

func main() {
	godotenv.Load(".env.local")
	cfg := config.LoadFromEnv()

	store, err := cache.New(cfg.CacheDir)
	if err != nil {
		log.Fatalf("[rewarm] cache: %v", err)
	}
	if !store.HasMembers() {
		log.Fatalf("[rewarm] no cached members under %s; run 'etl scrape' first", cfg.CacheDir)
	}

	members, err := store.LoadMembers()
	if err != nil {
		log.Fatalf("[rewarm] %v", err)
	}
	bills, err := store.LoadBills()
	if err != nil {
		log.Fatalf("[rewarm] %v", err)
	}
	events, err := store.LoadVoteEvents()
	if err != nil {
		log.Fatalf("[rewarm] %v", err)
	}
	slips, err := store.LoadWitnessSlips()
	if err != nil {
		log.Fatalf("[rewarm] %v", err)
	}

	g, err := graph.Build(graph.BuildInput{
		Members:    members,
		Bills:      bills,
		VoteEvents: events,
		Slips:      slips,
	})
	if err != nil {
		log.Fatalf("[rewarm] graph: %v", err)
	}

	cards := analytics.ComputeScorecards(g)
	profiles := analytics.ComputeMoneyball(g, cards)
	if err := store.SaveScorecards(cards); err != nil {
		log.Fatalf("[rewarm] %v", err)
	}
	if err := store.SaveMoneyball(profiles); err != nil {
		log.Fatalf("[rewarm] %v", err)
	}

	fmt.Printf("Recomputed analytics for %d members over %d bills\n", len(cards), len(bills))
	for _, ch := range []graph.Chamber{graph.ChamberSenate, graph.ChamberHouse} {
		if m, p := analytics.MVP(g, profiles, ch); m != nil {
			fmt.Printf("%s MVP: %s (%.1f)\n", ch, m.Name, p.MoneyballScore)
		}
	}
}
