// check_zip probes the ZIP->district crosswalk and, when a cache exists,
// prints the matched legislators. Useful for verifying a new crosswalk CSV.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/civics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/config"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/etl"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

func main() {
	godotenv.Load(".env.local")

	if len(os.Args) < 2 {
		log.Fatal("usage: check_zip <zip> [zip...]")
	}

	cw, err := civics.LoadCrosswalk(etl.CrosswalkPath)
	if err != nil {
		log.Fatalf("crosswalk: %v", err)
	}
	fmt.Printf("Crosswalk loaded: %d ZIP codes\n\n", cw.Len())

	g := loadGraph()

	for _, zip := range os.Args[1:] {
		districts, err := cw.Lookup(zip)
		if err != nil {
			fmt.Printf("%s: %v\n", zip, err)
			continue
		}
		fmt.Printf("%s: Senate district %d, House district %d\n", zip, districts.Senate, districts.House)
		if g == nil {
			continue
		}
		if senator, ok := g.MemberDistrict(graph.ChamberSenate, districts.Senate); ok {
			fmt.Printf("  Senator:        %s (%s)\n", senator.Name, senator.Party)
		} else {
			fmt.Println("  Senator:        not in cache")
		}
		if rep, ok := g.MemberDistrict(graph.ChamberHouse, districts.House); ok {
			fmt.Printf("  Representative: %s (%s)\n", rep.Name, rep.Party)
		} else {
			fmt.Println("  Representative: not in cache")
		}
	}
}

// loadGraph builds a member-only graph from the cache; nil when no cache.
func loadGraph() *graph.Graph {
	cfg := config.LoadFromEnv()
	store, err := cache.New(cfg.CacheDir)
	if err != nil || !store.HasMembers() {
		return nil
	}
	members, err := store.LoadMembers()
	if err != nil {
		return nil
	}
	g, err := graph.Build(graph.BuildInput{Members: members, Now: time.Now()})
	if err != nil {
		return nil
	}
	return g
}
