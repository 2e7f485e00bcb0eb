// seed writes the deterministic mock legislature into MOCK_DIR so the
// server can run with SEED_MODE and no network access.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/config"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/seeds"
)

func main() {
	godotenv.Load(".env.local")
	cfg := config.LoadFromEnv()

	if err := seeds.SeedAll(cfg.MockDir); err != nil {
		log.Fatalf("[seed] %v", err)
	}
	log.Printf("[seed] mock dataset written to %s", cfg.MockDir)
}
