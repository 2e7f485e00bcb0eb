package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/advocacyui"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/app"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/config"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/etl"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/gql"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/middleware"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	store, err := cache.New(cfg.CacheDir)
	if err != nil {
		log.Fatalf("[main] cache: %v", err)
	}

	a := app.New(cfg, store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Boot is load-only regardless of mode flags: the server never scrapes
	// on startup. Run cmd/etl for that.
	runner := etl.New(a)
	if !runner.Config.SeedMode {
		runner.Config.LoadOnly = true
	}
	runner.Run(ctx)
	if !a.Ready() {
		log.Println("[main] no cached data yet; serving 503s until cmd/etl populates the cache")
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.APIKey(cfg.APIKey))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "Statehouse Atlas is up!")
	})
	r.Get("/health", healthHandler(a))

	gql.RegisterRoutes(r, a)
	advocacyui.RegisterRoutes(r, a)

	srv := &http.Server{Addr: "0.0.0.0:" + cfg.Port, Handler: r}
	startServer(ctx, srv, cfg)
}

// healthHandler reports process liveness plus data readiness. ready flips
// to true on the first swap that installs members and stays true.
func healthHandler(a *app.Application) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !a.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintln(w, `{"status":"loading","ready":false}`)
			return
		}
		fmt.Fprintln(w, `{"status":"ok","ready":true}`)
	}
}

func startServer(ctx context.Context, srv *http.Server, cfg config.Config) {
	go func() {
		<-ctx.Done()
		log.Println("[main] shutting down")
		srv.Shutdown(context.Background())
	}()

	log.Printf("[main] server listening on port :%s (profile=%s)", cfg.Port, cfg.Profile)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[main] server: %v", err)
	}
}
