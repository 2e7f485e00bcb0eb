// etl is the pipeline CLI: full scrapes, incremental refreshes, and the
// Markdown vault export. The server binary never scrapes; this does.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/app"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/config"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/etl"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/vault"
)

var (
	flagLimit   int
	flagSBLimit int
	flagHBLimit int
	flagFast    bool

	flagVaultDir  string
	flagBillLimit int
)

func main() {
	godotenv.Load(".env.local")

	root := &cobra.Command{
		Use:           "etl",
		Short:         "Statehouse Atlas scrape and export pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run the full scrape pipeline (members, bills, votes, analytics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(false)
		},
	}
	scrapeCmd.Flags().IntVar(&flagLimit, "limit", -1, "cap members per chamber (overrides MEMBER_LIMIT)")
	scrapeCmd.Flags().IntVar(&flagSBLimit, "sb-limit", -1, "cap Senate bills (overrides SB_LIMIT)")
	scrapeCmd.Flags().IntVar(&flagHBLimit, "hb-limit", -1, "cap House bills (overrides HB_LIMIT)")
	scrapeCmd.Flags().BoolVar(&flagFast, "fast", false, "shorten the politeness delay (dev scrapes only)")

	incrementalCmd := &cobra.Command{
		Use:   "incremental",
		Short: "Refresh only bills whose index last-action date changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(true)
		},
	}
	incrementalCmd.Flags().BoolVar(&flagFast, "fast", false, "shorten the politeness delay (dev scrapes only)")

	exportCmd := &cobra.Command{
		Use:   "export-vault",
		Short: "Render the cached graph into a cross-linked Markdown vault",
		RunE:  runExportVault,
	}
	exportCmd.Flags().StringVar(&flagVaultDir, "dir", "vault", "output directory")
	exportCmd.Flags().IntVar(&flagBillLimit, "limit", -1, "cap linked bills per member (overrides BILL_EXPORT_LIMIT)")

	root.AddCommand(scrapeCmd, incrementalCmd, exportCmd)

	if err := root.Execute(); err != nil {
		log.Fatalf("[etl] %v", err)
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.LoadFromEnv()
	// The CLI always works against the real cache; seed/load-only are
	// server boot modes.
	cfg.SeedMode = false
	cfg.LoadOnly = false
	if flagLimit >= 0 {
		cfg.MemberLimit = flagLimit
	}
	if flagSBLimit >= 0 {
		cfg.SBLimit = flagSBLimit
	}
	if flagHBLimit >= 0 {
		cfg.HBLimit = flagHBLimit
	}
	if flagFast {
		cfg.DevMode = true
	}
	return cfg, cfg.Validate()
}

func runPipeline(incremental bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Incremental = incremental

	store, err := cache.New(cfg.CacheDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, store)
	reports := etl.New(a).Run(ctx)

	for _, rep := range reports {
		if rep.Err != nil {
			return fmt.Errorf("step %s failed: %w", rep.Name, rep.Err)
		}
	}
	return nil
}

func runExportVault(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.LoadOnly = true
	if flagBillLimit >= 0 {
		cfg.BillExportLimit = flagBillLimit
	}

	store, err := cache.New(cfg.CacheDir)
	if err != nil {
		return err
	}
	if !store.HasMembers() {
		return fmt.Errorf("no cached members under %s; run 'etl scrape' first", cfg.CacheDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, store)
	for _, rep := range etl.New(a).Run(ctx) {
		if rep.Err != nil {
			return fmt.Errorf("step %s failed: %w", rep.Name, rep.Err)
		}
	}

	exp := &vault.Exporter{
		Dir:        flagVaultDir,
		BillLimit:  cfg.BillExportLimit,
		Graph:      a.Graph(),
		Scorecards: a.Scorecards(),
		Moneyball:  a.Moneyball(),
	}
	n, err := exp.Export()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "exported %d notes to %s\n", n, flagVaultDir)
	return nil
}
