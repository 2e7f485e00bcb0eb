// Package etl orchestrates the pipeline in three modes: full scrape,
// incremental refresh, and load-only (server boot from cache). Every step
// runs inside an error boundary; a failed step logs and the previous cached
// value keeps serving.
package etl

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/analytics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/app"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/civics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/config"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/fetch"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/ilga"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/scrape"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/seating"
)

// Data file paths outside the cache; both have built-in fallbacks.
const (
	CrosswalkPath    = "data/zip_crosswalk.csv"
	SeatingChartPath = "data/senate_seating.csv"
)

// Runner wires the pipeline components together.
type Runner struct {
	Config config.Config
	Store  *cache.Store
	App    *app.Application
}

// New builds a Runner over the application's store and config.
func New(a *app.Application) *Runner {
	return &Runner{Config: a.Config, Store: a.Store, App: a}
}

// StepReport is one row of the run summary.
type StepReport struct {
	Name      string
	Duration  time.Duration
	Detail    string
	FromCache bool
	Err       error
}

func (r *Runner) newScraper() *scrape.Scraper {
	cfg := r.Config
	fetcher := fetch.New(fetch.Options{
		UserAgent: cfg.UserAgent,
		Delay:     time.Duration(cfg.PolitenessDelayMS()) * time.Millisecond,
	})
	site := ilga.Site{BaseURL: cfg.BaseURL, GAID: cfg.GAID, SessionID: cfg.SessionID}
	return scrape.New(fetcher, r.Store, site)
}

// Run executes the pipeline for the configured mode and finishes by
// rebuilding the in-memory graph. It never returns an error: failures are
// contained per step and reported in the summary.
func (r *Runner) Run(ctx context.Context) []StepReport {
	var reports []StepReport

	if r.Config.LoadOnly || r.Config.SeedMode {
		reports = append(reports, r.step("load", func() (string, error) {
			return r.rebuild(ctx)
		}))
		r.finish(reports)
		return reports
	}

	scraper := r.newScraper()
	incremental := r.Config.Incremental

	if incremental && r.Store.HasMembers() {
		reports = append(reports, StepReport{Name: "members", Detail: "cached", FromCache: true})
	} else {
		reports = append(reports, r.step("members", func() (string, error) {
			res, err := scraper.ScrapeMembers(ctx, scrape.MemberScrapeOptions{Limit: r.Config.MemberLimit})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d members, %d committees, %d skipped", res.Members, res.Committees, res.Skipped), nil
		}))
	}

	reports = append(reports, r.step("bills", func() (string, error) {
		res, err := scraper.ScrapeBills(ctx, scrape.BillScrapeOptions{
			Incremental: incremental,
			SBLimit:     r.Config.SBLimit,
			HBLimit:     r.Config.HBLimit,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d rows, %d fetched, %d updated, %d skipped, %d failed",
			res.IndexRows, res.DetailFetches, res.Updated, res.Skipped, res.Failed), nil
	}))

	reports = append(reports, r.step("votes", func() (string, error) {
		res, err := scraper.ScrapeVotes(ctx, scrape.VoteScrapeOptions{BillURLs: r.Config.VoteBillURLs})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d bills visited, %d vote events, %d slips, %d failed",
			res.BillsVisited, res.VoteEvents, res.WitnessSlips, res.Failed), nil
	}))

	reports = append(reports, r.step("rebuild", func() (string, error) {
		return r.rebuild(ctx)
	}))

	if n := scraper.Warnings(); n > 0 {
		log.Printf("[etl] %d parse warnings across the run", n)
	}
	counters := scraper.Fetcher.Counters.Snapshot()
	log.Printf("[etl] fetch totals: %d requests, %d retries, %d failures, %d bytes",
		counters.Requests, counters.Retries, counters.Failures, counters.BytesRead)

	r.finish(reports)
	return reports
}

// step runs one pipeline stage inside the error boundary.
func (r *Runner) step(name string, fn func() (string, error)) StepReport {
	log.Printf("[etl] step %s starting", name)
	start := time.Now()
	detail, err := fn()
	report := StepReport{Name: name, Duration: time.Since(start), Detail: detail, Err: err}
	if err != nil {
		// StaleCacheUsed: the previous cache keeps serving this step's data.
		log.Printf("[etl] step %s failed after %s: %v (serving previous cached data)",
			name, report.Duration.Round(time.Millisecond), err)
		return report
	}
	log.Printf("[etl] step %s done in %s: %s", name, report.Duration.Round(time.Millisecond), detail)
	return report
}

func (r *Runner) finish(reports []StepReport) {
	printSummary(reports)
	if err := appendTimings(r.Store.Dir(), reports); err != nil {
		log.Printf("[etl] timing log: %v", err)
	}
}

// rebuild hydrates the graph from cache (or the mock directory in seed
// mode), applies seating, refreshes analytics if stale, and swaps the new
// snapshot into the application.
func (r *Runner) rebuild(ctx context.Context) (string, error) {
	st := r.Store
	if r.Config.SeedMode {
		mock, err := cache.New(r.Config.MockDir)
		if err != nil {
			return "", fmt.Errorf("seed mode: %w", err)
		}
		if !mock.HasMembers() {
			return "", fmt.Errorf("seed mode: no members.json under %s", r.Config.MockDir)
		}
		st = mock
	}

	members, err := st.LoadMembers()
	if err != nil {
		return "", err
	}
	bills, err := st.LoadBills()
	if err != nil {
		return "", err
	}
	committees, err := st.LoadCommittees()
	if err != nil {
		return "", err
	}
	rosters, err := st.LoadRosters()
	if err != nil {
		return "", err
	}
	committeeBills, err := st.LoadCommitteeBills()
	if err != nil {
		return "", err
	}
	events, err := st.LoadVoteEvents()
	if err != nil {
		return "", err
	}
	slips, err := st.LoadWitnessSlips()
	if err != nil {
		return "", err
	}

	g, err := graph.Build(graph.BuildInput{
		Members:        members,
		Bills:          bills,
		Committees:     committees,
		Rosters:        rosters,
		CommitteeBills: committeeBills,
		VoteEvents:     events,
		Slips:          slips,
		DeadAfter:      time.Duration(r.Config.DeadBillMonths) * 30 * 24 * time.Hour,
	})
	if err != nil {
		return "", err
	}

	seating.Apply(g, loadSeatingChart())

	cards, profiles, recomputed, err := r.loadOrComputeAnalytics(st, g)
	if err != nil {
		return "", err
	}

	cw, err := civics.LoadCrosswalk(CrosswalkPath)
	if err != nil {
		return "", err
	}

	r.App.Swap(g, cards, profiles, cw)

	analyticsNote := "analytics cached"
	if recomputed {
		analyticsNote = "analytics recomputed"
	}
	return fmt.Sprintf("%d members, %d bills, %d committees, %d vote events, %d slips, %s",
		len(g.Members), len(g.Bills), len(g.Committees), len(g.VoteEvents), len(g.Slips), analyticsNote), nil
}

// loadOrComputeAnalytics serves cached scorecards and Moneyball profiles
// when they are newer than the member data, recomputing and persisting
// otherwise. Seed mode always computes and never writes.
func (r *Runner) loadOrComputeAnalytics(st *cache.Store, g *graph.Graph) (map[string]*graph.Scorecard, map[string]*graph.MoneyballProfile, bool, error) {
	if !r.Config.SeedMode && st.IsAnalyticsFresh() {
		cards, errA := st.LoadScorecards()
		profiles, errB := st.LoadMoneyball()
		if errA == nil && errB == nil && len(cards) > 0 {
			return cards, profiles, false, nil
		}
	}

	cards := analytics.ComputeScorecards(g)
	profiles := analytics.ComputeMoneyball(g, cards)

	if !r.Config.SeedMode {
		if err := st.SaveScorecards(cards); err != nil {
			return nil, nil, true, err
		}
		if err := st.SaveMoneyball(profiles); err != nil {
			return nil, nil, true, err
		}
	}
	return cards, profiles, true, nil
}

// loadSeatingChart reads the Senate chart CSV, falling back to the built-in
// chart when the file is absent or malformed.
func loadSeatingChart() seating.Chart {
	f, err := os.Open(SeatingChartPath)
	if err != nil {
		return seating.DefaultChart()
	}
	defer f.Close()
	chart, err := seating.ParseChartCSV(f)
	if err != nil {
		log.Printf("[etl] seating chart %s: %v (using built-in chart)", SeatingChartPath, err)
		return seating.DefaultChart()
	}
	return chart
}
