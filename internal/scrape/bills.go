package scrape

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/ilga"
)

// billDocTypes are the document listings walked by the bill scrape.
// Substantive types honor the per-chamber caps; resolutions are small
// enough to always walk in full.
var billDocTypes = []string{"SB", "HB", "SR", "HR", "SJR", "HJR"}

// BillScrapeOptions controls one bill scrape run.
type BillScrapeOptions struct {
	// Incremental fetches a detail page only when the bill is uncached or
	// its index last-action date changed.
	Incremental bool
	// SBLimit / HBLimit cap substantive bills per chamber. Zero = unlimited.
	SBLimit int
	HBLimit int
}

// BillScrapeResult reports what one run did.
type BillScrapeResult struct {
	IndexRows     int
	DetailFetches int
	Updated       int
	Skipped       int
	Failed        int
}

// ScrapeBills walks every bill index, discovering pages by following "next"
// links, and fetches detail pages for new or changed bills. State is
// checkpointed to disk every 50 bills so an interrupted run resumes cleanly.
func (s *Scraper) ScrapeBills(ctx context.Context, opts BillScrapeOptions) (*BillScrapeResult, error) {
	bills, err := s.Store.LoadBills()
	if err != nil {
		return nil, err
	}
	members, err := s.Store.LoadMembers()
	if err != nil {
		return nil, err
	}

	result := &BillScrapeResult{}
	var toFetch []ilga.IndexRow

	for _, docType := range billDocTypes {
		rows, err := s.walkIndex(ctx, docType)
		if err != nil {
			return nil, fmt.Errorf("bill index %s: %w", docType, err)
		}
		if limit := limitFor(docType, opts); limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}
		result.IndexRows += len(rows)

		for _, row := range rows {
			if opts.Incremental && !needsFetch(bills, row) {
				result.Skipped++
				continue
			}
			if !opts.Incremental {
				if _, cached := bills[row.LegID]; cached && !changed(bills, row) {
					result.Skipped++
					continue
				}
			}
			toFetch = append(toFetch, row)
		}
	}
	log.Printf("[scrape] bill index: %d rows, %d detail pages to fetch", result.IndexRows, len(toFetch))

	if err := s.fetchBillDetails(ctx, toFetch, bills, members, result); err != nil {
		return nil, err
	}

	// Final flush: bills, rebuilt member references, metadata.
	rebuildMemberBillRefs(members, bills)
	if err := s.Store.SaveBills(bills); err != nil {
		return nil, err
	}
	if err := s.Store.SaveMembers(members); err != nil {
		return nil, err
	}
	md, _ := s.Store.LoadMetadata()
	md.LastBillScrapeAt = time.Now()
	md.BillIndexCount = result.IndexRows
	counters := s.Fetcher.Counters.Snapshot()
	if md.FetchCounters == nil {
		md.FetchCounters = map[string]int64{}
	}
	md.FetchCounters["requests"] = counters.Requests
	md.FetchCounters["retries"] = counters.Retries
	md.FetchCounters["failures"] = counters.Failures
	if err := s.Store.SaveMetadata(md); err != nil {
		return nil, err
	}
	return result, nil
}

// walkIndex follows next links from the first index page for one doc type.
func (s *Scraper) walkIndex(ctx context.Context, docType string) ([]ilga.IndexRow, error) {
	var rows []ilga.IndexRow
	url := s.Site.BillIndexURL(docType)
	visited := map[string]bool{}

	for url != "" && !visited[url] {
		visited[url] = true
		res, err := s.Fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		page, ws, err := ilga.ParseBillIndexPage(res.Body, s.Site)
		s.noteWarnings(ws)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Rows...)
		url = page.NextURL
	}
	return rows, nil
}

// needsFetch is the incremental rule: fetch when uncached or when the index
// reports a different last-action date than the cache holds.
func needsFetch(bills map[string]*graph.Bill, row ilga.IndexRow) bool {
	cached, ok := bills[row.LegID]
	if !ok {
		return true
	}
	return lastActionDiffers(cached, row)
}

func changed(bills map[string]*graph.Bill, row ilga.IndexRow) bool {
	cached, ok := bills[row.LegID]
	return ok && lastActionDiffers(cached, row)
}

func lastActionDiffers(cached *graph.Bill, row ilga.IndexRow) bool {
	rowDate, ok := ilga.ParseIndexDate(row.LastActionDate)
	if !ok {
		// No date in the index; refetch to be safe.
		return true
	}
	if cached.LastActionDate == nil {
		return true
	}
	return !cached.LastActionDate.Equal(rowDate)
}

// fetchBillDetails runs the worker pool over detail pages. Workers fetch and
// parse; the collector goroutine is the only writer of the bills map and
// checkpoints every 50 accepted bills.
func (s *Scraper) fetchBillDetails(ctx context.Context, rows []ilga.IndexRow, bills map[string]*graph.Bill, members []*graph.Member, result *BillScrapeResult) error {
	if len(rows) == 0 {
		return nil
	}
	matchers := map[graph.Chamber]*graph.NameMatcher{
		graph.ChamberHouse:  graph.NewNameMatcher(chamberOf(members, graph.ChamberHouse)),
		graph.ChamberSenate: graph.NewNameMatcher(chamberOf(members, graph.ChamberSenate)),
	}

	type outcome struct {
		bill   *graph.Bill
		failed bool
	}
	results := make(chan outcome)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)

	// The collector stops reading if a checkpoint write fails; a worker's
	// send must not outlive it.
	send := func(out outcome) {
		select {
		case results <- out:
		case <-gctx.Done():
		}
	}
	go func() {
		for _, row := range rows {
			row := row
			g.Go(func() error {
				res, err := s.Fetcher.Fetch(gctx, row.StatusURL)
				if err != nil {
					// Keep any previously cached value for this bill.
					log.Printf("[scrape] bill %s detail fetch failed: %v", row.BillNumber, err)
					send(outcome{failed: true})
					return nil
				}
				detail, ws, err := ilga.ParseBillDetail(res.Body, row.StatusURL)
				s.noteWarnings(ws)
				if err != nil {
					log.Printf("[scrape] bill %s detail unparsed: %v", row.BillNumber, err)
					send(outcome{failed: true})
					return nil
				}
				bill := &detail.Bill
				bill.SponsorIDs = resolveNames(matchers[bill.Chamber], detail.SponsorNames)
				crossMatcher := matchers[graph.ChamberHouse]
				if bill.Chamber == graph.ChamberHouse {
					crossMatcher = matchers[graph.ChamberSenate]
				}
				bill.HouseSponsorIDs = resolveNames(crossMatcher, detail.CrossChamberSponsorNames)
				status, depth := graph.DeriveStatus(bill)
				bill.Status = status
				bill.PipelineDepth = depth
				send(outcome{bill: bill})
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	sinceCheckpoint := 0
	for out := range results {
		if out.failed {
			result.Failed++
			continue
		}
		bills[out.bill.LegID] = out.bill
		result.DetailFetches++
		result.Updated++
		sinceCheckpoint++
		if sinceCheckpoint >= checkpointEvery {
			sinceCheckpoint = 0
			if err := s.Store.SaveBills(bills); err != nil {
				return fmt.Errorf("checkpoint: %w", err)
			}
			log.Printf("[scrape] checkpoint: %d bills cached", len(bills))
		}
	}
	return nil
}

// resolveNames maps sponsor display names to member IDs, dropping names that
// do not resolve (former members, typos).
func resolveNames(m *graph.NameMatcher, names []string) []string {
	var ids []string
	for _, n := range names {
		if mem, ok := m.Resolve(n); ok {
			ids = append(ids, mem.MemberID)
		}
	}
	return ids
}

// rebuildMemberBillRefs recomputes every member's bill_ids and
// primary_bill_ids from the bills map, keeping the cache normalized: bills
// exist once, members reference them by leg_id.
func rebuildMemberBillRefs(members []*graph.Member, bills map[string]*graph.Bill) {
	all := map[string][]string{}
	primary := map[string][]string{}

	legIDs := make([]string, 0, len(bills))
	for id := range bills {
		legIDs = append(legIDs, id)
	}
	sort.Strings(legIDs)

	for _, legID := range legIDs {
		b := bills[legID]
		for i, memberID := range b.SponsorIDs {
			all[memberID] = append(all[memberID], legID)
			if i == 0 {
				primary[memberID] = append(primary[memberID], legID)
			}
		}
		for _, memberID := range b.HouseSponsorIDs {
			all[memberID] = append(all[memberID], legID)
		}
	}
	for _, m := range members {
		m.BillIDs = all[m.MemberID]
		m.PrimaryBillIDs = primary[m.MemberID]
	}
}

func limitFor(docType string, opts BillScrapeOptions) int {
	switch docType {
	case "SB":
		return opts.SBLimit
	case "HB":
		return opts.HBLimit
	}
	return 0
}
