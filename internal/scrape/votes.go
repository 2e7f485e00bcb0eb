package scrape

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/ilga"
)

// ScanStrategy selects how the vote/slip scraper walks the bill list.
type ScanStrategy string

const (
	// ScanLinear takes the next batch of unvisited bills in order.
	ScanLinear ScanStrategy = "linear"
	// ScanSampling takes every Nth bill first, then gap-fills.
	ScanSampling ScanStrategy = "sampling"
)

// VoteScrapeOptions controls one vote+witness-slip run.
type VoteScrapeOptions struct {
	// BillURLs overrides bill selection with an explicit status URL list
	// (the VOTE_BILL_URLS setting).
	BillURLs []string
	// Strategy and BatchSize drive resumable scans over the cached bills
	// when no explicit URL list is given.
	Strategy  ScanStrategy
	BatchSize int
	Stride    int
}

// VoteScrapeResult reports one run.
type VoteScrapeResult struct {
	BillsVisited int
	VoteEvents   int
	WitnessSlips int
	Failed       int
}

// ScrapeVotes walks bill status pages, follows their roll-call and
// witness-slip links, and merges the extracted records into the cache.
// Resume state (strategy, cursor) lives in scrape_metadata.json, so an
// interrupted run picks up where it stopped.
func (s *Scraper) ScrapeVotes(ctx context.Context, opts VoteScrapeOptions) (*VoteScrapeResult, error) {
	if opts.BatchSize == 0 {
		opts.BatchSize = 25
	}
	if opts.Stride == 0 {
		opts.Stride = 10
	}
	if opts.Strategy == "" {
		opts.Strategy = ScanLinear
	}

	events, err := s.Store.LoadVoteEvents()
	if err != nil {
		return nil, err
	}
	slips, err := s.Store.LoadWitnessSlips()
	if err != nil {
		return nil, err
	}
	md, err := s.Store.LoadMetadata()
	if err != nil {
		return nil, err
	}

	targets, nextCursor, err := s.selectTargets(opts, md)
	if err != nil {
		return nil, err
	}

	result := &VoteScrapeResult{}
	eventKeys := voteEventKeys(events)
	slipKeys := map[string]bool{}
	for _, sl := range slips {
		slipKeys[sl.Key()] = true
	}

	for _, t := range targets {
		if ctx.Err() != nil {
			break
		}
		result.BillsVisited++
		res, err := s.Fetcher.Fetch(ctx, t.statusURL)
		if err != nil {
			log.Printf("[scrape] votes: bill page %s failed: %v", t.billNumber, err)
			result.Failed++
			continue
		}
		links, err := ilga.ParseBillPageLinks(res.Body, s.Site)
		if err != nil {
			log.Printf("[scrape] votes: bill page %s unparsed: %v", t.billNumber, err)
			result.Failed++
			continue
		}

		for _, voteURL := range links.VoteURLs {
			page, err := s.Fetcher.Fetch(ctx, voteURL)
			if err != nil {
				result.Failed++
				continue
			}
			ev, ws, err := ilga.ParseVoteEvent(page.Body, t.billNumber, t.chamber)
			s.noteWarnings(ws)
			if err != nil {
				result.Failed++
				continue
			}
			key := ev.BillNumber + "|" + ev.Date.Format("2006-01-02") + "|" + string(ev.Kind) + "|" + ev.Motion
			if eventKeys[key] {
				continue
			}
			eventKeys[key] = true
			events = append(events, ev)
			result.VoteEvents++
		}

		for _, slipURL := range links.SlipURLs {
			page, err := s.Fetcher.Fetch(ctx, slipURL)
			if err != nil {
				result.Failed++
				continue
			}
			parsed, ws, err := ilga.ParseWitnessSlips(page.Body, t.billNumber, t.chamber)
			s.noteWarnings(ws)
			if err != nil {
				result.Failed++
				continue
			}
			for i := range parsed {
				sl := parsed[i]
				if slipKeys[sl.Key()] {
					continue
				}
				slipKeys[sl.Key()] = true
				slips = append(slips, &sl)
				result.WitnessSlips++
			}
		}
	}

	if err := s.Store.SaveVoteEvents(events); err != nil {
		return nil, err
	}
	if err := s.Store.SaveWitnessSlips(slips); err != nil {
		return nil, err
	}

	md.LastVoteScrapeAt = time.Now()
	md.VoteScanStrategy = string(opts.Strategy)
	md.VoteScanCursor = nextCursor
	md.VoteScanStride = opts.Stride
	if err := s.Store.SaveMetadata(md); err != nil {
		return nil, err
	}
	return result, nil
}

type voteTarget struct {
	billNumber string
	statusURL  string
	chamber    graph.Chamber
}

// selectTargets picks the bills to visit this run. An explicit URL list wins;
// otherwise the strategy walks the cached substantive bills from the stored
// cursor.
func (s *Scraper) selectTargets(opts VoteScrapeOptions, md cache.Metadata) ([]voteTarget, int, error) {
	if len(opts.BillURLs) > 0 {
		targets := make([]voteTarget, 0, len(opts.BillURLs))
		for _, u := range opts.BillURLs {
			targets = append(targets, voteTarget{
				billNumber: "",
				statusURL:  u,
				// Fallback only; the parser reads the real chamber off
				// each vote sheet.
				chamber: graph.ChamberSenate,
			})
		}
		return targets, md.VoteScanCursor, nil
	}

	bills, err := s.Store.LoadBills()
	if err != nil {
		return nil, 0, err
	}
	ordered := make([]*graph.Bill, 0, len(bills))
	for _, b := range bills {
		if b.IsSubstantive() {
			ordered = append(ordered, b)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].BillNumber < ordered[j].BillNumber })
	if len(ordered) == 0 {
		return nil, 0, nil
	}

	var picked []*graph.Bill
	cursor := md.VoteScanCursor
	switch opts.Strategy {
	case ScanSampling:
		// First pass: every Nth bill starting at the cursor offset. Once the
		// offset wraps past the stride, linear gap-fill takes over.
		if cursor < opts.Stride {
			for i := cursor; i < len(ordered); i += opts.Stride {
				picked = append(picked, ordered[i])
				if len(picked) >= opts.BatchSize {
					break
				}
			}
			cursor++
		} else {
			picked, cursor = linearSlice(ordered, cursor-opts.Stride, opts.BatchSize)
			cursor += opts.Stride
		}
	default:
		picked, cursor = linearSlice(ordered, cursor, opts.BatchSize)
	}

	targets := make([]voteTarget, 0, len(picked))
	for _, b := range picked {
		targets = append(targets, voteTarget{billNumber: b.BillNumber, statusURL: b.StatusURL, chamber: b.Chamber})
	}
	return targets, cursor, nil
}

// linearSlice takes batch bills starting at cursor, wrapping to zero at the
// end of the list.
func linearSlice(ordered []*graph.Bill, cursor, batch int) ([]*graph.Bill, int) {
	if cursor >= len(ordered) {
		cursor = 0
	}
	end := cursor + batch
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[cursor:end], end
}

func voteEventKeys(events []*graph.VoteEvent) map[string]bool {
	keys := map[string]bool{}
	for _, ev := range events {
		keys[ev.BillNumber+"|"+ev.Date.Format("2006-01-02")+"|"+string(ev.Kind)+"|"+ev.Motion] = true
	}
	return keys
}
