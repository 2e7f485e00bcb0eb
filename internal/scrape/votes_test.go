package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// newVoteSite serves one bill status page that links a roll call and a
// witness-slip listing.
func newVoteSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/legislation/BillStatus.asp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<h1>SB0145</h1>
<a href="/legislation/votehistory/rollcall.asp?RollCallID=771">Third Reading Vote</a>
<a href="/legislation/witnessslip/slipresults.asp?HearingID=911">Witness Slips</a>
</body></html>`)
	})
	mux.HandleFunc("/legislation/votehistory/rollcall.asp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<h2>SB0145</h2>
<h3>Third Reading</h3>
<p>Senate Vote of 3/20/2025</p>
<table><tr><td>Y</td><td>Feigenholtz</td><td>N</td><td>Whitfield</td></tr></table>
</body></html>`)
	})
	mux.HandleFunc("/legislation/witnessslip/slipresults.asp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<h2>SB0145 Witness Slips - 3/4/2025</h2>
<table>
<tr><td>Maya Okafor</td><td>Illinois Environmental Council</td><td>Proponent</td><td>Oral</td></tr>
<tr><td>Walter Dunn</td><td>Chamber of Commerce</td><td>Opponent</td><td>Record</td></tr>
</table>
</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeVotesExplicitURLs(t *testing.T) {
	srv := newVoteSite(t)
	s := newTestScraper(t, srv.URL)
	ctx := context.Background()
	opts := VoteScrapeOptions{BillURLs: []string{srv.URL + "/legislation/BillStatus.asp?LegID=1001"}}

	first, err := s.ScrapeVotes(ctx, opts)
	if err != nil {
		t.Fatalf("ScrapeVotes: %v", err)
	}
	if first.BillsVisited != 1 || first.VoteEvents != 1 || first.WitnessSlips != 2 {
		t.Fatalf("first run: %+v", first)
	}

	events, err := s.Store.LoadVoteEvents()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].BillNumber != "SB0145" || events[0].Kind != graph.VoteThirdReading {
		t.Errorf("persisted event: %+v", events[0])
	}

	// A rerun finds the same pages and adds nothing.
	second, err := s.ScrapeVotes(ctx, opts)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if second.VoteEvents != 0 || second.WitnessSlips != 0 {
		t.Errorf("rerun must deduplicate, got %+v", second)
	}
	slips, _ := s.Store.LoadWitnessSlips()
	if len(slips) != 2 {
		t.Errorf("expected 2 slips after rerun, got %d", len(slips))
	}
}

func TestScrapeVotesTagsChamberFromSheet(t *testing.T) {
	// A Senate bill whose roll call happened in the House. The persisted
	// event must carry the chamber the sheet reports, not the target's.
	mux := http.NewServeMux()
	mux.HandleFunc("/legislation/BillStatus.asp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<h1>SB0145</h1>
<a href="/legislation/votehistory/rollcall.asp?RollCallID=772">Third Reading Vote</a>
</body></html>`)
	})
	mux.HandleFunc("/legislation/votehistory/rollcall.asp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<h2>SB0145</h2>
<h3>Third Reading</h3>
<p>House Vote of 5/18/2025</p>
<table><tr><td>Y</td><td>Morrison</td><td>N</td><td>Tran</td></tr></table>
</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := newTestScraper(t, srv.URL)
	opts := VoteScrapeOptions{BillURLs: []string{srv.URL + "/legislation/BillStatus.asp?LegID=1001"}}
	if _, err := s.ScrapeVotes(context.Background(), opts); err != nil {
		t.Fatalf("ScrapeVotes: %v", err)
	}

	events, err := s.Store.LoadVoteEvents()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Chamber != graph.ChamberHouse {
		t.Errorf("sheet says House, persisted chamber %s", events[0].Chamber)
	}
}

func voteScanStore(t *testing.T, n int) *cache.Store {
	t.Helper()
	store, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	bills := map[string]*graph.Bill{}
	for i := 1; i <= n; i++ {
		num := fmt.Sprintf("SB%04d", i)
		bills[fmt.Sprint(i)] = &graph.Bill{
			LegID: fmt.Sprint(i), BillNumber: num, Chamber: graph.ChamberSenate,
			Kind: graph.KindSubstantive, StatusURL: "https://example.test/" + num,
		}
	}
	if err := store.SaveBills(bills); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestSelectTargetsLinearResumesFromCursor(t *testing.T) {
	s := &Scraper{Store: voteScanStore(t, 10)}

	targets, cursor, err := s.selectTargets(VoteScrapeOptions{Strategy: ScanLinear, BatchSize: 4, Stride: 10}, cache.Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 4 || targets[0].billNumber != "SB0001" || cursor != 4 {
		t.Fatalf("first batch: %d targets, cursor %d", len(targets), cursor)
	}

	targets, cursor, err = s.selectTargets(VoteScrapeOptions{Strategy: ScanLinear, BatchSize: 4, Stride: 10}, cache.Metadata{VoteScanCursor: cursor})
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 4 || targets[0].billNumber != "SB0005" || cursor != 8 {
		t.Fatalf("second batch: %d targets starting %s, cursor %d", len(targets), targets[0].billNumber, cursor)
	}

	// Past the end the cursor wraps back to the start.
	targets, cursor, err = s.selectTargets(VoteScrapeOptions{Strategy: ScanLinear, BatchSize: 4, Stride: 10}, cache.Metadata{VoteScanCursor: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 4 || targets[0].billNumber != "SB0001" {
		t.Fatalf("wrapped batch: %v", targets)
	}
	_ = cursor
}

func TestSelectTargetsSamplingStridesFirst(t *testing.T) {
	s := &Scraper{Store: voteScanStore(t, 10)}

	targets, cursor, err := s.selectTargets(VoteScrapeOptions{Strategy: ScanSampling, BatchSize: 25, Stride: 4}, cache.Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	// Every 4th bill from offset 0: SB0001, SB0005, SB0009.
	want := []string{"SB0001", "SB0005", "SB0009"}
	if len(targets) != len(want) {
		t.Fatalf("expected %d sampled targets, got %v", len(want), targets)
	}
	for i, w := range want {
		if targets[i].billNumber != w {
			t.Errorf("sample[%d] = %s, want %s", i, targets[i].billNumber, w)
		}
	}
	if cursor != 1 {
		t.Errorf("sampling cursor should advance to the next offset, got %d", cursor)
	}
}

func TestLinearSlice(t *testing.T) {
	bills := make([]*graph.Bill, 7)
	for i := range bills {
		bills[i] = &graph.Bill{BillNumber: fmt.Sprintf("SB%04d", i+1)}
	}

	picked, next := linearSlice(bills, 5, 4)
	if len(picked) != 2 || next != 7 {
		t.Errorf("tail slice: %d picked, next %d", len(picked), next)
	}
	picked, next = linearSlice(bills, 7, 3)
	if len(picked) != 3 || picked[0].BillNumber != "SB0001" || next != 3 {
		t.Errorf("wrap: %d picked starting %s, next %d", len(picked), picked[0].BillNumber, next)
	}
}

func TestScrapeVotesPersistsResumeState(t *testing.T) {
	srv := newVoteSite(t)
	s := newTestScraper(t, srv.URL)
	s.Store = voteScanStore(t, 3)

	// All three fake bills point at the same status page.
	bills, _ := s.Store.LoadBills()
	for _, b := range bills {
		b.StatusURL = srv.URL + "/legislation/BillStatus.asp?LegID=" + b.LegID
	}
	if err := s.Store.SaveBills(bills); err != nil {
		t.Fatal(err)
	}

	if _, err := s.ScrapeVotes(context.Background(), VoteScrapeOptions{Strategy: ScanLinear, BatchSize: 2}); err != nil {
		t.Fatal(err)
	}
	md, err := s.Store.LoadMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if md.VoteScanStrategy != string(ScanLinear) || md.VoteScanCursor != 2 || md.LastVoteScrapeAt.IsZero() {
		t.Errorf("resume state: %+v", md)
	}
}
