package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/fetch"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/ilga"
)

// fakeILGA serves a minimal bill site: one index page per doc type and one
// status page per bill. Last-action dates are mutable so tests can simulate
// upstream activity between runs.
type fakeILGA struct {
	mu    sync.Mutex
	dates map[string]string // legID -> last action date
	srv   *httptest.Server
}

var fakeBills = map[string]struct {
	docType string
	number  string
	action  string
}{
	"1001": {"SB", "SB 145", "Third Reading - Passed; 041-015-000"},
	"1002": {"SB", "SB 289", "Assigned to Judiciary"},
	"2001": {"HB", "HB 1234", "First Reading"},
	"3001": {"SR", "SR 82", "Resolution Adopted"},
	"3002": {"HR", "HR 210", "First Reading"},
	"3003": {"SJR", "SJR 4", "First Reading"},
	"3004": {"HJR", "HJR 9", "First Reading"},
}

func newFakeILGA(t *testing.T) *fakeILGA {
	t.Helper()
	f := &fakeILGA{dates: map[string]string{
		"1001": "3/20/2025", "1002": "2/4/2025", "2001": "1/15/2025",
		"3001": "3/13/2025", "3002": "2/20/2025", "3003": "1/29/2025", "3004": "2/11/2025",
	}}
	mux := http.NewServeMux()
	mux.HandleFunc("/legislation/grplist.asp", f.serveIndex)
	mux.HandleFunc("/legislation/BillStatus.asp", f.serveDetail)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeILGA) setDate(legID, date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates[legID] = date
}

func (f *fakeILGA) serveIndex(w http.ResponseWriter, r *http.Request) {
	docType := r.URL.Query().Get("DocTypeID")
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprint(w, "<html><body><table>")
	for legID, b := range fakeBills {
		if b.docType != docType {
			continue
		}
		fmt.Fprintf(w, `<tr><td><a href="/legislation/BillStatus.asp?LegID=%s">%s</a></td><td>%s</td><td>%s</td></tr>`,
			legID, b.number, b.action, f.dates[legID])
	}
	fmt.Fprint(w, "</table></body></html>")
}

func (f *fakeILGA) serveDetail(w http.ResponseWriter, r *http.Request) {
	legID := r.URL.Query().Get("LegID")
	b, ok := fakeBills[legID]
	if !ok {
		http.NotFound(w, r)
		return
	}
	f.mu.Lock()
	date := f.dates[legID]
	f.mu.Unlock()
	fmt.Fprintf(w, `<html><body>
<h1>%s - A bill about something specific enough to not be a shell</h1>
<table>
<tr><td>1/10/2025</td><td>Senate</td><td>First Reading</td></tr>
<tr><td>%s</td><td>Senate</td><td>%s</td></tr>
</table>
</body></html>`, b.number, date, b.action)
}

func newTestScraper(t *testing.T, base string) *Scraper {
	t.Helper()
	store, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fetcher := fetch.New(fetch.Options{Delay: time.Millisecond, MaxAttempts: 1, Timeout: 5 * time.Second})
	return New(fetcher, store, ilga.Site{BaseURL: base, GAID: 104, SessionID: 114})
}

func TestScrapeBillsFullThenIncremental(t *testing.T) {
	fake := newFakeILGA(t)
	s := newTestScraper(t, fake.srv.URL)
	ctx := context.Background()

	first, err := s.ScrapeBills(ctx, BillScrapeOptions{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.IndexRows != len(fakeBills) || first.DetailFetches != len(fakeBills) {
		t.Fatalf("first run should fetch every detail page: %+v", first)
	}

	bills, err := s.Store.LoadBills()
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != len(fakeBills) {
		t.Fatalf("expected %d cached bills, got %d", len(fakeBills), len(bills))
	}
	if b := bills["1001"]; b.BillNumber != "SB0145" || b.Status != graph.StatusPassedChamber {
		t.Errorf("bill 1001 not derived: %+v", b)
	}

	// Nothing changed upstream: an incremental run is a pure no-op.
	second, err := s.ScrapeBills(ctx, BillScrapeOptions{Incremental: true})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.DetailFetches != 0 || second.Skipped != len(fakeBills) {
		t.Errorf("incremental no-op expected, got %+v", second)
	}

	// One bill moves; only that bill is refetched.
	fake.setDate("1002", "4/1/2025")
	third, err := s.ScrapeBills(ctx, BillScrapeOptions{Incremental: true})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.DetailFetches != 1 || third.Skipped != len(fakeBills)-1 {
		t.Errorf("expected exactly one refetch, got %+v", third)
	}
}

func TestScrapeBillsHonorsChamberLimits(t *testing.T) {
	fake := newFakeILGA(t)
	s := newTestScraper(t, fake.srv.URL)

	res, err := s.ScrapeBills(context.Background(), BillScrapeOptions{SBLimit: 1, HBLimit: 1})
	if err != nil {
		t.Fatalf("ScrapeBills: %v", err)
	}
	// 1 SB + 1 HB + all four resolutions; resolutions are never capped.
	if res.IndexRows != 6 {
		t.Errorf("expected 6 index rows with caps, got %d", res.IndexRows)
	}
}

func TestScrapeBillsRecordsMetadata(t *testing.T) {
	fake := newFakeILGA(t)
	s := newTestScraper(t, fake.srv.URL)
	if _, err := s.ScrapeBills(context.Background(), BillScrapeOptions{}); err != nil {
		t.Fatal(err)
	}
	md, err := s.Store.LoadMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if md.LastBillScrapeAt.IsZero() || md.BillIndexCount != len(fakeBills) {
		t.Errorf("metadata not recorded: %+v", md)
	}
	if md.FetchCounters["requests"] == 0 {
		t.Error("fetch counters not recorded")
	}
}

func TestFetchBillDetailsUnwindsWorkersOnCheckpointFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/legislation/BillStatus.asp", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<h1>SB 777 - A bill about something specific enough to not be a shell</h1>
<table><tr><td>1/10/2025</td><td>Senate</td><td>First Reading</td></tr></table>
</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	store, err := cache.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	fetcher := fetch.New(fetch.Options{Delay: time.Millisecond, MaxAttempts: 1, Timeout: 5 * time.Second})
	s := New(fetcher, store, ilga.Site{BaseURL: srv.URL, GAID: 104, SessionID: 114})
	s.Workers = 4

	// Enough rows to hit the first checkpoint, which will fail because the
	// cache directory is gone.
	rows := make([]ilga.IndexRow, checkpointEvery+10)
	for i := range rows {
		legID := fmt.Sprint(5000 + i)
		rows[i] = ilga.IndexRow{
			LegID:      legID,
			BillNumber: "SB 777",
			StatusURL:  srv.URL + "/legislation/BillStatus.asp?LegID=" + legID,
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	before := runtime.NumGoroutine()
	err = s.fetchBillDetails(context.Background(), rows, map[string]*graph.Bill{}, nil, &BillScrapeResult{})
	if err == nil || !strings.Contains(err.Error(), "checkpoint") {
		t.Fatalf("expected a checkpoint error, got %v", err)
	}

	// Every worker must wind down once the collector aborts; none may stay
	// blocked on the results channel.
	srv.Close()
	deadline := time.Now().Add(5 * time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if n := runtime.NumGoroutine(); n > before {
		t.Errorf("%d goroutines still running after the checkpoint failure (started with %d)", n, before)
	}
}

func TestNeedsFetch(t *testing.T) {
	d := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	cached := map[string]*graph.Bill{
		"1": {LegID: "1", LastActionDate: &d},
		"2": {LegID: "2"}, // no date on record
	}

	cases := []struct {
		name string
		row  ilga.IndexRow
		want bool
	}{
		{"uncached", ilga.IndexRow{LegID: "9", LastActionDate: "3/20/2025"}, true},
		{"unchanged", ilga.IndexRow{LegID: "1", LastActionDate: "3/20/2025"}, false},
		{"date moved", ilga.IndexRow{LegID: "1", LastActionDate: "4/1/2025"}, true},
		{"cached without date", ilga.IndexRow{LegID: "2", LastActionDate: "3/20/2025"}, true},
		{"index without date", ilga.IndexRow{LegID: "1", LastActionDate: ""}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := needsFetch(cached, tc.row); got != tc.want {
				t.Errorf("needsFetch = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRebuildMemberBillRefs(t *testing.T) {
	m1 := &graph.Member{MemberID: "1", BillIDs: []string{"stale"}}
	m2 := &graph.Member{MemberID: "2"}
	bills := map[string]*graph.Bill{
		"100": {LegID: "100", SponsorIDs: []string{"1", "2"}},
		"101": {LegID: "101", SponsorIDs: []string{"2"}, HouseSponsorIDs: []string{"1"}},
	}

	rebuildMemberBillRefs([]*graph.Member{m1, m2}, bills)

	if len(m1.BillIDs) != 2 || len(m1.PrimaryBillIDs) != 1 || m1.PrimaryBillIDs[0] != "100" {
		t.Errorf("m1 refs: all=%v primary=%v", m1.BillIDs, m1.PrimaryBillIDs)
	}
	// Cross-chamber sponsorship counts toward bill_ids but never primary.
	if len(m2.BillIDs) != 2 || len(m2.PrimaryBillIDs) != 1 || m2.PrimaryBillIDs[0] != "101" {
		t.Errorf("m2 refs: all=%v primary=%v", m2.BillIDs, m2.PrimaryBillIDs)
	}
}
