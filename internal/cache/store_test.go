package cache_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestMembersRoundTrip(t *testing.T) {
	s := newStore(t)
	in := []*graph.Member{
		{MemberID: "3320", Name: "Elena Vasquez", Chamber: graph.ChamberSenate, Party: graph.PartyDemocrat, District: 6},
		{MemberID: "3410", Name: "Angela Morrison", Chamber: graph.ChamberHouse, Party: graph.PartyDemocrat, District: 12},
	}
	if err := s.SaveMembers(in); err != nil {
		t.Fatalf("SaveMembers: %v", err)
	}
	out, err := s.LoadMembers()
	if err != nil {
		t.Fatalf("LoadMembers: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Elena Vasquez" || out[1].District != 12 {
		t.Errorf("round trip mangled members: %+v", out)
	}
}

func TestBillsRoundTripKeyedByLegID(t *testing.T) {
	s := newStore(t)
	d := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	in := map[string]*graph.Bill{
		"100": {
			LegID: "100", BillNumber: "SB0145", Chamber: graph.ChamberSenate,
			Kind: graph.KindSubstantive, LastActionDate: &d,
			Actions: []graph.ActionEntry{{Date: d, Action: "Third Reading - Passed; 041-015-000"}},
		},
	}
	if err := s.SaveBills(in); err != nil {
		t.Fatalf("SaveBills: %v", err)
	}
	out, err := s.LoadBills()
	if err != nil {
		t.Fatalf("LoadBills: %v", err)
	}
	b := out["100"]
	if b == nil || b.BillNumber != "SB0145" || len(b.Actions) != 1 {
		t.Fatalf("round trip mangled bill: %+v", b)
	}
	if b.LastActionDate == nil || !b.LastActionDate.Equal(d) {
		t.Errorf("last action date lost: %v", b.LastActionDate)
	}
}

func TestMissingFilesLoadEmpty(t *testing.T) {
	s := newStore(t)
	members, err := s.LoadMembers()
	if err != nil || len(members) != 0 {
		t.Errorf("expected empty members, got %v err=%v", members, err)
	}
	bills, err := s.LoadBills()
	if err != nil || len(bills) != 0 {
		t.Errorf("expected empty bills, got %v err=%v", bills, err)
	}
	slips, err := s.LoadWitnessSlips()
	if err != nil || len(slips) != 0 {
		t.Errorf("expected empty slips, got %v err=%v", slips, err)
	}
	md, err := s.LoadMetadata()
	if err != nil || !md.LastBillScrapeAt.IsZero() {
		t.Errorf("expected zero metadata, got %+v err=%v", md, err)
	}
}

func TestCorruptFileReportsErrCorrupt(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), cache.FileMembers), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := s.LoadMembers()
	if !errors.Is(err, cache.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := newStore(t)
	if err := s.SaveMembers([]*graph.Member{{MemberID: "1", Name: "A"}}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestMetadataRoundTripKeepsResumeState(t *testing.T) {
	s := newStore(t)
	in := cache.Metadata{
		LastBillScrapeAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		BillIndexCount:   412,
		FetchCounters:    map[string]int64{"pages": 97},
		VoteScanStrategy: "sampling",
		VoteScanCursor:   40,
		VoteScanStride:   7,
	}
	if err := s.SaveMetadata(in); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if out.VoteScanStrategy != "sampling" || out.VoteScanCursor != 40 || out.VoteScanStride != 7 {
		t.Errorf("resume state lost: %+v", out)
	}
	if out.BillIndexCount != 412 || out.FetchCounters["pages"] != 97 {
		t.Errorf("counters lost: %+v", out)
	}
}

func TestIsAnalyticsFresh(t *testing.T) {
	s := newStore(t)
	if s.IsAnalyticsFresh() {
		t.Error("empty cache must not be fresh")
	}
	if err := s.SaveMembers([]*graph.Member{{MemberID: "1", Name: "A"}}); err != nil {
		t.Fatal(err)
	}
	if s.IsAnalyticsFresh() {
		t.Error("members without analytics must not be fresh")
	}
	if err := s.SaveScorecards(map[string]*graph.Scorecard{"1": {MemberID: "1"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveMoneyball(map[string]*graph.MoneyballProfile{"1": {MemberID: "1"}}); err != nil {
		t.Fatal(err)
	}
	if !s.IsAnalyticsFresh() {
		t.Error("analytics written after members must be fresh")
	}

	// Rewriting members invalidates the analytics.
	stale := time.Now().Add(-time.Hour)
	for _, name := range []string{cache.FileScorecards, cache.FileMoneyball} {
		if err := os.Chtimes(filepath.Join(s.Dir(), name), stale, stale); err != nil {
			t.Fatal(err)
		}
	}
	if s.IsAnalyticsFresh() {
		t.Error("analytics older than members must be stale")
	}
}

func TestHasMembers(t *testing.T) {
	s := newStore(t)
	if s.HasMembers() {
		t.Error("empty cache must not report members")
	}
	if err := s.SaveMembers([]*graph.Member{}); err != nil {
		t.Fatal(err)
	}
	if s.HasMembers() {
		t.Error("an empty member list must not count as data")
	}
	if err := s.SaveMembers([]*graph.Member{{MemberID: "1", Name: "A"}}); err != nil {
		t.Fatal(err)
	}
	if !s.HasMembers() {
		t.Error("saved members must be detected")
	}
}
