package analytics_test

import (
	"math"
	"testing"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/analytics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func newMember(id, name string, ch graph.Chamber, party graph.Party, district int) *graph.Member {
	return &graph.Member{MemberID: id, Name: name, Chamber: ch, Party: party, District: district}
}

// longDescription is comfortably past the shell-bill length threshold.
const longDescription = "Amends the Environmental Protection Act to establish grant programs for watershed restoration"

func signedBill(legID, number string, sponsorIDs ...string) *graph.Bill {
	return &graph.Bill{
		LegID: legID, BillNumber: number,
		Chamber: graph.ChamberForBillNumber(number), Kind: graph.KindForBillNumber(number),
		Description: longDescription,
		SponsorIDs:  sponsorIDs,
		Actions: []graph.ActionEntry{
			{Date: day(2025, 3, 1), Action: "Third Reading - Passed"},
			{Date: day(2025, 5, 1), Action: "Third Reading - Passed"},
			{Date: day(2025, 6, 1), Action: "Sent to the Governor"},
			{Date: day(2025, 7, 1), Action: "Governor Approved; Public Act 104-0001"},
		},
	}
}

func stalledBill(legID, number string, sponsorIDs ...string) *graph.Bill {
	return &graph.Bill{
		LegID: legID, BillNumber: number,
		Chamber: graph.ChamberForBillNumber(number), Kind: graph.KindForBillNumber(number),
		Description: longDescription,
		SponsorIDs:  sponsorIDs,
		Actions: []graph.ActionEntry{
			{Date: day(2025, 2, 1), Action: "Assigned to Judiciary"},
		},
	}
}

func shellBill(legID, number string, sponsorIDs ...string) *graph.Bill {
	return &graph.Bill{
		LegID: legID, BillNumber: number,
		Chamber: graph.ChamberForBillNumber(number), Kind: graph.KindForBillNumber(number),
		Description: "TECHNICAL - Shell bill for budget implementation",
		SponsorIDs:  sponsorIDs,
		Actions: []graph.ActionEntry{
			{Date: day(2025, 2, 1), Action: "First Reading"},
		},
	}
}

func buildGraph(t *testing.T, members []*graph.Member, bills ...*graph.Bill) *graph.Graph {
	t.Helper()
	billMap := map[string]*graph.Bill{}
	byID := map[string]*graph.Member{}
	for _, m := range members {
		byID[m.MemberID] = m
	}
	for _, b := range bills {
		billMap[b.LegID] = b
		for i, id := range b.SponsorIDs {
			m := byID[id]
			if m == nil {
				continue
			}
			m.BillIDs = append(m.BillIDs, b.LegID)
			if i == 0 {
				m.PrimaryBillIDs = append(m.PrimaryBillIDs, b.LegID)
			}
		}
	}
	g, err := graph.Build(graph.BuildInput{Members: members, Bills: billMap, Now: day(2025, 9, 1)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestIsShellBill(t *testing.T) {
	if !analytics.IsShellBill(&graph.Bill{Description: "TECHNICAL"}) {
		t.Error("short technical description should be a shell")
	}
	if !analytics.IsShellBill(&graph.Bill{Description: longDescription + " - technical corrections to cross references only"}) {
		t.Error("long description containing 'technical' should be a shell")
	}
	if analytics.IsShellBill(&graph.Bill{Description: longDescription}) {
		t.Error("substantive description should not be a shell")
	}
}

func TestScorecardExcludesShellsFromRates(t *testing.T) {
	m := newMember("1", "Elena Vasquez", graph.ChamberSenate, graph.PartyDemocrat, 6)
	g := buildGraph(t, []*graph.Member{m},
		signedBill("100", "SB0100", "1"),
		stalledBill("101", "SB0101", "1"),
		shellBill("102", "SB0102", "1"),
	)

	card := analytics.ComputeScorecard(g, m)
	if card.BillsIntroduced != 3 {
		t.Errorf("expected 3 bills introduced, got %d", card.BillsIntroduced)
	}
	if card.ShellBillCount != 1 {
		t.Errorf("expected 1 shell, got %d", card.ShellBillCount)
	}
	// 1 law over 2 eligible bills: the shell is out of the denominator.
	if card.LawSuccessRate != 0.5 {
		t.Errorf("expected success rate 0.5, got %f", card.LawSuccessRate)
	}
}

func TestShellOutcomeCannotMoveSuccessRate(t *testing.T) {
	run := func(shellSigned bool) float64 {
		m := newMember("1", "Elena Vasquez", graph.ChamberSenate, graph.PartyDemocrat, 6)
		shell := shellBill("102", "SB0102", "1")
		if shellSigned {
			shell.Actions = append(shell.Actions, graph.ActionEntry{
				Date: day(2025, 7, 1), Action: "Governor Approved; Public Act 104-0050",
			})
		}
		g := buildGraph(t, []*graph.Member{m},
			signedBill("100", "SB0100", "1"),
			stalledBill("101", "SB0101", "1"),
			shell,
		)
		return analytics.ComputeScorecard(g, m).LawSuccessRate
	}

	if failed, passed := run(false), run(true); failed != passed {
		t.Errorf("shell outcome changed success rate: %f vs %f", failed, passed)
	}
}

func TestScorecardBridgeAndMagnet(t *testing.T) {
	d := newMember("1", "Elena Vasquez", graph.ChamberSenate, graph.PartyDemocrat, 6)
	d2 := newMember("2", "Marcus Webb", graph.ChamberSenate, graph.PartyDemocrat, 2)
	r := newMember("3", "James Whitfield", graph.ChamberSenate, graph.PartyRepublican, 44)

	g := buildGraph(t, []*graph.Member{d, d2, r},
		stalledBill("100", "SB0100", "1", "2", "3"), // cross-party
		stalledBill("101", "SB0101", "1", "2"),      // same-party only
	)

	card := analytics.ComputeScorecard(g, d)
	if !almostEqual(card.MagnetScore, 1.5) {
		t.Errorf("expected magnet 1.5 (3 co-sponsors / 2 bills), got %f", card.MagnetScore)
	}
	if !almostEqual(card.BridgeScore, 0.5) {
		t.Errorf("expected bridge 0.5, got %f", card.BridgeScore)
	}
}

func TestScorecardResolutionsTrackedSeparately(t *testing.T) {
	m := newMember("1", "Harold Jeffers", graph.ChamberSenate, graph.PartyDemocrat, 14)
	adopted := &graph.Bill{
		LegID: "200", BillNumber: "SR0082", Chamber: graph.ChamberSenate, Kind: graph.KindResolution,
		Description: "Designates April as Prairie Restoration Month",
		SponsorIDs:  []string{"1"},
		Actions:     []graph.ActionEntry{{Date: day(2025, 3, 13), Action: "Resolution Adopted"}},
	}
	pending := &graph.Bill{
		LegID: "201", BillNumber: "SR0090", Chamber: graph.ChamberSenate, Kind: graph.KindResolution,
		Description: "Urges Congress to act", SponsorIDs: []string{"1"},
	}
	g := buildGraph(t, []*graph.Member{m}, adopted, pending)

	card := analytics.ComputeScorecard(g, m)
	if card.ResolutionsFiled != 2 || card.ResolutionsPassed != 1 {
		t.Errorf("expected 2 filed / 1 passed, got %d / %d", card.ResolutionsFiled, card.ResolutionsPassed)
	}
	if card.BillsIntroduced != 0 {
		t.Errorf("resolutions must not count as bills introduced, got %d", card.BillsIntroduced)
	}
	if card.ResolutionPassRate != 0.5 {
		t.Errorf("expected resolution pass rate 0.5, got %f", card.ResolutionPassRate)
	}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
