package graph_test

import (
	"testing"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

func testInput() graph.BuildInput {
	sd := day(2025, 3, 20)
	m1 := member("1", "Elena Vasquez", graph.ChamberSenate)
	m1.District = 6
	m1.BillIDs = []string{"100", "101"}
	m1.PrimaryBillIDs = []string{"100"}
	m2 := member("2", "Samuel Park", graph.ChamberSenate)
	m2.District = 8
	m3 := member("3", "Diana Park", graph.ChamberHouse)
	m3.District = 12

	return graph.BuildInput{
		Members: []*graph.Member{m1, m2, m3},
		Bills: map[string]*graph.Bill{
			"100": {
				LegID: "100", BillNumber: "SB0145", Chamber: graph.ChamberSenate,
				Kind: graph.KindSubstantive, SponsorIDs: []string{"1"},
				LastActionDate: &sd,
				Actions: []graph.ActionEntry{
					{Date: day(2025, 2, 4), Chamber: graph.ChamberSenate, Action: "Assigned to Judiciary"},
					{Date: sd, Chamber: graph.ChamberSenate, Action: "Third Reading - Passed; 041-015-000"},
				},
			},
			"101": {
				LegID: "101", BillNumber: "SB0289", Chamber: graph.ChamberSenate,
				Kind: graph.KindSubstantive, SponsorIDs: []string{"2", "1"},
			},
		},
		Committees: []*graph.Committee{
			{Code: "SJUD", Name: "Judiciary", Chamber: graph.ChamberSenate},
			{Code: "SJUD-X", Name: "Orphan Subcommittee", ParentCode: "GONE", Chamber: graph.ChamberSenate},
		},
		Rosters: map[string][]graph.CommitteeMember{
			"SJUD": {{MemberID: "1", Role: graph.RoleChair}},
		},
		VoteEvents: []*graph.VoteEvent{
			{
				BillNumber: "SB0145", Chamber: graph.ChamberSenate, Date: sd,
				Kind: graph.VoteThirdReading,
				Yea:  []string{"Vasquez", "Park, S."},
				Nay:  []string{"Park, D."},
			},
		},
		Now: day(2025, 6, 1),
	}
}

func TestBuildResolvesReferences(t *testing.T) {
	g, err := graph.Build(testInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	bills := g.BillsOf("1")
	if len(bills) != 2 {
		t.Fatalf("expected 2 bills for member 1, got %d", len(bills))
	}
	primary := g.PrimaryBillsOf("1")
	if len(primary) != 1 || primary[0].LegID != "100" {
		t.Fatalf("expected primary bill 100, got %v", primary)
	}

	// Primary subset invariant.
	all := map[string]bool{}
	for _, b := range bills {
		all[b.LegID] = true
	}
	for _, b := range primary {
		if !all[b.LegID] {
			t.Errorf("primary bill %s not in member's bill set", b.LegID)
		}
	}
}

func TestBuildDerivesStatusBeforeServing(t *testing.T) {
	g, err := graph.Build(testInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, ok := g.BillByNumber("sb145")
	if !ok {
		t.Fatal("BillByNumber should normalize its argument")
	}
	if b.Status != graph.StatusPassedChamber || b.PipelineDepth != graph.DepthPassedChamber {
		t.Errorf("expected Passed Chamber depth 2, got %s depth %d", b.Status, b.PipelineDepth)
	}
}

func TestBuildRejectsDuplicateMemberIDs(t *testing.T) {
	in := testInput()
	in.Members = append(in.Members, member("1", "Impostor", graph.ChamberHouse))
	if _, err := graph.Build(in); err == nil {
		t.Fatal("expected duplicate member ID error")
	}
}

func TestBuildClearsOrphanParentCode(t *testing.T) {
	g, err := graph.Build(testInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := g.Committees["SJUD-X"].ParentCode; got != "" {
		t.Errorf("orphan parent code should be cleared, got %q", got)
	}
}

func TestBuildReconcilesVoteNames(t *testing.T) {
	g, err := graph.Build(testInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	events := g.VotesForBill("SB0145")
	if len(events) != 1 {
		t.Fatalf("expected 1 vote event, got %d", len(events))
	}
	ev := events[0]
	if len(ev.YeaIDs) != 2 {
		t.Fatalf("expected both yea names resolved, got %v", ev.YeaIDs)
	}
	// "Park, D." is a House member; a Senate roll call must not match them.
	if len(ev.NayIDs) != 0 {
		t.Errorf("cross-chamber name must stay unresolved, got %v", ev.NayIDs)
	}
}

func TestMemberDistrict(t *testing.T) {
	g, err := graph.Build(testInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, ok := g.MemberDistrict(graph.ChamberSenate, 6)
	if !ok || m.MemberID != "1" {
		t.Fatalf("expected member 1 for Senate district 6, got %v ok=%v", m, ok)
	}
	if _, ok := g.MemberDistrict(graph.ChamberHouse, 99); ok {
		t.Error("unknown district must not resolve")
	}
}
