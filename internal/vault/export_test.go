package vault_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/analytics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/vault"
)

func exportFixture(t *testing.T) *graph.Graph {
	t.Helper()
	members := []*graph.Member{
		{
			MemberID: "1", Name: "Elena Vasquez", Chamber: graph.ChamberSenate,
			Party: graph.PartyDemocrat, District: 6, Role: "Senate President",
			CommitteeCodes: []string{"SENV"},
			BillIDs:        []string{"100", "101"},
			PrimaryBillIDs: []string{"100", "101"},
			SeatmateNames:  []string{"Marcus Webb"},
		},
		{
			MemberID: "2", Name: "Marcus Webb", Chamber: graph.ChamberSenate,
			Party: graph.PartyDemocrat, District: 2,
			BillIDs: []string{"100"},
		},
	}
	bills := map[string]*graph.Bill{
		"100": {
			LegID: "100", BillNumber: "SB0145", Chamber: graph.ChamberSenate,
			Kind:        graph.KindSubstantive,
			Description: "Prescription Drug Pricing Transparency Act",
			SponsorIDs:  []string{"1", "2"},
			Actions: []graph.ActionEntry{
				{Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Chamber: graph.ChamberSenate, Action: "First Reading"},
			},
		},
		"101": {
			LegID: "101", BillNumber: "SB0289", Chamber: graph.ChamberSenate,
			Kind:        graph.KindSubstantive,
			Description: "Municipal Broadband Authority Act",
			SponsorIDs:  []string{"1"},
			Actions: []graph.ActionEntry{
				{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Chamber: graph.ChamberSenate, Action: "First Reading"},
			},
		},
	}
	g, err := graph.Build(graph.BuildInput{
		Members:    members,
		Bills:      bills,
		Committees: []*graph.Committee{{Code: "SENV", Name: "Environment and Conservation", Chamber: graph.ChamberSenate}},
		Rosters: map[string][]graph.CommitteeMember{
			"SENV": {{MemberID: "1", Role: graph.RoleChair}, {MemberID: "2", Role: graph.RoleMember}},
		},
		Now: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func newExporter(t *testing.T, g *graph.Graph) *vault.Exporter {
	t.Helper()
	cards := analytics.ComputeScorecards(g)
	return &vault.Exporter{
		Dir:        t.TempDir(),
		Graph:      g,
		Scorecards: cards,
		Moneyball:  analytics.ComputeMoneyball(g, cards),
	}
}

func readNote(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestExportWritesLinkedNotes(t *testing.T) {
	g := exportFixture(t)
	exp := newExporter(t, g)

	n, err := exp.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	// 2 members + 1 committee + 2 bills.
	if n != 5 {
		t.Fatalf("expected 5 notes, got %d", n)
	}

	member := readNote(t, exp.Dir, "Elena Vasquez.md")
	if !strings.HasPrefix(member, "---\n") {
		t.Error("member note missing frontmatter")
	}
	if !strings.Contains(member, "type: member") || !strings.Contains(member, "role: Senate President") {
		t.Errorf("member frontmatter: %s", member)
	}
	if !strings.Contains(member, "[[SB0145]]") || !strings.Contains(member, "[[Environment and Conservation]]") {
		t.Errorf("member note should wiki-link bills and committees:\n%s", member)
	}
	if !strings.Contains(member, "[[Marcus Webb]]") {
		t.Error("seatmates section missing")
	}

	bill := readNote(t, exp.Dir, "SB0145.md")
	if !strings.Contains(bill, "type: bill") || !strings.Contains(bill, "[[Elena Vasquez]] (primary)") {
		t.Errorf("bill note:\n%s", bill)
	}

	committee := readNote(t, exp.Dir, "Environment and Conservation.md")
	if !strings.Contains(committee, "[[Elena Vasquez]] (Chair)") {
		t.Errorf("committee roster should label the chair:\n%s", committee)
	}
}

func TestExportSweepsStaleNotes(t *testing.T) {
	g := exportFixture(t)
	exp := newExporter(t, g)

	stale := filepath.Join(exp.Dir, "Former Member.md")
	if err := os.WriteFile(stale, []byte("# gone"), 0o644); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(exp.Dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("unrelated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := exp.Export(); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale note should be swept")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("non-markdown files must survive the sweep")
	}
}

func TestExportHonorsBillLimit(t *testing.T) {
	g := exportFixture(t)
	exp := newExporter(t, g)
	exp.BillLimit = 1

	n, err := exp.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	// 2 members + 1 committee + 1 capped bill.
	if n != 4 {
		t.Fatalf("expected 4 notes with BillLimit=1, got %d", n)
	}
	member := readNote(t, exp.Dir, "Elena Vasquez.md")
	if strings.Contains(member, "[[SB0289]]") {
		t.Error("capped bill should not be linked from the member note")
	}
}
