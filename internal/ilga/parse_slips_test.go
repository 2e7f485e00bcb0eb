package ilga_test

import (
	"testing"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/ilga"
)

const slipPageHTML = `<html><body>
<h2>SB0145 Witness Slips - Hearing of 3/4/2025</h2>
<a href="/senate/committees/members.asp?CommitteeID=SENV">Energy and Environment</a>
<table>
<tr><th>Name</th><th>Representing</th><th>Position</th><th>Testimony</th></tr>
<tr><td>Maya Okafor</td><td>Illinois Environmental Council</td><td>Proponent</td><td>Oral</td></tr>
<tr><td>Walter Dunn</td><td>Chamber of Commerce</td><td>Opponent</td><td>Record of Appearance Only</td></tr>
<tr><td>Priya Natarajan</td><td></td><td>Proponent</td><td>Record of Appearance Only</td></tr>
<tr><td>Tom Lindqvist</td><td>Dept. of Revenue</td><td>Information</td><td>Oral</td></tr>
<tr><td>Maya Okafor</td><td>Illinois Environmental Council</td><td>Proponent</td><td>Oral</td></tr>
</table>
</body></html>`

func TestParseWitnessSlips(t *testing.T) {
	slips, warnings, err := ilga.ParseWitnessSlips([]byte(slipPageHTML), "SB0145", graph.ChamberSenate)
	if err != nil {
		t.Fatalf("ParseWitnessSlips: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	// Duplicate (bill, filer, date, position) collapsed.
	if len(slips) != 4 {
		t.Fatalf("expected 4 slips, got %d", len(slips))
	}

	first := slips[0]
	if first.BillNumber != "SB0145" || first.CommitteeCode != "SENV" {
		t.Errorf("slip identity: %+v", first)
	}
	if first.HearingDate.IsZero() || first.HearingDate.Month() != 3 {
		t.Errorf("hearing date: %v", first.HearingDate)
	}
	if first.Position != graph.SlipProponent || !first.WillTestify {
		t.Errorf("first slip: %+v", first)
	}

	if slips[1].Position != graph.SlipOpponent || slips[1].WillTestify {
		t.Errorf("record-only slip: %+v", slips[1])
	}
	// An empty representation means the filer speaks for themselves.
	if slips[2].Represents != "self" {
		t.Errorf("empty org should become self, got %q", slips[2].Represents)
	}
	if slips[3].Position != graph.SlipInformation {
		t.Errorf("information slip: %+v", slips[3])
	}
}

func TestParseWitnessSlipsRejectsEmptyPage(t *testing.T) {
	html := `<html><body><h2>SB0145 Witness Slips</h2><p>No slips filed.</p></body></html>`
	if _, _, err := ilga.ParseWitnessSlips([]byte(html), "SB0145", graph.ChamberSenate); err == nil {
		t.Error("expected ErrPageStructure for a page with no slip rows")
	}
}
