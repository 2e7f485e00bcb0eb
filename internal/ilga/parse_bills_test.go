package ilga_test

import (
	"strings"
	"testing"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/ilga"
)

const billIndexHTML = `<html><body>
<table>
<tr><td><a href="/legislation/BillStatus.asp?DocNum=145&DocTypeID=SB&LegID=157894">SB 145</a></td>
    <td>Third Reading - Passed; 041-015-000</td><td>3/20/2025</td></tr>
<tr><td><a href="/legislation/BillStatus.asp?DocNum=289&DocTypeID=SB&LegID=157920">SB 289</a></td>
    <td>Assigned to Judiciary</td><td>2/4/2025</td></tr>
<tr><td><a href="/legislation/BillStatus.asp?DocNum=145&DocTypeID=SB&LegID=157894">SB 145</a></td>
    <td>dup row</td><td>3/20/2025</td></tr>
<tr><td>heading row with no link</td></tr>
</table>
<a href="grplist.asp?num1=1001&num2=2000&DocTypeID=SB&GAID=104&SessionID=114">Next Page</a>
</body></html>`

func TestParseBillIndexPage(t *testing.T) {
	page, warnings, err := ilga.ParseBillIndexPage([]byte(billIndexHTML), testSite)
	if err != nil {
		t.Fatalf("ParseBillIndexPage: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(page.Rows) != 2 {
		t.Fatalf("expected 2 rows (dup collapsed), got %d", len(page.Rows))
	}

	r := page.Rows[0]
	if r.BillNumber != "SB0145" || r.LegID != "157894" {
		t.Errorf("first row: %+v", r)
	}
	if r.LastAction != "Third Reading - Passed; 041-015-000" || r.LastActionDate != "3/20/2025" {
		t.Errorf("last action columns: %+v", r)
	}
	if !strings.HasPrefix(r.StatusURL, "https://www.ilga.gov/") {
		t.Errorf("status URL not resolved: %s", r.StatusURL)
	}

	if !strings.Contains(page.NextURL, "num1=1001") {
		t.Errorf("next page link not discovered: %q", page.NextURL)
	}
}

func TestParseBillIndexLastPage(t *testing.T) {
	html := `<html><body><table>
<tr><td><a href="/legislation/BillStatus.asp?LegID=157999">HB 42</a></td><td>First Reading</td><td>1/10/2025</td></tr>
</table></body></html>`
	page, _, err := ilga.ParseBillIndexPage([]byte(html), testSite)
	if err != nil {
		t.Fatalf("ParseBillIndexPage: %v", err)
	}
	if page.NextURL != "" {
		t.Errorf("last page must have no next link, got %q", page.NextURL)
	}
}

func TestParseBillIndexRejectsEmptyPage(t *testing.T) {
	if _, _, err := ilga.ParseBillIndexPage([]byte("<html><body>down for maintenance</body></html>"), testSite); err == nil {
		t.Error("expected ErrPageStructure")
	}
}

const billDetailHTML = `<html><body>
<h1>SB0145 - Clean Energy Workforce Act</h1>
<div><strong>Synopsis As Introduced</strong><p>Amends the Energy Transition Act. Provides that grant programs include pre-apprenticeship pathways.</p></div>
<div><strong>Senate Sponsors</strong>
  <a href="/senate/Senator.asp?MemberID=3320">Sara Feigenholtz</a> -
  <a href="/senate/Senator.asp?MemberID=3321">Antonio Mu&ntilde;oz</a>
</div>
<div><strong>House Sponsors</strong>
  <a href="/house/Rep.asp?MemberID=3410">Angela Morrison</a>
</div>
<table>
<tr><td>1/24/2025</td><td>Senate</td><td>First Reading</td></tr>
<tr><td>2/4/2025</td><td>Senate</td><td>Assigned to Energy and Public Utilities</td></tr>
<tr><td>3/20/2025</td><td>Senate</td><td>Third Reading - Passed; 041-015-000</td></tr>
</table>
</body></html>`

func TestParseBillDetail(t *testing.T) {
	d, warnings, err := ilga.ParseBillDetail([]byte(billDetailHTML), "https://www.ilga.gov/legislation/BillStatus.asp?LegID=157894")
	if err != nil {
		t.Fatalf("ParseBillDetail: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	b := d.Bill
	if b.LegID != "157894" || b.BillNumber != "SB0145" {
		t.Errorf("identity: %+v", b)
	}
	if b.Chamber != graph.ChamberSenate || b.Kind != graph.KindSubstantive {
		t.Errorf("classification: chamber=%s kind=%s", b.Chamber, b.Kind)
	}
	if b.Description != "Clean Energy Workforce Act" {
		t.Errorf("description: %q", b.Description)
	}
	if !strings.HasPrefix(b.Synopsis, "Amends the Energy Transition Act.") {
		t.Errorf("synopsis: %q", b.Synopsis)
	}

	if len(d.SponsorNames) != 2 || d.SponsorNames[0] != "Sara Feigenholtz" {
		t.Errorf("sponsors: %v", d.SponsorNames)
	}
	if b.PrimarySponsor != "Sara Feigenholtz" {
		t.Errorf("primary sponsor: %q", b.PrimarySponsor)
	}
	if len(d.CrossChamberSponsorNames) != 1 || d.CrossChamberSponsorNames[0] != "Angela Morrison" {
		t.Errorf("cross-chamber sponsors: %v", d.CrossChamberSponsorNames)
	}

	if len(b.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %v", b.Actions)
	}
	if b.Actions[0].Action != "First Reading" || b.Actions[0].Chamber != graph.ChamberSenate {
		t.Errorf("first action: %+v", b.Actions[0])
	}
	if b.LastAction != "Third Reading - Passed; 041-015-000" {
		t.Errorf("last action: %q", b.LastAction)
	}
	if b.LastActionDate == nil || b.LastActionDate.Day() != 20 {
		t.Errorf("last action date: %v", b.LastActionDate)
	}
}

func TestParseBillDetailRequiresLegID(t *testing.T) {
	if _, _, err := ilga.ParseBillDetail([]byte(billDetailHTML), "https://www.ilga.gov/legislation/BillStatus.asp"); err == nil {
		t.Error("expected error when the source URL has no LegID")
	}
}

func TestParseBillPageLinks(t *testing.T) {
	html := `<html><body>
<a href="/legislation/votehistory/rollcall.asp?GA=104&RollCallID=771">Third Reading Vote</a>
<a href="/legislation/votehistory/rollcall.asp?GA=104&RollCallID=802">Concurrence Vote</a>
<a href="/legislation/witnessslip/slipresults.asp?HearingID=911">Witness Slips</a>
<a href="/legislation/BillStatus.asp?LegID=157894">Bill Status</a>
<a href="/legislation/votehistory/rollcall.asp?GA=104&RollCallID=771">Duplicate</a>
</body></html>`
	links, err := ilga.ParseBillPageLinks([]byte(html), testSite)
	if err != nil {
		t.Fatalf("ParseBillPageLinks: %v", err)
	}
	if len(links.VoteURLs) != 2 {
		t.Errorf("expected 2 vote links, got %v", links.VoteURLs)
	}
	if len(links.SlipURLs) != 1 {
		t.Errorf("expected 1 slip link, got %v", links.SlipURLs)
	}
}
