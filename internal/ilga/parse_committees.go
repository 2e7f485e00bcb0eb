package ilga

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// CommitteeRef is one row of the committee index.
type CommitteeRef struct {
	Code       string
	Name       string
	ParentCode string
	Chamber    graph.Chamber
	DetailURL  string
}

// ParseCommitteeIndex lists committees for one chamber. A code containing a
// dash ("SCRL-SUB1") marks a subcommittee of the prefix committee.
func ParseCommitteeIndex(html []byte, site Site, ch graph.Chamber) ([]CommitteeRef, []Warning, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, nil, err
	}

	var refs []CommitteeRef
	var warnings []Warning
	seen := map[string]bool{}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		a := row.Find("a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		code := CommitteeCodeFromURL(href)
		if code == "" {
			return
		}
		name := cleanText(a.Text())
		if name == "" {
			// Some index layouts put the name in the second cell.
			name = cleanText(row.Find("td").Eq(1).Text())
		}
		if name == "" {
			warnings = warn(warnings, "committee_index", "committee %s has no name", code)
			return
		}
		if seen[code] {
			return
		}
		seen[code] = true

		ref := CommitteeRef{Code: code, Name: name, Chamber: ch, DetailURL: site.Resolve(href)}
		if i := strings.Index(code, "-"); i > 0 {
			ref.ParentCode = code[:i]
		}
		refs = append(refs, ref)
	})

	if len(refs) == 0 {
		return nil, warnings, ErrPageStructure
	}
	return refs, warnings, nil
}

// RosterRow is one member line on a committee detail page. Names are
// resolved to member IDs by the scraper, which holds the member set.
type RosterRow struct {
	Name string
	Role graph.CommitteeRole
}

// BillRef is a bill reference found on a committee detail page.
type BillRef struct {
	BillNumber string
	LegID      string
}

// ParseCommitteeDetail extracts the roster and the committee's assigned
// bills from a committee page.
func ParseCommitteeDetail(html []byte, site Site) ([]RosterRow, []BillRef, []Warning, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, nil, nil, err
	}
	var warnings []Warning

	var roster []RosterRow
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		a := row.Find("a").First()
		href, _ := a.Attr("href")
		if MemberIDFromURL(href) == "" {
			return
		}
		name := cleanText(a.Text())
		if name == "" {
			warnings = warn(warnings, "committee_detail", "member link %s has no name", href)
			return
		}
		roster = append(roster, RosterRow{Name: name, Role: roleForRow(row)})
	})

	var bills []BillRef
	seen := map[string]bool{}
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		legID := LegIDFromURL(href)
		if legID == "" || seen[legID] {
			return
		}
		number := normalizeBillNumber(a.Text())
		if number == "" {
			return
		}
		seen[legID] = true
		bills = append(bills, BillRef{BillNumber: number, LegID: legID})
	})

	if len(roster) == 0 && len(bills) == 0 {
		return nil, nil, warnings, ErrPageStructure
	}
	return roster, bills, warnings, nil
}

// roleForRow reads the roster role from the row text around the member link.
func roleForRow(row *goquery.Selection) graph.CommitteeRole {
	t := strings.ToLower(cleanText(row.Text()))
	switch {
	case strings.Contains(t, "vice-chair"), strings.Contains(t, "vice chair"):
		return graph.RoleViceChair
	case strings.Contains(t, "minority spokesperson"), strings.Contains(t, "spokesperson"):
		return graph.RoleMinoritySpokesperson
	case strings.Contains(t, "chair"):
		return graph.RoleChair
	}
	return graph.RoleMember
}
