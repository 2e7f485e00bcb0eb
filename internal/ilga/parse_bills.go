package ilga

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// IndexRow is one bill row of a paginated bill index page.
type IndexRow struct {
	BillNumber     string
	LegID          string
	StatusURL      string
	LastAction     string
	LastActionDate string // raw; parsed by the scraper's incremental check
}

// IndexPage is one page of the bill index plus the discovered next page.
type IndexPage struct {
	Rows    []IndexRow
	NextURL string // "" on the last page
}

// ParseBillIndexPage extracts bill rows and the next-page link. Pagination
// is discovered from links on the page; page counts are never hard-coded.
func ParseBillIndexPage(html []byte, site Site) (*IndexPage, []Warning, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, nil, err
	}

	page := &IndexPage{}
	var warnings []Warning
	seen := map[string]bool{}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		a := row.Find("a").First()
		href, _ := a.Attr("href")
		legID := LegIDFromURL(href)
		if legID == "" {
			return
		}
		number := normalizeBillNumber(a.Text())
		if number == "" {
			warnings = warn(warnings, "bill_index", "row for LegID %s has no bill number", legID)
			return
		}
		if seen[legID] {
			return
		}
		seen[legID] = true

		r := IndexRow{
			BillNumber: number,
			LegID:      legID,
			StatusURL:  site.Resolve(href),
		}
		cells := row.Find("td")
		if cells.Length() >= 3 {
			r.LastAction = cleanText(cells.Eq(cells.Length() - 2).Text())
			r.LastActionDate = cleanText(cells.Eq(cells.Length() - 1).Text())
		}
		// Some layouts put "date action" in one trailing cell.
		if r.LastActionDate == "" && cells.Length() >= 2 {
			tail := cleanText(cells.Eq(cells.Length() - 1).Text())
			if fields := strings.Fields(tail); len(fields) > 1 {
				if _, ok := parseDate(fields[0]); ok {
					r.LastActionDate = fields[0]
					r.LastAction = strings.Join(fields[1:], " ")
				}
			}
		}
		page.Rows = append(page.Rows, r)
	})

	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		t := strings.ToLower(cleanText(a.Text()))
		rel, _ := a.Attr("rel")
		if t == "next" || strings.HasPrefix(t, "next ") || rel == "next" {
			if href, ok := a.Attr("href"); ok {
				page.NextURL = site.Resolve(href)
				return false
			}
		}
		return true
	})

	if len(page.Rows) == 0 && page.NextURL == "" {
		return nil, warnings, ErrPageStructure
	}
	return page, warnings, nil
}

// BillDetail is a fully parsed bill status page. Sponsors are names at this
// layer; the scraper resolves them to member IDs against the cached roster.
type BillDetail struct {
	Bill graph.Bill
	// SponsorNames lists originating-chamber sponsors in filing order,
	// primary first.
	SponsorNames []string
	// CrossChamberSponsorNames lists sponsors picked up after crossover.
	CrossChamberSponsorNames []string
}

// ParseBillDetail extracts synopsis, ordered sponsor lists and the action
// history from a bill status page.
func ParseBillDetail(html []byte, sourceURL string) (*BillDetail, []Warning, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, nil, err
	}
	var warnings []Warning

	d := &BillDetail{}
	b := &d.Bill
	b.StatusURL = sourceURL
	b.LegID = LegIDFromURL(sourceURL)
	if b.LegID == "" {
		return nil, warnings, ErrPageStructure
	}

	heading := cleanText(doc.Find("h1, h2").First().Text())
	b.BillNumber = normalizeBillNumber(heading)
	if b.BillNumber == "" {
		b.BillNumber = normalizeBillNumber(cleanText(doc.Find("title").Text()))
	}
	if b.BillNumber == "" {
		return nil, warnings, ErrPageStructure
	}
	b.Chamber = graph.ChamberForBillNumber(b.BillNumber)
	b.Kind = graph.KindForBillNumber(b.BillNumber)

	// Short title: the heading text after the bill number.
	if i := strings.Index(strings.ToUpper(heading), b.BillNumber[:2]); i >= 0 {
		rest := heading
		if fields := strings.SplitN(heading, " ", 2); len(fields) == 2 && normalizeBillNumber(fields[0]) == b.BillNumber {
			rest = fields[1]
		}
		b.Description = cleanText(strings.TrimLeft(rest, "-–: "))
	}

	b.Synopsis = sectionText(doc, "Synopsis As Introduced")
	if b.Description == "" {
		b.Description = firstSentence(b.Synopsis)
	}

	d.SponsorNames = sponsorList(doc, chamberSponsorHeading(b.Chamber))
	d.CrossChamberSponsorNames = sponsorList(doc, chamberSponsorHeading(otherChamber(b.Chamber)))
	if len(d.SponsorNames) == 0 {
		warnings = warn(warnings, "bill_detail", "%s has no sponsors listed", b.BillNumber)
	} else {
		b.PrimarySponsor = d.SponsorNames[0]
	}

	b.Actions = parseActionTable(doc, &warnings)
	if n := len(b.Actions); n > 0 {
		last := b.Actions[n-1]
		b.LastAction = last.Action
		if !last.Date.IsZero() {
			t := last.Date
			b.LastActionDate = &t
		}
	}

	return d, warnings, nil
}

func chamberSponsorHeading(ch graph.Chamber) string {
	if ch == graph.ChamberSenate {
		return "Senate Sponsors"
	}
	return "House Sponsors"
}

func otherChamber(ch graph.Chamber) graph.Chamber {
	if ch == graph.ChamberSenate {
		return graph.ChamberHouse
	}
	return graph.ChamberSenate
}

// sectionText returns the text of the block following a heading whose text
// starts with the given label.
func sectionText(doc *goquery.Document, label string) string {
	var out string
	doc.Find("h3, h4, b, strong, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.HasPrefix(cleanText(s.Text()), label) {
			return true
		}
		// The body is either the heading's next sibling or the parent's.
		for _, sel := range []*goquery.Selection{s.Next(), s.Parent().Next()} {
			if t := cleanText(sel.Text()); t != "" {
				out = t
				return false
			}
		}
		return true
	})
	return out
}

// sponsorList reads the ordered sponsor names under a chamber heading.
func sponsorList(doc *goquery.Document, label string) []string {
	var names []string
	doc.Find("h3, h4, b, strong, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.HasPrefix(cleanText(s.Text()), label) {
			return true
		}
		container := s.Parent()
		links := container.Find("a")
		if links.Length() == 0 {
			links = container.Next().Find("a")
		}
		links.Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if MemberIDFromURL(href) == "" {
				return
			}
			if name := cleanText(a.Text()); name != "" {
				names = append(names, name)
			}
		})
		return false
	})
	return names
}

// parseActionTable reads (date, chamber, action) rows in page order, which
// ILGA reports chronologically.
func parseActionTable(doc *goquery.Document, warnings *[]Warning) []graph.ActionEntry {
	var actions []graph.ActionEntry
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		date, ok := parseDate(cells.Eq(0).Text())
		if !ok {
			return
		}
		chamberText := cleanText(cells.Eq(1).Text())
		action := cleanText(cells.Eq(2).Text())
		if action == "" {
			*warnings = warn(*warnings, "bill_detail", "empty action on %s", date.Format("2006-01-02"))
			return
		}
		ch := graph.ChamberHouse
		if strings.EqualFold(chamberText, "senate") {
			ch = graph.ChamberSenate
		}
		actions = append(actions, graph.ActionEntry{Date: date, Chamber: ch, Action: action})
	})
	return actions
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i > 0 && i < 200 {
		return s[:i+1]
	}
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
