package ilga

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// MemberRef is one row of a chamber roster page.
type MemberRef struct {
	Name      string
	DetailURL string
	Chamber   graph.Chamber
}

// ParseMemberIndex extracts member detail links from a roster page. Rows
// without a detail link (vacant seats, heading rows) are skipped.
func ParseMemberIndex(html []byte, site Site, ch graph.Chamber) ([]MemberRef, []Warning, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, nil, err
	}

	var refs []MemberRef
	var warnings []Warning
	seen := map[string]bool{}

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || MemberIDFromURL(href) == "" {
			return
		}
		name := cleanText(a.Text())
		if name == "" {
			warnings = warn(warnings, "member_index", "link %s has no name text", href)
			return
		}
		abs := site.Resolve(href)
		if seen[abs] {
			return
		}
		seen[abs] = true
		refs = append(refs, MemberRef{Name: name, DetailURL: abs, Chamber: ch})
	})

	if len(refs) == 0 {
		return nil, warnings, ErrPageStructure
	}
	return refs, warnings, nil
}

var (
	districtRe = regexp.MustCompile(`(?i)\b(?:district)\s*:?\s*(\d{1,3})\b`)
	partyTagRe = regexp.MustCompile(`\(([DRI])\)`)
	careerRe   = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present)\s*\((House|Senate)\)`)
	phoneRe    = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
)

// ParseMemberDetail extracts a partial member record from a detail page.
// The member ID comes from the source URL; bill references are filled in
// later by the bill scrape.
func ParseMemberDetail(html []byte, sourceURL string, ch graph.Chamber) (*graph.Member, []Warning, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, nil, err
	}
	var warnings []Warning

	m := &graph.Member{
		MemberID:  MemberIDFromURL(sourceURL),
		Chamber:   ch,
		DetailURL: sourceURL,
	}
	if m.MemberID == "" {
		return nil, warnings, ErrPageStructure
	}

	heading := cleanText(doc.Find("h1").First().Text())
	if heading == "" {
		heading = cleanText(doc.Find("h2").First().Text())
	}
	if heading == "" {
		return nil, warnings, ErrPageStructure
	}
	m.Name, m.Party = splitHeading(heading)

	text := cleanText(doc.Text())

	if m.Party == "" {
		m.Party = partyFromLabel(text)
		if m.Party == "" {
			warnings = warn(warnings, "member_detail", "no party found for %s", m.Name)
			m.Party = graph.PartyOther
		}
	}

	if dm := districtRe.FindStringSubmatch(text); dm != nil {
		if n, err := strconv.Atoi(dm[1]); err == nil && n >= 1 {
			m.District = n
		}
	}
	if m.District == 0 {
		warnings = warn(warnings, "member_detail", "no district found for %s", m.Name)
	}

	m.Role = findRoleTitle(doc)
	if m.Role != "" {
		m.Roles = append(m.Roles, m.Role)
	}

	m.CareerRanges = parseCareerRanges(text)
	m.Offices = parseOffices(doc)

	return m, warnings, nil
}

// splitHeading separates "Sara Feigenholtz (D)" into name and party.
func splitHeading(heading string) (string, graph.Party) {
	party := graph.Party("")
	if tag := partyTagRe.FindStringSubmatch(heading); tag != nil {
		switch tag[1] {
		case "D":
			party = graph.PartyDemocrat
		case "R":
			party = graph.PartyRepublican
		default:
			party = graph.PartyOther
		}
		heading = strings.TrimSpace(partyTagRe.ReplaceAllString(heading, ""))
	}
	for _, prefix := range []string{"Senator", "Representative", "Sen.", "Rep."} {
		heading = strings.TrimSpace(strings.TrimPrefix(heading, prefix))
	}
	return heading, party
}

func partyFromLabel(text string) graph.Party {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "party: democrat"), strings.Contains(lower, "democratic party"):
		return graph.PartyDemocrat
	case strings.Contains(lower, "party: republican"), strings.Contains(lower, "republican party"):
		return graph.PartyRepublican
	}
	return ""
}

// leadership titles that appear as a subheading on the detail page.
var roleTitles = []string{
	"Senate President", "Speaker of the House", "Majority Leader",
	"Minority Leader", "Assistant Majority Leader", "Assistant Minority Leader",
	"Majority Caucus Chair", "Minority Caucus Chair", "Majority Whip", "Minority Whip",
	"President Pro Tempore", "Deputy Majority Leader", "Deputy Minority Leader",
}

func findRoleTitle(doc *goquery.Document) string {
	var found string
	doc.Find("h2, h3, .role, .title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := cleanText(s.Text())
		for _, title := range roleTitles {
			if strings.EqualFold(t, title) {
				found = title
				return false
			}
		}
		return true
	})
	return found
}

// parseCareerRanges reads spans like "2013 - 2021 (House); 2021 - present
// (Senate)". An open end year means serving through the current session.
func parseCareerRanges(text string) []graph.CareerRange {
	var out []graph.CareerRange
	for _, m := range careerRe.FindAllStringSubmatch(text, -1) {
		start, _ := strconv.Atoi(m[1])
		end := 0
		if !strings.EqualFold(m[2], "present") {
			end, _ = strconv.Atoi(m[2])
		}
		ch := graph.ChamberHouse
		if strings.EqualFold(m[3], "senate") {
			ch = graph.ChamberSenate
		}
		if start > 1800 && (end == 0 || end >= start) {
			out = append(out, graph.CareerRange{StartYear: start, EndYear: end, Chamber: ch})
		}
	}
	return out
}

// CareerEndYear interprets an open range as the current calendar year,
// rounded up to the end of the two-year session.
func CareerEndYear(r graph.CareerRange, now time.Time) int {
	if r.EndYear != 0 {
		return r.EndYear
	}
	year := now.Year()
	if year%2 == 1 {
		year++ // sessions end in even years
	}
	return year
}

// parseOffices reads the Springfield/District office blocks.
func parseOffices(doc *goquery.Document) []graph.Office {
	var out []graph.Office
	doc.Find("div, td").Each(func(_ int, s *goquery.Selection) {
		// Only leaf-ish blocks; nested containers would duplicate offices.
		if s.Find("div, td").Length() > 0 {
			return
		}
		t := cleanText(s.Text())
		var kind graph.OfficeKind
		switch {
		case strings.HasPrefix(t, "Springfield Office"):
			kind = graph.OfficeSpringfield
		case strings.HasPrefix(t, "District Office"):
			kind = graph.OfficeDistrict
		default:
			return
		}
		body := cleanText(strings.TrimPrefix(strings.TrimPrefix(t, string(kind)+" Office"), ":"))
		office := graph.Office{Kind: kind, Address: body}
		phones := phoneRe.FindAllString(body, -1)
		if len(phones) > 0 {
			office.Phone = phones[0]
			office.Address = cleanText(strings.SplitN(body, phones[0], 2)[0])
		}
		if len(phones) > 1 {
			office.Fax = phones[1]
		}
		out = append(out, office)
	})
	return out
}
