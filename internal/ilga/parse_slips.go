package ilga

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// ParseWitnessSlips extracts witness slips from a hearing page. Each table
// row yields one slip; duplicates per (bill, filer, date, position) are
// collapsed.
func ParseWitnessSlips(html []byte, billNumber string, ch graph.Chamber) ([]graph.WitnessSlip, []Warning, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, nil, err
	}
	var warnings []Warning

	number := normalizeBillNumber(billNumber)
	if number == "" {
		number = normalizeBillNumber(cleanText(doc.Find("h1, h2, title").First().Text()))
	}
	if number == "" {
		return nil, warnings, ErrPageStructure
	}

	// Hearing date and committee come from the page header.
	headerText := cleanText(doc.Find("h1, h2, h3").Text())
	hearingDate, _ := findDate(headerText)
	committeeCode := ""
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if code := CommitteeCodeFromURL(href); code != "" {
			committeeCode = code
			return false
		}
		return true
	})

	var slips []graph.WitnessSlip
	seen := map[string]bool{}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		filer := cleanText(cells.Eq(0).Text())
		represents := cleanText(cells.Eq(1).Text())
		position, ok := parsePosition(cells.Eq(2).Text())
		if !ok {
			return // header row or malformed
		}
		if filer == "" {
			warnings = warn(warnings, "witness_slips", "slip row with no filer on %s", number)
			return
		}
		if represents == "" {
			represents = "self"
		}

		slip := graph.WitnessSlip{
			BillNumber:    number,
			Chamber:       ch,
			CommitteeCode: committeeCode,
			HearingDate:   hearingDate,
			FilerName:     filer,
			Represents:    represents,
			Position:      position,
		}
		if cells.Length() >= 4 {
			t := strings.ToLower(cleanText(cells.Eq(3).Text()))
			slip.WillTestify = t == "oral" || t == "yes" || t == "testify" || t == "y"
		}
		if seen[slip.Key()] {
			return
		}
		seen[slip.Key()] = true
		slips = append(slips, slip)
	})

	if len(slips) == 0 {
		return nil, warnings, ErrPageStructure
	}
	return slips, warnings, nil
}

func parsePosition(raw string) (graph.SlipPosition, bool) {
	switch strings.ToLower(cleanText(raw)) {
	case "proponent", "support":
		return graph.SlipProponent, true
	case "opponent", "oppose":
		return graph.SlipOpponent, true
	case "no position", "no position on the merits", "neutral":
		return graph.SlipNoPosition, true
	case "information", "informational":
		return graph.SlipInformation, true
	}
	return "", false
}
