package ilga

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// voteMarks maps a tally cell to the list it belongs in.
var voteMarks = map[string]string{
	"Y": "yea", "YEA": "yea", "YES": "yea",
	"N": "nay", "NAY": "nay", "NO": "nay",
	"P": "present", "PRESENT": "present",
	"NV": "nv", "E": "nv", "A": "nv", "EXCUSED": "nv",
}

// ParseVoteEvent extracts one roll call from a vote page: motion text,
// classification and the four vote lists. The voting chamber is read from
// the sheet heading when present; ch is only a fallback, since a bill's
// roll calls come from both chambers once it crosses over. Name spellings
// are preserved as reported; reconciliation to members happens in the
// graph builder.
func ParseVoteEvent(html []byte, billNumber string, ch graph.Chamber) (*graph.VoteEvent, []Warning, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, nil, err
	}
	var warnings []Warning

	ev := &graph.VoteEvent{
		BillNumber: normalizeBillNumber(billNumber),
		Chamber:    ch,
	}
	if detected := detectChamber(doc); detected != "" {
		ev.Chamber = detected
	}
	if ev.BillNumber == "" {
		ev.BillNumber = normalizeBillNumber(cleanText(doc.Find("h1, h2, title").First().Text()))
	}
	if ev.BillNumber == "" {
		return nil, warnings, ErrPageStructure
	}

	ev.Motion = sectionText(doc, "Motion")
	if ev.Motion == "" {
		// Fall back to the subheading, where most vote sheets carry it.
		ev.Motion = cleanText(doc.Find("h3").First().Text())
	}
	ev.Kind = classifyMotion(ev.Motion)

	text := cleanText(doc.Text())
	if d, ok := findDate(text); ok {
		ev.Date = d
	} else {
		warnings = warn(warnings, "vote_event", "no date found for %s", ev.BillNumber)
	}

	// Vote sheets lay names out as repeating (mark, name) cell pairs.
	assigned := map[string]bool{}
	doc.Find("td").Each(func(_ int, cell *goquery.Selection) {
		mark := strings.ToUpper(cleanText(cell.Text()))
		list, ok := voteMarks[mark]
		if !ok {
			return
		}
		name := cleanText(cell.Next().Text())
		if name == "" || normalizeBillNumber(name) != "" {
			return
		}
		if assigned[name] {
			warnings = warn(warnings, "vote_event", "%s listed twice on %s", name, ev.BillNumber)
			return
		}
		assigned[name] = true
		switch list {
		case "yea":
			ev.Yea = append(ev.Yea, name)
		case "nay":
			ev.Nay = append(ev.Nay, name)
		case "present":
			ev.Present = append(ev.Present, name)
		case "nv":
			ev.NV = append(ev.NV, name)
		}
	})

	if len(ev.Yea)+len(ev.Nay)+len(ev.Present)+len(ev.NV) == 0 {
		return nil, warnings, ErrPageStructure
	}
	return ev, warnings, nil
}

// detectChamber reads the voting chamber off the sheet itself. Checking
// "house" phrasings first matters: a House sheet for a Senate bill still
// mentions the word Senate in the bill title.
func detectChamber(doc *goquery.Document) graph.Chamber {
	var found graph.Chamber
	doc.Find("h1, h2, h3, title, p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		t := strings.ToLower(cleanText(sel.Text()))
		switch {
		case strings.Contains(t, "house of representatives"),
			strings.Contains(t, "house vote"),
			strings.Contains(t, "house roll call"):
			found = graph.ChamberHouse
		case strings.Contains(t, "illinois senate"),
			strings.Contains(t, "senate vote"),
			strings.Contains(t, "senate roll call"):
			found = graph.ChamberSenate
		}
		return found == ""
	})
	return found
}

// classifyMotion maps motion text to a vote kind.
func classifyMotion(motion string) graph.VoteKind {
	m := strings.ToLower(motion)
	switch {
	case strings.Contains(m, "third reading"):
		return graph.VoteThirdReading
	case strings.Contains(m, "concur"):
		return graph.VoteConcurrence
	case strings.Contains(m, "override"):
		return graph.VoteOverride
	case strings.Contains(m, "do pass"), strings.Contains(m, "committee"):
		return graph.VoteCommittee
	}
	return graph.VoteOther
}

// findDate scans free text for the first parseable date.
func findDate(text string) (t time.Time, ok bool) {
	for _, f := range strings.Fields(text) {
		if d, ok := parseDate(strings.Trim(f, ",;")); ok {
			return d, true
		}
	}
	return t, false
}
