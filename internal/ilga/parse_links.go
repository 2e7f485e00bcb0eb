package ilga

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageLinks are the vote and witness-slip pages discovered on a bill status
// page. The vote/slip scraper walks these instead of guessing URL shapes.
type PageLinks struct {
	VoteURLs []string
	SlipURLs []string
}

// ParseBillPageLinks collects roll-call and witness-slip links from a bill
// status page.
func ParseBillPageLinks(html []byte, site Site) (*PageLinks, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}
	links := &PageLinks{}
	seen := map[string]bool{}

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		abs := site.Resolve(href)
		if seen[abs] {
			return
		}
		lower := strings.ToLower(href)
		switch {
		case strings.Contains(lower, "rollcall") || strings.Contains(lower, "votehistory"):
			seen[abs] = true
			links.VoteURLs = append(links.VoteURLs, abs)
		case strings.Contains(lower, "witnessslip") || strings.Contains(lower, "slipresults"):
			seen[abs] = true
			links.SlipURLs = append(links.SlipURLs, abs)
		}
	})
	return links, nil
}
