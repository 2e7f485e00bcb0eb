// Package ilga turns ILGA HTML pages into typed records. Every parser is a
// pure function over bytes: no network, no disk. Page structure drifts, so
// parsers prefer tolerant row scans over brittle positional indexing and
// report per-row problems as warnings instead of failing the page.
package ilga

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// Site describes the upstream General Assembly session being scraped.
type Site struct {
	BaseURL   string
	GAID      int
	SessionID int
}

// MemberIndexURL is the roster page for one chamber.
func (s Site) MemberIndexURL(ch graph.Chamber) string {
	if ch == graph.ChamberSenate {
		return fmt.Sprintf("%s/senate/default.asp?GA=%d", s.BaseURL, s.GAID)
	}
	return fmt.Sprintf("%s/house/default.asp?GA=%d", s.BaseURL, s.GAID)
}

// CommitteeIndexURL lists committees for one chamber.
func (s Site) CommitteeIndexURL(ch graph.Chamber) string {
	chamber := "house"
	if ch == graph.ChamberSenate {
		chamber = "senate"
	}
	return fmt.Sprintf("%s/%s/committees/default.asp?GA=%d", s.BaseURL, chamber, s.GAID)
}

// BillIndexURL is the first page of the numbered bill range listing for a
// document type ("SB", "HB", ...). Later pages are discovered from links,
// never constructed.
func (s Site) BillIndexURL(docType string) string {
	return fmt.Sprintf("%s/legislation/grplist.asp?num1=1&num2=1000&DocTypeID=%s&GAID=%d&SessionID=%d",
		s.BaseURL, docType, s.GAID, s.SessionID)
}

// Resolve makes a possibly relative href absolute against the site base.
func (s Site) Resolve(href string) string {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// LegIDFromURL extracts ILGA's stable bill key from a status URL.
// Returns "" when the URL carries no LegID parameter.
func LegIDFromURL(rawURL string) string {
	return queryParam(rawURL, "LegID")
}

// MemberIDFromURL extracts the MemberID query parameter.
func MemberIDFromURL(rawURL string) string {
	return queryParam(rawURL, "MemberID")
}

// CommitteeCodeFromURL extracts the committee code from a roster URL.
func CommitteeCodeFromURL(rawURL string) string {
	if code := queryParam(rawURL, "CommitteeID"); code != "" {
		return code
	}
	return queryParam(rawURL, "Code")
}

func queryParam(rawURL, key string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for k, vs := range u.Query() {
		if strings.EqualFold(k, key) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}
