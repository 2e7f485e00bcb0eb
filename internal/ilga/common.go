package ilga

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrPageStructure means a page's overall shape could not be interpreted.
// The containing scrape batch aborts; per-row problems are warnings instead.
var ErrPageStructure = errors.New("ilga: unrecognized page structure")

// Warning records a skipped row or field. Non-fatal; counted by scrapers.
type Warning struct {
	Source string
	Detail string
}

func (w Warning) String() string { return w.Source + ": " + w.Detail }

func warn(warnings []Warning, source, format string, args ...any) []Warning {
	return append(warnings, Warning{Source: source, Detail: fmt.Sprintf(format, args...)})
}

func newDoc(html []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageStructure, err)
	}
	return doc, nil
}

// cleanText collapses runs of whitespace (including &nbsp;) to single spaces.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// parseDate accepts the date spellings that appear across ILGA pages.
func parseDate(raw string) (time.Time, bool) {
	raw = cleanText(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseIndexDate parses the last-action date column of a bill index row.
func ParseIndexDate(raw string) (time.Time, bool) { return parseDate(raw) }

var billNumberRe = regexp.MustCompile(`\b((?:HB|SB|HR|SR|HJR|SJR|HJRCA|SJRCA)\s?\d{1,5})\b`)

// normalizeBillNumber canonicalizes a display number: uppercase prefix and
// the number zero-padded to four digits ("sb 145" -> "SB0145").
func normalizeBillNumber(raw string) string {
	m := billNumberRe.FindStringSubmatch(strings.ToUpper(cleanText(raw)))
	if m == nil {
		return ""
	}
	s := strings.ReplaceAll(m[1], " ", "")
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	prefix, digits := s[:i], s[i:]
	for len(digits) < 4 {
		digits = "0" + digits
	}
	return prefix + digits
}
