// Package vault renders the graph into a cross-linked Markdown vault:
// one note per member, bill, and committee with YAML frontmatter, suitable
// for opening directly in Obsidian.
package vault

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// Exporter writes the vault. BillLimit caps how many bills per member get
// linked sections (the busiest members sponsor hundreds).
type Exporter struct {
	Dir       string
	BillLimit int

	Graph      *graph.Graph
	Scorecards map[string]*graph.Scorecard
	Moneyball  map[string]*graph.MoneyballProfile
}

// Export renders every note and sweeps files left over from entities that
// no longer exist. Returns the number of files written.
func (e *Exporter) Export() (int, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return 0, fmt.Errorf("create vault dir: %w", err)
	}

	written := map[string]bool{}
	count := 0

	for _, m := range e.Graph.Members {
		name := noteFile(m.Name)
		if err := e.writeNote(name, e.memberNote(m)); err != nil {
			return count, err
		}
		written[name] = true
		count++
	}
	for _, c := range sortedCommittees(e.Graph) {
		name := noteFile(c.Name)
		if written[name] {
			continue
		}
		if err := e.writeNote(name, e.committeeNote(c)); err != nil {
			return count, err
		}
		written[name] = true
		count++
	}
	for _, b := range e.exportBills() {
		name := noteFile(b.BillNumber)
		if err := e.writeNote(name, e.billNote(b)); err != nil {
			return count, err
		}
		written[name] = true
		count++
	}

	swept, err := e.sweep(written)
	if err != nil {
		return count, err
	}
	if swept > 0 {
		log.Printf("[vault] swept %d stale notes", swept)
	}
	return count, nil
}

// sweep removes .md files that no current entity produced.
func (e *Exporter) sweep(written map[string]bool) (int, error) {
	entries, err := os.ReadDir(e.Dir)
	if err != nil {
		return 0, fmt.Errorf("read vault dir: %w", err)
	}
	swept := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		if written[entry.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(e.Dir, entry.Name())); err != nil {
			return swept, fmt.Errorf("sweep %s: %w", entry.Name(), err)
		}
		swept++
	}
	return swept, nil
}

func (e *Exporter) writeNote(name, body string) error {
	path := filepath.Join(e.Dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write note %s: %w", name, err)
	}
	return nil
}

// exportBills returns the bills to render, honoring BillLimit per member's
// primary list while always including every bill some note links to.
func (e *Exporter) exportBills() []*graph.Bill {
	include := map[string]*graph.Bill{}
	for _, m := range e.Graph.Members {
		primary := e.Graph.PrimaryBillsOf(m.MemberID)
		if e.BillLimit > 0 && len(primary) > e.BillLimit {
			primary = primary[:e.BillLimit]
		}
		for _, b := range primary {
			include[b.LegID] = b
		}
	}
	out := make([]*graph.Bill, 0, len(include))
	for _, b := range include {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BillNumber < out[j].BillNumber })
	return out
}

func (e *Exporter) memberNote(m *graph.Member) string {
	fm := map[string]interface{}{
		"type":     "member",
		"chamber":  string(m.Chamber),
		"party":    string(m.Party),
		"district": m.District,
		"tags":     []string{"legislator", strings.ToLower(string(m.Chamber))},
	}
	if m.Role != "" {
		fm["role"] = m.Role
	}
	if card, ok := e.Scorecards[m.MemberID]; ok {
		fm["bills_introduced"] = card.BillsIntroduced
		fm["laws_passed"] = card.LawsPassed
	}
	if p, ok := e.Moneyball[m.MemberID]; ok {
		fm["moneyball_score"] = round1(p.MoneyballScore)
		fm["chamber_rank"] = p.ChamberRank
	}

	var b strings.Builder
	writeFrontmatter(&b, fm)
	fmt.Fprintf(&b, "# %s\n\n", m.Name)
	fmt.Fprintf(&b, "%s member, %s, District %d.\n\n", m.Chamber, m.Party, m.District)

	if len(m.CommitteeCodes) > 0 {
		b.WriteString("## Committees\n\n")
		for _, code := range m.CommitteeCodes {
			if c, ok := e.Graph.Committees[code]; ok {
				fmt.Fprintf(&b, "- %s\n", wikiLink(c.Name))
			}
		}
		b.WriteString("\n")
	}

	primary := e.Graph.PrimaryBillsOf(m.MemberID)
	if e.BillLimit > 0 && len(primary) > e.BillLimit {
		primary = primary[:e.BillLimit]
	}
	if len(primary) > 0 {
		b.WriteString("## Primary sponsorships\n\n")
		for _, bill := range primary {
			fmt.Fprintf(&b, "- %s %s (%s)\n", wikiLink(bill.BillNumber), bill.Description, bill.Status)
		}
		b.WriteString("\n")
	}

	if len(m.SeatmateNames) > 0 {
		b.WriteString("## Seatmates\n\n")
		for _, name := range m.SeatmateNames {
			fmt.Fprintf(&b, "- %s\n", wikiLink(name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (e *Exporter) billNote(bill *graph.Bill) string {
	fm := map[string]interface{}{
		"type":           "bill",
		"leg_id":         bill.LegID,
		"chamber":        string(bill.Chamber),
		"kind":           string(bill.Kind),
		"status":         string(bill.Status),
		"pipeline_depth": bill.PipelineDepth,
		"tags":           []string{"bill", strings.ToLower(string(bill.Kind))},
	}
	if bill.LastActionDate != nil {
		fm["last_action_date"] = bill.LastActionDate.Format("2006-01-02")
	}

	var b strings.Builder
	writeFrontmatter(&b, fm)
	fmt.Fprintf(&b, "# %s\n\n", bill.BillNumber)
	if bill.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", bill.Description)
	}
	if bill.Synopsis != "" {
		fmt.Fprintf(&b, "> %s\n\n", bill.Synopsis)
	}

	if len(bill.SponsorIDs) > 0 {
		b.WriteString("## Sponsors\n\n")
		for i, id := range bill.SponsorIDs {
			if m, ok := e.Graph.MembersByID[id]; ok {
				label := ""
				if i == 0 {
					label = " (primary)"
				}
				fmt.Fprintf(&b, "- %s%s\n", wikiLink(m.Name), label)
			}
		}
		b.WriteString("\n")
	}

	if len(bill.Actions) > 0 {
		b.WriteString("## History\n\n")
		for _, a := range bill.Actions {
			fmt.Fprintf(&b, "- %s (%s): %s\n", a.Date.Format("2006-01-02"), a.Chamber, a.Action)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (e *Exporter) committeeNote(c *graph.Committee) string {
	fm := map[string]interface{}{
		"type":    "committee",
		"code":    c.Code,
		"chamber": string(c.Chamber),
		"tags":    []string{"committee"},
	}
	if c.ParentCode != "" {
		fm["parent_code"] = c.ParentCode
	}

	var b strings.Builder
	writeFrontmatter(&b, fm)
	fmt.Fprintf(&b, "# %s\n\n", c.Name)

	if members := e.Graph.CommitteeMembersOf(c.Code); len(members) > 0 {
		b.WriteString("## Roster\n\n")
		for _, rm := range members {
			if rm.Role != graph.RoleMember {
				fmt.Fprintf(&b, "- %s (%s)\n", wikiLink(rm.Member.Name), rm.Role)
				continue
			}
			fmt.Fprintf(&b, "- %s\n", wikiLink(rm.Member.Name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeFrontmatter(b *strings.Builder, fm map[string]interface{}) {
	b.WriteString("---\n")
	out, err := yaml.Marshal(fm)
	if err == nil {
		b.Write(out)
	}
	b.WriteString("---\n\n")
}

func wikiLink(name string) string { return "[[" + sanitize(name) + "]]" }

// noteFile maps an entity display name to its file name; characters that
// break file systems or wiki-links are replaced.
func noteFile(name string) string { return sanitize(name) + ".md" }

var fileSanitizer = strings.NewReplacer("/", "-", "\\", "-", ":", " -", "|", "-", "#", "", "^", "", "[", "(", "]", ")")

func sanitize(name string) string {
	return strings.TrimSpace(fileSanitizer.Replace(name))
}

func sortedCommittees(g *graph.Graph) []*graph.Committee {
	out := make([]*graph.Committee, 0, len(g.Committees))
	for _, c := range g.Committees {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func round1(f float64) float64 { return float64(int(f*10+0.5)) / 10 }
