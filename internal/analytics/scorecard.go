// Package analytics derives scorecards, Moneyball profiles and witness-slip
// rollups from the hydrated graph. Everything here is a pure computation;
// persistence and staleness live in the cache store.
package analytics

import (
	"regexp"
	"strings"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// shellPatternRe flags procedural placeholders by description text.
var shellPatternRe = regexp.MustCompile(`(?i)\b(technical|shell)\b`)

// shellDescriptionMax is the description length below which a bill is
// presumed to be a shell.
const shellDescriptionMax = 50

// IsShellBill reports whether a bill is a procedural placeholder. Shell
// bills stay out of success-rate denominators but are counted separately.
func IsShellBill(b *graph.Bill) bool {
	if len(b.Description) < shellDescriptionMax {
		return true
	}
	return shellPatternRe.MatchString(b.Description)
}

// ComputeScorecard builds one member's scorecard from their primary bills.
func ComputeScorecard(g *graph.Graph, m *graph.Member) *graph.Scorecard {
	card := &graph.Scorecard{MemberID: m.MemberID}

	var eligible []*graph.Bill
	for _, b := range g.PrimaryBillsOf(m.MemberID) {
		switch {
		case b.IsSubstantive():
			card.BillsIntroduced++
			if IsShellBill(b) {
				card.ShellBillCount++
				continue
			}
			eligible = append(eligible, b)
		case b.Kind == graph.KindResolution:
			card.ResolutionsFiled++
			if resolutionAdopted(b) {
				card.ResolutionsPassed++
			}
		}
	}

	if card.ResolutionsFiled > 0 {
		card.ResolutionPassRate = float64(card.ResolutionsPassed) / float64(card.ResolutionsFiled)
	}
	if len(eligible) == 0 {
		return card
	}

	coSponsors := 0
	bridged := 0
	depthSum := 0
	for _, b := range eligible {
		if b.Status == graph.StatusSigned {
			card.LawsPassed++
		}
		coSponsors += len(b.SponsorIDs) - 1
		if hasCrossPartyCoSponsor(g, m, b) {
			bridged++
		}
		depthSum += b.PipelineDepth
	}
	n := float64(len(eligible))
	card.LawSuccessRate = float64(card.LawsPassed) / n
	card.MagnetScore = float64(coSponsors) / n
	card.BridgeScore = float64(bridged) / n
	card.AvgPipelineDepth = float64(depthSum) / n
	return card
}

// ComputeScorecards builds scorecards for every member.
func ComputeScorecards(g *graph.Graph) map[string]*graph.Scorecard {
	cards := make(map[string]*graph.Scorecard, len(g.Members))
	for _, m := range g.Members {
		cards[m.MemberID] = ComputeScorecard(g, m)
	}
	return cards
}

// resolutionAdopted checks the action history for adoption language;
// resolutions never reach the governor so the bill status machine does not
// apply to them.
func resolutionAdopted(b *graph.Bill) bool {
	for _, a := range b.Actions {
		if containsFold(a.Action, "resolution adopted") || containsFold(a.Action, "adopted both houses") {
			return true
		}
	}
	return false
}

func hasCrossPartyCoSponsor(g *graph.Graph, primary *graph.Member, b *graph.Bill) bool {
	for _, id := range b.CoSponsorIDs() {
		if co, ok := g.MembersByID[id]; ok && co.Party != primary.Party {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
