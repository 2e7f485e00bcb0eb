package analytics

import (
	"sort"
	"strings"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// Composite weights. They sum to 1.00; the score is the weighted sum of the
// six components scaled to 0-100.
const (
	weightEffectiveness = 0.24
	weightPipeline      = 0.16
	weightMagnet        = 0.16
	weightBridge        = 0.12
	weightCentrality    = 0.12
	weightInstitutional = 0.20
)

// InstitutionalWeight classifies a member's role list into a formal-power
// multiplier. Highest matching tier wins across roles. "Caucus Chair" is
// checked before the generic chair tier so it lands at 0.25, matching the
// published weight table.
func InstitutionalWeight(roles []string) float64 {
	weight := 0.0
	for _, role := range roles {
		if w := roleWeight(role); w > weight {
			weight = w
		}
	}
	return weight
}

func roleWeight(role string) float64 {
	r := strings.ToLower(role)
	switch {
	case strings.Contains(r, "president"), strings.Contains(r, "leader"), strings.Contains(r, "speaker"):
		return 1.00
	case strings.Contains(r, "caucus chair"), strings.Contains(r, "whip"):
		return 0.25
	case strings.Contains(r, "chair"), strings.Contains(r, "spokesperson"):
		return 0.50
	}
	return 0.0
}

// ComputeMoneyball builds the full set of Moneyball profiles. Performance
// components are taken per chamber: effectiveness, pipeline and bridge are
// natural [0,1] values already; magnet and centrality are min/max rescaled
// across the chamber cohort.
func ComputeMoneyball(g *graph.Graph, cards map[string]*graph.Scorecard) map[string]*graph.MoneyballProfile {
	profiles := make(map[string]*graph.MoneyballProfile, len(g.Members))

	for _, ch := range []graph.Chamber{graph.ChamberSenate, graph.ChamberHouse} {
		members := g.ChamberMembers(ch)
		if len(members) == 0 {
			continue
		}
		degrees := CoSponsorshipDegrees(g, ch)

		magnetRaw := make(map[string]float64, len(members))
		for _, m := range members {
			if card := cards[m.MemberID]; card != nil {
				magnetRaw[m.MemberID] = card.MagnetScore
			}
		}
		magnetScale := newScaler(values(magnetRaw))
		centralityScale := newScaler(values(degrees))

		for _, m := range members {
			card := cards[m.MemberID]
			if card == nil {
				card = &graph.Scorecard{MemberID: m.MemberID}
			}
			p := &graph.MoneyballProfile{
				MemberID:            m.MemberID,
				Effectiveness:       card.LawSuccessRate,
				Pipeline:            card.AvgPipelineDepth / float64(graph.DepthTerminal),
				Magnet:              magnetScale.scale(magnetRaw[m.MemberID]),
				Bridge:              card.BridgeScore,
				Centrality:          centralityScale.scale(degrees[m.MemberID]),
				InstitutionalWeight: InstitutionalWeight(m.Roles),
			}
			p.MoneyballScore = 100 * (weightEffectiveness*p.Effectiveness +
				weightPipeline*p.Pipeline +
				weightMagnet*p.Magnet +
				weightBridge*p.Bridge +
				weightCentrality*p.Centrality +
				weightInstitutional*p.InstitutionalWeight)
			profiles[m.MemberID] = p
		}
	}

	assignRanks(g, profiles)
	return profiles
}

// MVP returns the highest-scoring non-leadership member of a chamber.
func MVP(g *graph.Graph, profiles map[string]*graph.MoneyballProfile, ch graph.Chamber) (*graph.Member, *graph.MoneyballProfile) {
	var bestMember *graph.Member
	var best *graph.MoneyballProfile
	for _, m := range g.ChamberMembers(ch) {
		p := profiles[m.MemberID]
		if p == nil || p.IsLeadership() {
			continue
		}
		if best == nil || p.MoneyballScore > best.MoneyballScore {
			best, bestMember = p, m
		}
	}
	return bestMember, best
}

// assignRanks fills chamber, overall and non-leadership ranks (1-based).
func assignRanks(g *graph.Graph, profiles map[string]*graph.MoneyballProfile) {
	rank := func(ids []string, assign func(p *graph.MoneyballProfile, rank int)) {
		sort.SliceStable(ids, func(i, j int) bool {
			return profiles[ids[i]].MoneyballScore > profiles[ids[j]].MoneyballScore
		})
		for i, id := range ids {
			assign(profiles[id], i+1)
		}
	}

	var all []string
	for _, ch := range []graph.Chamber{graph.ChamberSenate, graph.ChamberHouse} {
		var chamberIDs, nonLeadership []string
		for _, m := range g.ChamberMembers(ch) {
			if profiles[m.MemberID] == nil {
				continue
			}
			chamberIDs = append(chamberIDs, m.MemberID)
			all = append(all, m.MemberID)
			if !profiles[m.MemberID].IsLeadership() {
				nonLeadership = append(nonLeadership, m.MemberID)
			}
		}
		rank(chamberIDs, func(p *graph.MoneyballProfile, r int) { p.ChamberRank = r })
		rank(nonLeadership, func(p *graph.MoneyballProfile, r int) { p.NonLeadershipRank = r })
	}
	rank(all, func(p *graph.MoneyballProfile, r int) { p.OverallRank = r })
}

// scaler rescales raw values linearly to [0,1] over an observed cohort.
// A flat cohort (max == min) scales to zero.
type scaler struct {
	min, max float64
}

func newScaler(vals []float64) scaler {
	if len(vals) == 0 {
		return scaler{}
	}
	s := scaler{min: vals[0], max: vals[0]}
	for _, v := range vals[1:] {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	return s
}

func (s scaler) scale(v float64) float64 {
	if s.max <= s.min {
		return 0
	}
	return (v - s.min) / (s.max - s.min)
}

func values(m map[string]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
