package analytics

import (
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// CoSponsorshipDegrees computes degree centrality over the undirected
// co-sponsorship graph of one chamber. Two members share an edge when they
// appear together on the sponsor list of at least one substantive bill; the
// graph is restricted to members of the chamber under analysis.
func CoSponsorshipDegrees(g *graph.Graph, ch graph.Chamber) map[string]float64 {
	members := g.ChamberMembers(ch)
	inChamber := make(map[string]bool, len(members))
	for _, m := range members {
		inChamber[m.MemberID] = true
	}

	edges := map[string]map[string]bool{}
	addEdge := func(a, b string) {
		if edges[a] == nil {
			edges[a] = map[string]bool{}
		}
		edges[a][b] = true
	}

	for _, b := range g.Bills {
		if !b.IsSubstantive() {
			continue
		}
		var ids []string
		for _, id := range b.SponsorIDs {
			if inChamber[id] {
				ids = append(ids, id)
			}
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				addEdge(ids[i], ids[j])
				addEdge(ids[j], ids[i])
			}
		}
	}

	degrees := make(map[string]float64, len(members))
	denom := float64(len(members) - 1)
	for _, m := range members {
		if denom <= 0 {
			degrees[m.MemberID] = 0
			continue
		}
		degrees[m.MemberID] = float64(len(edges[m.MemberID])) / denom
	}
	return degrees
}
