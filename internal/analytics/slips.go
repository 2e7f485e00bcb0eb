package analytics

import (
	"sort"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// SlipSummary is the positional tally of witness slips on one bill.
type SlipSummary struct {
	BillNumber  string `json:"bill_number"`
	Proponents  int    `json:"proponents"`
	Opponents   int    `json:"opponents"`
	NoPosition  int    `json:"no_position"`
	Information int    `json:"information"`
	Total       int    `json:"total"`
	WillTestify int    `json:"will_testify"`
}

// SummarizeSlips tallies the slips filed on one bill.
func SummarizeSlips(g *graph.Graph, billNumber string) SlipSummary {
	summary := SlipSummary{BillNumber: billNumber}
	for _, s := range g.SlipsForBill(billNumber) {
		summary.Total++
		if s.WillTestify {
			summary.WillTestify++
		}
		switch s.Position {
		case graph.SlipProponent:
			summary.Proponents++
		case graph.SlipOpponent:
			summary.Opponents++
		case graph.SlipNoPosition:
			summary.NoPosition++
		case graph.SlipInformation:
			summary.Information++
		}
	}
	return summary
}

// SummarizeAllSlips returns one summary per bill that has slips, ordered by
// total filings descending.
func SummarizeAllSlips(g *graph.Graph) []SlipSummary {
	byBill := map[string]bool{}
	var out []SlipSummary
	for _, s := range g.Slips {
		if byBill[s.BillNumber] {
			continue
		}
		byBill[s.BillNumber] = true
		out = append(out, SummarizeSlips(g, s.BillNumber))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].BillNumber < out[j].BillNumber
	})
	return out
}

// OrgCount is one organization's filing count on a bill.
type OrgCount struct {
	Organization string             `json:"organization"`
	Count        int                `json:"count"`
	Position     graph.SlipPosition `json:"position"`
}

// BillSlipAnalytics combines the tally with opposition ratio and the most
// active filing organizations.
type BillSlipAnalytics struct {
	Summary      SlipSummary `json:"summary"`
	SupportRatio float64     `json:"support_ratio"` // proponents / (proponents + opponents)
	Contested    bool        `json:"contested"`     // both sides filed
	TopOrgs      []OrgCount  `json:"top_orgs"`
}

// AnalyzeBillSlips builds slip analytics for one bill.
func AnalyzeBillSlips(g *graph.Graph, billNumber string) BillSlipAnalytics {
	a := BillSlipAnalytics{Summary: SummarizeSlips(g, billNumber)}
	taking := a.Summary.Proponents + a.Summary.Opponents
	if taking > 0 {
		a.SupportRatio = float64(a.Summary.Proponents) / float64(taking)
	}
	a.Contested = a.Summary.Proponents > 0 && a.Summary.Opponents > 0

	type orgKey struct {
		org string
		pos graph.SlipPosition
	}
	counts := map[orgKey]int{}
	for _, s := range g.SlipsForBill(billNumber) {
		if s.Represents == "" || s.Represents == "self" {
			continue
		}
		counts[orgKey{s.Represents, s.Position}]++
	}
	for k, n := range counts {
		a.TopOrgs = append(a.TopOrgs, OrgCount{Organization: k.org, Count: n, Position: k.pos})
	}
	sort.SliceStable(a.TopOrgs, func(i, j int) bool {
		if a.TopOrgs[i].Count != a.TopOrgs[j].Count {
			return a.TopOrgs[i].Count > a.TopOrgs[j].Count
		}
		return a.TopOrgs[i].Organization < a.TopOrgs[j].Organization
	})
	if len(a.TopOrgs) > 10 {
		a.TopOrgs = a.TopOrgs[:10]
	}
	return a
}

// SlipAlignment measures how often a member's floor votes agree with the
// majority position of the public slips filed on the same bill.
type SlipAlignment struct {
	MemberID      string  `json:"member_id"`
	BillsCompared int     `json:"bills_compared"`
	Aligned       int     `json:"aligned"`
	AlignmentRate float64 `json:"alignment_rate"`
}

// MemberSlipAlignment compares a member's third-reading votes against slip
// majorities. Bills with no slips or a tied slip count are excluded.
func MemberSlipAlignment(g *graph.Graph, m *graph.Member) SlipAlignment {
	out := SlipAlignment{MemberID: m.MemberID}
	for _, ev := range g.VoteEvents {
		if ev.Kind != graph.VoteThirdReading {
			continue
		}
		summary := SummarizeSlips(g, ev.BillNumber)
		if summary.Proponents == summary.Opponents {
			continue // no slips or tied
		}
		votedYea := containsID(ev.YeaIDs, m.MemberID)
		votedNay := containsID(ev.NayIDs, m.MemberID)
		if !votedYea && !votedNay {
			continue
		}
		out.BillsCompared++
		slipsSupport := summary.Proponents > summary.Opponents
		if (slipsSupport && votedYea) || (!slipsSupport && votedNay) {
			out.Aligned++
		}
	}
	if out.BillsCompared > 0 {
		out.AlignmentRate = float64(out.Aligned) / float64(out.BillsCompared)
	}
	return out
}

// AdvancementSummary is the pipeline funnel over all substantive bills.
type AdvancementSummary struct {
	TotalBills           int            `json:"total_bills"`
	ByStatus             map[string]int `json:"by_status"`
	ByDepth              map[int]int    `json:"by_depth"`
	AvgDepth             float64        `json:"avg_depth"`
	SignedRate           float64        `json:"signed_rate"`
	AvgDepthWithSlips    float64        `json:"avg_depth_with_slips"`
	AvgDepthWithoutSlips float64        `json:"avg_depth_without_slips"`
}

// SummarizeAdvancement computes the funnel: how far substantive bills get,
// and whether public slip activity tracks with advancement.
func SummarizeAdvancement(g *graph.Graph) AdvancementSummary {
	out := AdvancementSummary{ByStatus: map[string]int{}, ByDepth: map[int]int{}}
	slipped := map[string]bool{}
	for _, s := range g.Slips {
		slipped[s.BillNumber] = true
	}

	depthSum, signed := 0, 0
	slipDepthSum, slipCount := 0, 0
	dryDepthSum, dryCount := 0, 0
	for _, b := range g.Bills {
		if !b.IsSubstantive() {
			continue
		}
		out.TotalBills++
		out.ByStatus[string(b.Status)]++
		out.ByDepth[b.PipelineDepth]++
		depthSum += b.PipelineDepth
		if b.Status == graph.StatusSigned {
			signed++
		}
		if slipped[b.BillNumber] {
			slipDepthSum += b.PipelineDepth
			slipCount++
		} else {
			dryDepthSum += b.PipelineDepth
			dryCount++
		}
	}
	if out.TotalBills > 0 {
		out.AvgDepth = float64(depthSum) / float64(out.TotalBills)
		out.SignedRate = float64(signed) / float64(out.TotalBills)
	}
	if slipCount > 0 {
		out.AvgDepthWithSlips = float64(slipDepthSum) / float64(slipCount)
	}
	if dryCount > 0 {
		out.AvgDepthWithoutSlips = float64(dryDepthSum) / float64(dryCount)
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
