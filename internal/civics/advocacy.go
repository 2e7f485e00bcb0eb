package civics

import (
	"fmt"
	"sort"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// CardType identifies the role a target plays in an advocacy plan.
type CardType string

const (
	CardYourSenator        CardType = "YourSenator"
	CardYourRepresentative CardType = "YourRepresentative"
	CardPowerBroker        CardType = "PowerBroker"
	CardPotentialAlly      CardType = "PotentialAlly"
	CardSuperAlly          CardType = "SuperAlly"
)

// Card is one advocacy target: the member, why they were chosen, and a
// role-specific contact script hint.
type Card struct {
	Type       CardType      `json:"type"`
	Member     *graph.Member `json:"member"`
	Why        string        `json:"why"`
	ScriptHint string        `json:"script_hint"`
	Badges     []string      `json:"badges,omitempty"`
}

// scriptHints is static per card type.
var scriptHints = map[CardType]string{
	CardYourSenator:        "Introduce yourself as a constituent, name the bill, and ask for the senator's position before you share yours.",
	CardYourRepresentative: "Say which neighborhood you live in, name the bill, and ask whether the representative will co-sponsor.",
	CardPowerBroker:        "Be brief and specific: ask for a committee hearing date or a commitment to call the bill.",
	CardPotentialAlly:      "Lead with shared ground: cite a bipartisan bill they sponsored and ask them to champion this one.",
	CardSuperAlly:          "This member can both move the bill and build the coalition: ask for a hearing and a public statement of support.",
}

// Selector chooses advocacy targets from the graph and its analytics.
type Selector struct {
	Graph     *graph.Graph
	Cards     map[string]*graph.Scorecard
	Profiles  map[string]*graph.MoneyballProfile
	Crosswalk *Crosswalk
}

// Select returns 2-4 target cards for a ZIP and an optional policy
// category: the constituent's own senator and representative, a Power
// Broker, and a Potential Ally. When broker and ally resolve to the same
// senator a single Super Ally card replaces both.
func (s *Selector) Select(zip, category string) ([]Card, error) {
	districts, err := s.Crosswalk.Lookup(zip)
	if err != nil {
		return nil, err
	}

	var cards []Card
	if senator, ok := s.Graph.MemberDistrict(graph.ChamberSenate, districts.Senate); ok {
		cards = append(cards, Card{
			Type:       CardYourSenator,
			Member:     senator,
			Why:        fmt.Sprintf("%s represents Senate district %d, which covers ZIP %s. Legislators weigh constituent contact far more heavily than outside mail, so this is your most direct line into the chamber.", senator.Name, districts.Senate, zip),
			ScriptHint: scriptHints[CardYourSenator],
		})
	}
	if rep, ok := s.Graph.MemberDistrict(graph.ChamberHouse, districts.House); ok {
		cards = append(cards, Card{
			Type:       CardYourRepresentative,
			Member:     rep,
			Why:        fmt.Sprintf("%s represents House district %d, your home district. House members answer to smaller districts, so a handful of calls is often enough to get a meeting.", rep.Name, districts.House),
			ScriptHint: scriptHints[CardYourRepresentative],
		})
	}

	broker, brokerWhy := s.powerBroker(category)
	ally, allyWhy := s.potentialAlly(category)

	if broker != nil && ally != nil && broker.MemberID == ally.MemberID {
		cards = append(cards, Card{
			Type:       CardSuperAlly,
			Member:     broker,
			Why:        brokerWhy + " " + allyWhy,
			ScriptHint: scriptHints[CardSuperAlly],
			Badges:     []string{"Power Broker", "Potential Ally"},
		})
		return cards, nil
	}
	if broker != nil {
		cards = append(cards, Card{Type: CardPowerBroker, Member: broker, Why: brokerWhy, ScriptHint: scriptHints[CardPowerBroker], Badges: []string{"Power Broker"}})
	}
	if ally != nil {
		cards = append(cards, Card{Type: CardPotentialAlly, Member: ally, Why: allyWhy, ScriptHint: scriptHints[CardPotentialAlly], Badges: []string{"Potential Ally"}})
	}
	return cards, nil
}

// candidateSenators returns senators on the category's committees, or every
// senator when the category is empty or filters everyone out. The fallback
// always broadens to the full chamber, so selection cannot come up empty in
// a populated graph.
func (s *Selector) candidateSenators(category string) []*graph.Member {
	senators := s.Graph.ChamberMembers(graph.ChamberSenate)
	codes := CommitteesForCategory(category)
	if len(codes) == 0 {
		return senators
	}
	onCommittee := map[string]bool{}
	for _, code := range codes {
		for _, rm := range s.Graph.CommitteeMembersOf(code) {
			onCommittee[rm.Member.MemberID] = true
		}
	}
	var out []*graph.Member
	for _, m := range senators {
		if onCommittee[m.MemberID] {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return senators
	}
	return out
}

// powerBroker picks the senator best positioned to move a bill: highest
// institutional weight first, Moneyball score as tie-breaker. When nobody
// in the candidate pool holds formal power, the highest Moneyball score
// wins outright.
func (s *Selector) powerBroker(category string) (*graph.Member, string) {
	candidates := s.candidateSenators(category)
	if len(candidates) == 0 {
		return nil, ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := s.profile(candidates[i]), s.profile(candidates[j])
		if pi.InstitutionalWeight != pj.InstitutionalWeight {
			return pi.InstitutionalWeight > pj.InstitutionalWeight
		}
		return pi.MoneyballScore > pj.MoneyballScore
	})
	pick := candidates[0]
	p := s.profile(pick)

	var why string
	switch {
	case p.InstitutionalWeight >= 0.50 && category != "":
		why = fmt.Sprintf("%s holds a leadership or chair role on a committee that hears %s bills: the gatekeeper who decides whether this bill gets a hearing.", pick.Name, category)
	case p.InstitutionalWeight >= 0.50:
		why = fmt.Sprintf("%s holds formal power in the Senate; nothing reaches the floor without going through members like this.", pick.Name)
	default:
		why = fmt.Sprintf("%s carries the highest influence score among the relevant senators (%.0f/100). No chair matched, but this member's bills consistently move.", pick.Name, p.MoneyballScore)
	}
	return pick, why
}

// potentialAlly picks the highest bridge-score senator in the candidate
// pool. When the broker is also the top bridge-builder the caller merges
// the two cards into a Super Ally rather than settling for a runner-up.
func (s *Selector) potentialAlly(category string) (*graph.Member, string) {
	candidates := s.candidateSenators(category)
	if len(candidates) == 0 {
		return nil, ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return s.bridge(candidates[i]) > s.bridge(candidates[j])
	})
	pick := candidates[0]
	why := fmt.Sprintf("%s attracts cross-party co-sponsors on %.0f%% of their bills, the kind of member who can bring the other side of the aisle along.", pick.Name, 100*s.bridge(pick))
	return pick, why
}

func (s *Selector) profile(m *graph.Member) *graph.MoneyballProfile {
	if p, ok := s.Profiles[m.MemberID]; ok {
		return p
	}
	return &graph.MoneyballProfile{MemberID: m.MemberID}
}

func (s *Selector) bridge(m *graph.Member) float64 {
	if c, ok := s.Cards[m.MemberID]; ok {
		return c.BridgeScore
	}
	return 0
}
