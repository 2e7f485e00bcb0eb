package graph

import (
	"fmt"
	"sort"
	"time"
)

// Graph is the fully hydrated in-memory view of the legislature. It is built
// once (at boot or at the end of a scrape) and treated as immutable while
// serving; resolvers read it lock-free.
type Graph struct {
	Members     []*Member
	MembersByID map[string]*Member
	Bills       map[string]*Bill
	Committees  map[string]*Committee
	VoteEvents  []*VoteEvent
	Slips       []*WitnessSlip

	billsByNumber map[string]*Bill
	memberBills   map[string][]*Bill
	memberPrimary map[string][]*Bill

	houseMatcher  *NameMatcher
	senateMatcher *NameMatcher

	BuiltAt time.Time
}

// BuildInput carries the raw cache collections into hydration.
type BuildInput struct {
	Members        []*Member
	Bills          map[string]*Bill
	Committees     []*Committee
	Rosters        map[string][]CommitteeMember
	CommitteeBills map[string][]string
	VoteEvents     []*VoteEvent
	Slips          []*WitnessSlip

	// DeadAfter is how long a non-terminal bill may idle before it is
	// displayed as Dead.
	DeadAfter time.Duration
	Now       time.Time
}

// Build hydrates the graph: bills become an identity map, member and
// committee bill references resolve to pointers, bill status and pipeline
// depth are derived, and vote-sheet names are reconciled to members.
func Build(in BuildInput) (*Graph, error) {
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	if in.DeadAfter == 0 {
		in.DeadAfter = 18 * 30 * 24 * time.Hour
	}

	g := &Graph{
		Members:       in.Members,
		MembersByID:   make(map[string]*Member, len(in.Members)),
		Bills:         in.Bills,
		Committees:    make(map[string]*Committee, len(in.Committees)),
		VoteEvents:    in.VoteEvents,
		Slips:         in.Slips,
		billsByNumber: make(map[string]*Bill, len(in.Bills)),
		memberBills:   make(map[string][]*Bill, len(in.Members)),
		memberPrimary: make(map[string][]*Bill, len(in.Members)),
		BuiltAt:       in.Now,
	}
	if g.Bills == nil {
		g.Bills = map[string]*Bill{}
	}

	// Derive status and depth before anything reads them.
	for _, b := range g.Bills {
		status, depth := DeriveStatus(b)
		b.Status = status
		b.PipelineDepth = depth
		b.Status = DisplayStatus(b, in.Now, in.DeadAfter)
		g.billsByNumber[b.BillNumber] = b
	}

	for _, m := range in.Members {
		if m.MemberID == "" {
			return nil, fmt.Errorf("graph: member %q has no ID", m.Name)
		}
		if _, dup := g.MembersByID[m.MemberID]; dup {
			return nil, fmt.Errorf("graph: duplicate member ID %s", m.MemberID)
		}
		g.MembersByID[m.MemberID] = m

		for _, legID := range m.BillIDs {
			if b, ok := g.Bills[legID]; ok {
				g.memberBills[m.MemberID] = append(g.memberBills[m.MemberID], b)
			}
		}
		for _, legID := range m.PrimaryBillIDs {
			if b, ok := g.Bills[legID]; ok {
				g.memberPrimary[m.MemberID] = append(g.memberPrimary[m.MemberID], b)
			}
		}
	}

	for _, c := range in.Committees {
		if roster, ok := in.Rosters[c.Code]; ok {
			c.Members = roster
		}
		if billIDs, ok := in.CommitteeBills[c.Code]; ok {
			c.BillIDs = billIDs
		}
		g.Committees[c.Code] = c
	}
	// Subcommittee parents must exist.
	for _, c := range g.Committees {
		if c.ParentCode != "" {
			if _, ok := g.Committees[c.ParentCode]; !ok {
				c.ParentCode = ""
			}
		}
	}

	g.houseMatcher = NewNameMatcher(g.ChamberMembers(ChamberHouse))
	g.senateMatcher = NewNameMatcher(g.ChamberMembers(ChamberSenate))

	g.reconcileVotes()
	return g, nil
}

// reconcileVotes sorts vote events by (date, kind) and resolves each
// reported name against the event's chamber. Unmatched names stay in the
// display lists but get no ID.
func (g *Graph) reconcileVotes() {
	sort.SliceStable(g.VoteEvents, func(i, j int) bool {
		a, b := g.VoteEvents[i], g.VoteEvents[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Kind < b.Kind
	})
	for _, ev := range g.VoteEvents {
		matcher := g.matcherFor(ev.Chamber)
		ev.YeaIDs = resolveAll(matcher, ev.Yea)
		ev.NayIDs = resolveAll(matcher, ev.Nay)
		ev.PresentIDs = resolveAll(matcher, ev.Present)
		ev.NVIDs = resolveAll(matcher, ev.NV)
	}
}

func resolveAll(m *NameMatcher, names []string) []string {
	var ids []string
	for _, n := range names {
		if mem, ok := m.Resolve(n); ok {
			ids = append(ids, mem.MemberID)
		}
	}
	return ids
}

func (g *Graph) matcherFor(ch Chamber) *NameMatcher {
	if ch == ChamberSenate {
		return g.senateMatcher
	}
	return g.houseMatcher
}

// ChamberMembers returns every member of one chamber.
func (g *Graph) ChamberMembers(ch Chamber) []*Member {
	var out []*Member
	for _, m := range g.Members {
		if m.Chamber == ch {
			out = append(out, m)
		}
	}
	return out
}

// BillsOf returns every bill the member sponsors or co-sponsors.
func (g *Graph) BillsOf(memberID string) []*Bill { return g.memberBills[memberID] }

// PrimaryBillsOf returns the bills where the member is primary sponsor.
func (g *Graph) PrimaryBillsOf(memberID string) []*Bill { return g.memberPrimary[memberID] }

// BillByNumber looks a bill up by its display number (case-insensitive via
// normalized storage; callers pass forms like "SB0145").
func (g *Graph) BillByNumber(number string) (*Bill, bool) {
	b, ok := g.billsByNumber[NormalizeBillNumber(number)]
	return b, ok
}

// MemberByName resolves a display name to a member, trying both chambers.
func (g *Graph) MemberByName(name string) (*Member, bool) {
	if m, ok := g.senateMatcher.Resolve(name); ok {
		return m, true
	}
	if m, ok := g.houseMatcher.Resolve(name); ok {
		return m, true
	}
	// Fall back to an exact folded full-name comparison.
	folded := FoldName(name)
	for _, m := range g.Members {
		if FoldName(m.Name) == folded {
			return m, true
		}
	}
	return nil, false
}

// ResolveVoter resolves one reported vote-sheet name within a chamber.
func (g *Graph) ResolveVoter(name string, ch Chamber) (*Member, bool) {
	return g.matcherFor(ch).Resolve(name)
}

// MemberDistrict finds the member holding a district seat in a chamber.
func (g *Graph) MemberDistrict(ch Chamber, district int) (*Member, bool) {
	for _, m := range g.Members {
		if m.Chamber == ch && m.District == district {
			return m, true
		}
	}
	return nil, false
}

// CommitteeMembersOf returns resolved (member, role) pairs for a committee.
func (g *Graph) CommitteeMembersOf(code string) []ResolvedCommitteeMember {
	c, ok := g.Committees[code]
	if !ok {
		return nil
	}
	out := make([]ResolvedCommitteeMember, 0, len(c.Members))
	for _, cm := range c.Members {
		if m, ok := g.MembersByID[cm.MemberID]; ok {
			out = append(out, ResolvedCommitteeMember{Member: m, Role: cm.Role})
		}
	}
	return out
}

// ResolvedCommitteeMember pairs a hydrated member with a roster role.
type ResolvedCommitteeMember struct {
	Member *Member
	Role   CommitteeRole
}

// VotesForBill returns the (already sorted) vote events for one bill number.
func (g *Graph) VotesForBill(billNumber string) []*VoteEvent {
	number := NormalizeBillNumber(billNumber)
	var out []*VoteEvent
	for _, ev := range g.VoteEvents {
		if ev.BillNumber == number {
			out = append(out, ev)
		}
	}
	return out
}

// SlipsForBill returns witness slips filed against one bill number.
func (g *Graph) SlipsForBill(billNumber string) []*WitnessSlip {
	number := NormalizeBillNumber(billNumber)
	var out []*WitnessSlip
	for _, s := range g.Slips {
		if s.BillNumber == number {
			out = append(out, s)
		}
	}
	return out
}
