package gql

import (
	"context"
	"sort"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/analytics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/app"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// Root resolves the Query type. It reads only through the application's
// snapshot accessors so an ETL swap mid-request cannot tear a response.
type Root struct {
	app *app.Application
}

// NewRoot builds the root resolver.
func NewRoot(a *app.Application) *Root { return &Root{app: a} }

func (r *Root) memberList(ctx context.Context, ids []string) []*memberResolver {
	loaded := LoadersFrom(ctx).Members.LoadMany(ids)
	out := make([]*memberResolver, 0, len(ids))
	for _, id := range ids {
		if m, ok := loaded[id]; ok {
			out = append(out, &memberResolver{root: r, m: m})
		}
	}
	return out
}

func (r *Root) voteList(events []*graph.VoteEvent) []*voteEventResolver {
	out := make([]*voteEventResolver, 0, len(events))
	for _, ev := range events {
		out = append(out, &voteEventResolver{root: r, ev: ev})
	}
	return out
}

func strOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

func descending(order *string) bool { return strOr(order, "ASC") == "DESC" }

// Member looks a member up by display name, tolerating last-name-only and
// diacritic variants.
func (r *Root) Member(args struct{ Name string }) *memberResolver {
	g := r.app.Graph()
	if g == nil {
		return nil
	}
	m, ok := g.MemberByName(args.Name)
	if !ok {
		return nil
	}
	return &memberResolver{root: r, m: m}
}

type membersArgs struct {
	SortBy    *string
	SortOrder *string
	Chamber   *string
	Limit     *int32
	Offset    *int32
}

func (r *Root) Members(ctx context.Context, args membersArgs) *memberConnectionResolver {
	g := r.app.Graph()
	if g == nil {
		return &memberConnectionResolver{items: []*memberResolver{}, info: &pageInfoResolver{}}
	}

	var members []*graph.Member
	if ch := strOr(args.Chamber, ""); ch != "" {
		members = g.ChamberMembers(graph.Chamber(ch))
	} else {
		members = append(members, g.Members...)
	}

	cards := r.app.Scorecards()
	profiles := r.app.Moneyball()
	field := strOr(args.SortBy, "NAME")
	desc := descending(args.SortOrder)

	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		var less bool
		switch field {
		case "DISTRICT":
			less = a.District < b.District
		case "CHAMBER":
			less = a.Chamber < b.Chamber
		case "PARTY":
			less = a.Party < b.Party
		case "BILLS_INTRODUCED":
			less = cardOf(cards, a).BillsIntroduced < cardOf(cards, b).BillsIntroduced
		case "MONEYBALL_SCORE":
			less = profileOf(profiles, a).MoneyballScore < profileOf(profiles, b).MoneyballScore
		default:
			less = a.Name < b.Name
		}
		if desc {
			return !less && !equalForSort(a, b, field, cards, profiles)
		}
		return less
	})

	page, info := paginate(members, args.Limit, args.Offset)
	warmMemberLoaders(ctx, page)
	items := make([]*memberResolver, 0, len(page))
	for _, m := range page {
		items = append(items, &memberResolver{root: r, m: m})
	}
	return &memberConnectionResolver{items: items, info: info}
}

// warmMemberLoaders primes a page of members through the request's
// scorecard and moneyball loaders: one batch call each per page, so the
// per-member field resolvers hit the memo.
func warmMemberLoaders(ctx context.Context, page []*graph.Member) {
	ids := make([]string, 0, len(page))
	for _, m := range page {
		ids = append(ids, m.MemberID)
	}
	loaders := LoadersFrom(ctx)
	loaders.Scorecards.LoadMany(ids)
	loaders.Moneyball.LoadMany(ids)
}

func equalForSort(a, b *graph.Member, field string, cards map[string]*graph.Scorecard, profiles map[string]*graph.MoneyballProfile) bool {
	switch field {
	case "DISTRICT":
		return a.District == b.District
	case "CHAMBER":
		return a.Chamber == b.Chamber
	case "PARTY":
		return a.Party == b.Party
	case "BILLS_INTRODUCED":
		return cardOf(cards, a).BillsIntroduced == cardOf(cards, b).BillsIntroduced
	case "MONEYBALL_SCORE":
		return profileOf(profiles, a).MoneyballScore == profileOf(profiles, b).MoneyballScore
	default:
		return a.Name == b.Name
	}
}

func cardOf(cards map[string]*graph.Scorecard, m *graph.Member) *graph.Scorecard {
	if c, ok := cards[m.MemberID]; ok {
		return c
	}
	return &graph.Scorecard{MemberID: m.MemberID}
}

func profileOf(profiles map[string]*graph.MoneyballProfile, m *graph.Member) *graph.MoneyballProfile {
	if p, ok := profiles[m.MemberID]; ok {
		return p
	}
	return &graph.MoneyballProfile{MemberID: m.MemberID}
}

type leaderboardArgs struct {
	Chamber           *string
	ExcludeLeadership *bool
	Limit             *int32
	Offset            *int32
	SortBy            *string
	SortOrder         *string
}

func (r *Root) MoneyballLeaderboard(ctx context.Context, args leaderboardArgs) *leaderboardConnectionResolver {
	g := r.app.Graph()
	profiles := r.app.Moneyball()
	if g == nil || profiles == nil {
		return &leaderboardConnectionResolver{items: []*leaderboardEntryResolver{}, info: &pageInfoResolver{}}
	}

	ch := strOr(args.Chamber, "")
	excl := args.ExcludeLeadership != nil && *args.ExcludeLeadership

	type scored struct {
		m *graph.Member
		p *graph.MoneyballProfile
	}
	var rows []scored
	for _, m := range g.Members {
		if ch != "" && string(m.Chamber) != ch {
			continue
		}
		p, ok := profiles[m.MemberID]
		if !ok {
			continue
		}
		if excl && p.IsLeadership() {
			continue
		}
		rows = append(rows, scored{m, p})
	}

	field := strOr(args.SortBy, "SCORE")
	metric := func(p *graph.MoneyballProfile) float64 {
		switch field {
		case "EFFECTIVENESS":
			return p.Effectiveness
		case "MAGNET":
			return p.Magnet
		case "BRIDGE":
			return p.Bridge
		case "CENTRALITY":
			return p.Centrality
		case "INSTITUTIONAL_WEIGHT":
			return p.InstitutionalWeight
		default:
			return p.MoneyballScore
		}
	}
	asc := !descending(args.SortOrder) && args.SortOrder != nil
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := metric(rows[i].p), metric(rows[j].p)
		if a != b {
			if asc {
				return a < b
			}
			return a > b
		}
		return rows[i].m.Name < rows[j].m.Name
	})

	page, info := paginate(rows, args.Limit, args.Offset)
	pageMembers := make([]*graph.Member, 0, len(page))
	for _, row := range page {
		pageMembers = append(pageMembers, row.m)
	}
	warmMemberLoaders(ctx, pageMembers)
	off := 0
	if args.Offset != nil && *args.Offset > 0 {
		off = int(*args.Offset)
	}
	items := make([]*leaderboardEntryResolver, 0, len(page))
	for i, row := range page {
		items = append(items, &leaderboardEntryResolver{
			root:    r,
			rank:    int32(off + i + 1),
			member:  row.m,
			profile: row.p,
		})
	}
	return &leaderboardConnectionResolver{items: items, info: info}
}

// Bill looks a bill up by display number, tolerating lowercase and
// unpadded forms.
func (r *Root) Bill(args struct{ Number string }) *billResolver {
	g := r.app.Graph()
	if g == nil {
		return nil
	}
	b, ok := g.BillByNumber(args.Number)
	if !ok {
		return nil
	}
	return &billResolver{root: r, b: b}
}

type billsArgs struct {
	SortBy    *string
	SortOrder *string
	DateFrom  *string
	DateTo    *string
	Limit     *int32
	Offset    *int32
}

func (r *Root) Bills(args billsArgs) *billConnectionResolver {
	g := r.app.Graph()
	if g == nil {
		return &billConnectionResolver{items: []*billResolver{}, info: &pageInfoResolver{}}
	}

	from, okFrom := parseISO(args.DateFrom)
	to, okTo := parseISO(args.DateTo)

	bills := make([]*graph.Bill, 0, len(g.Bills))
	for _, b := range g.Bills {
		if okFrom || okTo {
			if b.LastActionDate == nil {
				continue
			}
			d := *b.LastActionDate
			if okFrom && d.Before(from) {
				continue
			}
			if okTo && d.After(to) {
				continue
			}
		}
		bills = append(bills, b)
	}

	field := strOr(args.SortBy, "NUMBER")
	desc := descending(args.SortOrder)
	sort.SliceStable(bills, func(i, j int) bool {
		a, b := bills[i], bills[j]
		var less bool
		switch field {
		case "LAST_ACTION_DATE":
			da, db := dateOrZero(a.LastActionDate), dateOrZero(b.LastActionDate)
			if !da.Equal(db) {
				less = da.Before(db)
				break
			}
			less = a.BillNumber < b.BillNumber
		case "PIPELINE_DEPTH":
			if a.PipelineDepth != b.PipelineDepth {
				less = a.PipelineDepth < b.PipelineDepth
				break
			}
			less = a.BillNumber < b.BillNumber
		case "STATUS":
			if a.Status != b.Status {
				less = a.Status < b.Status
				break
			}
			less = a.BillNumber < b.BillNumber
		default:
			less = a.BillNumber < b.BillNumber
		}
		if desc {
			return !less && a.BillNumber != b.BillNumber
		}
		return less
	})

	page, info := paginate(bills, args.Limit, args.Offset)
	items := make([]*billResolver, 0, len(page))
	for _, b := range page {
		items = append(items, &billResolver{root: r, b: b})
	}
	return &billConnectionResolver{items: items, info: info}
}

func parseISO(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (r *Root) Votes(args struct{ BillNumber string }) []*voteEventResolver {
	g := r.app.Graph()
	if g == nil {
		return []*voteEventResolver{}
	}
	return r.voteList(g.VotesForBill(args.BillNumber))
}

// BillVoteTimeline returns a bill's roll calls in chronological order,
// optionally restricted to one chamber.
func (r *Root) BillVoteTimeline(args struct {
	BillNumber string
	Chamber    *string
}) []*voteEventResolver {
	g := r.app.Graph()
	if g == nil {
		return []*voteEventResolver{}
	}
	ch := strOr(args.Chamber, "")
	var events []*graph.VoteEvent
	for _, ev := range g.VotesForBill(args.BillNumber) {
		if ch != "" && string(ev.Chamber) != ch {
			continue
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return r.voteList(events)
}

type allVotesArgs struct {
	VoteType *string
	Chamber  *string
	Limit    *int32
	Offset   *int32
}

func (r *Root) AllVoteEvents(args allVotesArgs) *voteEventConnectionResolver {
	g := r.app.Graph()
	if g == nil {
		return &voteEventConnectionResolver{items: []*voteEventResolver{}, info: &pageInfoResolver{}}
	}
	kind := strOr(args.VoteType, "")
	ch := strOr(args.Chamber, "")
	var events []*graph.VoteEvent
	for _, ev := range g.VoteEvents {
		if kind != "" && string(ev.Kind) != kind {
			continue
		}
		if ch != "" && string(ev.Chamber) != ch {
			continue
		}
		events = append(events, ev)
	}
	page, info := paginate(events, args.Limit, args.Offset)
	return &voteEventConnectionResolver{items: r.voteList(page), info: info}
}

type slipsArgs struct {
	BillNumber string
	Limit      *int32
	Offset     *int32
}

func (r *Root) WitnessSlips(args slipsArgs) *witnessSlipConnectionResolver {
	g := r.app.Graph()
	if g == nil {
		return &witnessSlipConnectionResolver{items: []*witnessSlipResolver{}, info: &pageInfoResolver{}}
	}
	slips := g.SlipsForBill(args.BillNumber)
	page, info := paginate(slips, args.Limit, args.Offset)
	items := make([]*witnessSlipResolver, 0, len(page))
	for _, s := range page {
		items = append(items, &witnessSlipResolver{s})
	}
	return &witnessSlipConnectionResolver{items: items, info: info}
}

func (r *Root) WitnessSlipSummary(args struct{ BillNumber string }) *slipSummaryResolver {
	g := r.app.Graph()
	if g == nil {
		return nil
	}
	s := analytics.SummarizeSlips(g, graph.NormalizeBillNumber(args.BillNumber))
	if s.Total == 0 {
		return nil
	}
	return &slipSummaryResolver{s}
}

func (r *Root) WitnessSlipSummaries(args pageArgs) *slipSummaryConnectionResolver {
	g := r.app.Graph()
	if g == nil {
		return &slipSummaryConnectionResolver{items: []*slipSummaryResolver{}, info: &pageInfoResolver{}}
	}
	all := analytics.SummarizeAllSlips(g)
	page, info := paginate(all, args.Limit, args.Offset)
	items := make([]*slipSummaryResolver, 0, len(page))
	for _, s := range page {
		items = append(items, &slipSummaryResolver{s})
	}
	return &slipSummaryConnectionResolver{items: items, info: info}
}

func (r *Root) BillSlipAnalytics(args struct{ BillNumber string }) *billSlipAnalyticsResolver {
	g := r.app.Graph()
	if g == nil {
		return nil
	}
	a := analytics.AnalyzeBillSlips(g, graph.NormalizeBillNumber(args.BillNumber))
	if a.Summary.Total == 0 {
		return nil
	}
	return &billSlipAnalyticsResolver{a}
}

func (r *Root) MemberSlipAlignment(args struct{ MemberName string }) *slipAlignmentResolver {
	g := r.app.Graph()
	if g == nil {
		return nil
	}
	m, ok := g.MemberByName(args.MemberName)
	if !ok {
		return nil
	}
	return &slipAlignmentResolver{root: r, a: analytics.MemberSlipAlignment(g, m)}
}

func (r *Root) BillAdvancementAnalyticsSummary() *advancementResolver {
	g := r.app.Graph()
	if g == nil {
		return &advancementResolver{s: analytics.AdvancementSummary{ByStatus: map[string]int{}, ByDepth: map[int]int{}}}
	}
	return &advancementResolver{s: analytics.SummarizeAdvancement(g)}
}

func (r *Root) MetricsGlossary() []*glossaryResolver {
	out := make([]*glossaryResolver, 0, len(glossaryEntries))
	for _, e := range glossaryEntries {
		out = append(out, &glossaryResolver{e})
	}
	return out
}

func (r *Root) AdvocacyTargets(args struct {
	Zip            string
	PolicyCategory *string
}) ([]*advocacyCardResolver, error) {
	cards, err := r.app.Selector().Select(args.Zip, strOr(args.PolicyCategory, ""))
	if err != nil {
		return nil, err
	}
	out := make([]*advocacyCardResolver, 0, len(cards))
	for _, c := range cards {
		out = append(out, &advocacyCardResolver{root: r, c: c})
	}
	return out, nil
}
