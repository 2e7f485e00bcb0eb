package gql

import (
	"context"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/analytics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/civics"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	graphqlgo "github.com/graph-gophers/graphql-go"
)

func isoDate(t time.Time) string { return t.Format("2006-01-02") }

// pageInfoResolver carries the Connection paging metadata.
type pageInfoResolver struct {
	total   int32
	hasNext bool
	hasPrev bool
}

func (r *pageInfoResolver) TotalCount() int32     { return r.total }
func (r *pageInfoResolver) HasNextPage() bool     { return r.hasNext }
func (r *pageInfoResolver) HasPreviousPage() bool { return r.hasPrev }

// paginate slices a list and returns the page plus paging metadata.
func paginate[T any](items []T, limit, offset *int32) ([]T, *pageInfoResolver) {
	lim, off := 25, 0
	if limit != nil && *limit > 0 {
		lim = int(*limit)
	}
	if offset != nil && *offset > 0 {
		off = int(*offset)
	}
	total := len(items)
	if off > total {
		off = total
	}
	end := off + lim
	if end > total {
		end = total
	}
	return items[off:end], &pageInfoResolver{
		total:   int32(total),
		hasNext: end < total,
		hasPrev: off > 0,
	}
}

type pageArgs struct {
	Limit  *int32
	Offset *int32
}

// Member

type memberResolver struct {
	root *Root
	m    *graph.Member
}

func (r *memberResolver) MemberID() graphqlgo.ID { return graphqlgo.ID(r.m.MemberID) }
func (r *memberResolver) Name() string           { return r.m.Name }
func (r *memberResolver) Chamber() string        { return string(r.m.Chamber) }
func (r *memberResolver) Party() string          { return string(r.m.Party) }
func (r *memberResolver) District() int32        { return int32(r.m.District) }

func (r *memberResolver) Role() *string {
	if r.m.Role == "" {
		return nil
	}
	return &r.m.Role
}

func (r *memberResolver) Roles() []string          { return orEmpty(r.m.Roles) }
func (r *memberResolver) CommitteeCodes() []string { return orEmpty(r.m.CommitteeCodes) }

func (r *memberResolver) CareerRanges() []*careerRangeResolver {
	out := make([]*careerRangeResolver, 0, len(r.m.CareerRanges))
	for _, cr := range r.m.CareerRanges {
		out = append(out, &careerRangeResolver{cr})
	}
	return out
}

func (r *memberResolver) Offices() []*officeResolver {
	out := make([]*officeResolver, 0, len(r.m.Offices))
	for _, o := range r.m.Offices {
		out = append(out, &officeResolver{o})
	}
	return out
}

func (r *memberResolver) SeatBlockID() *string { return nilIfEmpty(r.m.SeatBlockID) }
func (r *memberResolver) SeatRing() *string    { return nilIfEmpty(r.m.SeatRing) }

func (r *memberResolver) SeatmateNames() *[]string {
	if r.m.SeatmateNames == nil {
		return nil
	}
	names := r.m.SeatmateNames
	return &names
}

func (r *memberResolver) SeatmateAffinity() *float64 { return r.m.SeatmateAffinity }

func (r *memberResolver) Scorecard(ctx context.Context) *scorecardResolver {
	card, ok := LoadersFrom(ctx).Scorecards.Load(r.m.MemberID)
	if !ok {
		return nil
	}
	return &scorecardResolver{card}
}

func (r *memberResolver) Moneyball(ctx context.Context) *moneyballResolver {
	p, ok := LoadersFrom(ctx).Moneyball.Load(r.m.MemberID)
	if !ok {
		return nil
	}
	return &moneyballResolver{p}
}

func (r *memberResolver) Bills(ctx context.Context, args pageArgs) *billConnectionResolver {
	return r.billPage(ctx, r.m.BillIDs, args)
}

func (r *memberResolver) PrimaryBills(ctx context.Context, args pageArgs) *billConnectionResolver {
	return r.billPage(ctx, r.m.PrimaryBillIDs, args)
}

// billPage loads one page of bill references through the request's bill
// loader: one batch call per page regardless of page size.
func (r *memberResolver) billPage(ctx context.Context, legIDs []string, args pageArgs) *billConnectionResolver {
	page, info := paginate(legIDs, args.Limit, args.Offset)
	loaded := LoadersFrom(ctx).Bills.LoadMany(page)
	items := make([]*billResolver, 0, len(page))
	for _, id := range page {
		if b, ok := loaded[id]; ok {
			items = append(items, &billResolver{root: r.root, b: b})
		}
	}
	return &billConnectionResolver{items: items, info: info}
}

type careerRangeResolver struct{ cr graph.CareerRange }

func (r *careerRangeResolver) StartYear() int32 { return int32(r.cr.StartYear) }
func (r *careerRangeResolver) Chamber() string  { return string(r.cr.Chamber) }
func (r *careerRangeResolver) EndYear() *int32 {
	if r.cr.EndYear == 0 {
		return nil
	}
	v := int32(r.cr.EndYear)
	return &v
}

type officeResolver struct{ o graph.Office }

func (r *officeResolver) Kind() string    { return string(r.o.Kind) }
func (r *officeResolver) Address() string { return r.o.Address }
func (r *officeResolver) Phone() *string  { return nilIfEmpty(r.o.Phone) }
func (r *officeResolver) Fax() *string    { return nilIfEmpty(r.o.Fax) }

type memberConnectionResolver struct {
	items []*memberResolver
	info  *pageInfoResolver
}

func (r *memberConnectionResolver) Items() []*memberResolver    { return r.items }
func (r *memberConnectionResolver) PageInfo() *pageInfoResolver { return r.info }

// Scorecard / Moneyball

type scorecardResolver struct{ c *graph.Scorecard }

func (r *scorecardResolver) BillsIntroduced() int32      { return int32(r.c.BillsIntroduced) }
func (r *scorecardResolver) LawsPassed() int32           { return int32(r.c.LawsPassed) }
func (r *scorecardResolver) LawSuccessRate() float64     { return r.c.LawSuccessRate }
func (r *scorecardResolver) ResolutionsFiled() int32     { return int32(r.c.ResolutionsFiled) }
func (r *scorecardResolver) ResolutionsPassed() int32    { return int32(r.c.ResolutionsPassed) }
func (r *scorecardResolver) ResolutionPassRate() float64 { return r.c.ResolutionPassRate }
func (r *scorecardResolver) MagnetScore() float64        { return r.c.MagnetScore }
func (r *scorecardResolver) BridgeScore() float64        { return r.c.BridgeScore }
func (r *scorecardResolver) AvgPipelineDepth() float64   { return r.c.AvgPipelineDepth }
func (r *scorecardResolver) ShellBillCount() int32       { return int32(r.c.ShellBillCount) }

type moneyballResolver struct{ p *graph.MoneyballProfile }

func (r *moneyballResolver) Effectiveness() float64       { return r.p.Effectiveness }
func (r *moneyballResolver) Pipeline() float64            { return r.p.Pipeline }
func (r *moneyballResolver) Magnet() float64              { return r.p.Magnet }
func (r *moneyballResolver) Bridge() float64              { return r.p.Bridge }
func (r *moneyballResolver) Centrality() float64          { return r.p.Centrality }
func (r *moneyballResolver) InstitutionalWeight() float64 { return r.p.InstitutionalWeight }
func (r *moneyballResolver) MoneyballScore() float64      { return r.p.MoneyballScore }
func (r *moneyballResolver) ChamberRank() int32           { return int32(r.p.ChamberRank) }
func (r *moneyballResolver) OverallRank() int32           { return int32(r.p.OverallRank) }
func (r *moneyballResolver) NonLeadershipRank() *int32 {
	if r.p.NonLeadershipRank == 0 {
		return nil
	}
	v := int32(r.p.NonLeadershipRank)
	return &v
}

// Bill

type billResolver struct {
	root *Root
	b    *graph.Bill
}

func (r *billResolver) LegID() graphqlgo.ID  { return graphqlgo.ID(r.b.LegID) }
func (r *billResolver) BillNumber() string   { return r.b.BillNumber }
func (r *billResolver) Chamber() string      { return string(r.b.Chamber) }
func (r *billResolver) Kind() string         { return string(r.b.Kind) }
func (r *billResolver) Description() string  { return r.b.Description }
func (r *billResolver) Synopsis() *string    { return nilIfEmpty(r.b.Synopsis) }
func (r *billResolver) StatusURL() string    { return r.b.StatusURL }
func (r *billResolver) Status() string       { return string(r.b.Status) }
func (r *billResolver) PipelineDepth() int32 { return int32(r.b.PipelineDepth) }
func (r *billResolver) LastAction() *string  { return nilIfEmpty(r.b.LastAction) }

func (r *billResolver) LastActionDate() *string {
	if r.b.LastActionDate == nil {
		return nil
	}
	s := isoDate(*r.b.LastActionDate)
	return &s
}

func (r *billResolver) PrimarySponsor(ctx context.Context) *memberResolver {
	if len(r.b.SponsorIDs) == 0 {
		return nil
	}
	m, ok := LoadersFrom(ctx).Members.Load(r.b.SponsorIDs[0])
	if !ok {
		return nil
	}
	return &memberResolver{root: r.root, m: m}
}

func (r *billResolver) Sponsors(ctx context.Context) []*memberResolver {
	return r.root.memberList(ctx, r.b.SponsorIDs)
}

func (r *billResolver) CrossChamberSponsors(ctx context.Context) []*memberResolver {
	return r.root.memberList(ctx, r.b.HouseSponsorIDs)
}

func (r *billResolver) Actions() []*actionResolver {
	out := make([]*actionResolver, 0, len(r.b.Actions))
	for _, a := range r.b.Actions {
		out = append(out, &actionResolver{a})
	}
	return out
}

func (r *billResolver) Votes() []*voteEventResolver {
	return r.root.voteList(r.root.app.Graph().VotesForBill(r.b.BillNumber))
}

func (r *billResolver) SlipSummary() *slipSummaryResolver {
	s := analytics.SummarizeSlips(r.root.app.Graph(), r.b.BillNumber)
	if s.Total == 0 {
		return nil
	}
	return &slipSummaryResolver{s}
}

type actionResolver struct{ a graph.ActionEntry }

func (r *actionResolver) Date() string    { return isoDate(r.a.Date) }
func (r *actionResolver) Chamber() string { return string(r.a.Chamber) }
func (r *actionResolver) Action() string  { return r.a.Action }

type billConnectionResolver struct {
	items []*billResolver
	info  *pageInfoResolver
}

func (r *billConnectionResolver) Items() []*billResolver      { return r.items }
func (r *billConnectionResolver) PageInfo() *pageInfoResolver { return r.info }

// Votes

type voteEventResolver struct {
	root *Root
	ev   *graph.VoteEvent
}

func (r *voteEventResolver) BillNumber() string     { return r.ev.BillNumber }
func (r *voteEventResolver) Chamber() string        { return string(r.ev.Chamber) }
func (r *voteEventResolver) Date() string           { return isoDate(r.ev.Date) }
func (r *voteEventResolver) VoteType() string       { return string(r.ev.Kind) }
func (r *voteEventResolver) CommitteeCode() *string { return nilIfEmpty(r.ev.CommitteeCode) }
func (r *voteEventResolver) Motion() *string        { return nilIfEmpty(r.ev.Motion) }
func (r *voteEventResolver) Yeas() []string         { return orEmpty(r.ev.Yea) }
func (r *voteEventResolver) Nays() []string         { return orEmpty(r.ev.Nay) }
func (r *voteEventResolver) Present() []string      { return orEmpty(r.ev.Present) }
func (r *voteEventResolver) NotVoting() []string    { return orEmpty(r.ev.NV) }

func (r *voteEventResolver) YeaMembers(ctx context.Context) []*memberResolver {
	return r.root.memberList(ctx, r.ev.YeaIDs)
}

func (r *voteEventResolver) NayMembers(ctx context.Context) []*memberResolver {
	return r.root.memberList(ctx, r.ev.NayIDs)
}

type voteEventConnectionResolver struct {
	items []*voteEventResolver
	info  *pageInfoResolver
}

func (r *voteEventConnectionResolver) Items() []*voteEventResolver { return r.items }
func (r *voteEventConnectionResolver) PageInfo() *pageInfoResolver { return r.info }

// Witness slips

type witnessSlipResolver struct{ s *graph.WitnessSlip }

func (r *witnessSlipResolver) BillNumber() string     { return r.s.BillNumber }
func (r *witnessSlipResolver) Chamber() string        { return string(r.s.Chamber) }
func (r *witnessSlipResolver) CommitteeCode() *string { return nilIfEmpty(r.s.CommitteeCode) }
func (r *witnessSlipResolver) HearingDate() string    { return isoDate(r.s.HearingDate) }
func (r *witnessSlipResolver) FilerName() string      { return r.s.FilerName }
func (r *witnessSlipResolver) Represents() string     { return r.s.Represents }
func (r *witnessSlipResolver) Position() string       { return string(r.s.Position) }
func (r *witnessSlipResolver) WillTestify() bool      { return r.s.WillTestify }

type witnessSlipConnectionResolver struct {
	items []*witnessSlipResolver
	info  *pageInfoResolver
}

func (r *witnessSlipConnectionResolver) Items() []*witnessSlipResolver { return r.items }
func (r *witnessSlipConnectionResolver) PageInfo() *pageInfoResolver   { return r.info }

type slipSummaryResolver struct{ s analytics.SlipSummary }

func (r *slipSummaryResolver) BillNumber() string { return r.s.BillNumber }
func (r *slipSummaryResolver) Proponents() int32  { return int32(r.s.Proponents) }
func (r *slipSummaryResolver) Opponents() int32   { return int32(r.s.Opponents) }
func (r *slipSummaryResolver) NoPosition() int32  { return int32(r.s.NoPosition) }
func (r *slipSummaryResolver) Information() int32 { return int32(r.s.Information) }
func (r *slipSummaryResolver) Total() int32       { return int32(r.s.Total) }
func (r *slipSummaryResolver) WillTestify() int32 { return int32(r.s.WillTestify) }

type slipSummaryConnectionResolver struct {
	items []*slipSummaryResolver
	info  *pageInfoResolver
}

func (r *slipSummaryConnectionResolver) Items() []*slipSummaryResolver { return r.items }
func (r *slipSummaryConnectionResolver) PageInfo() *pageInfoResolver   { return r.info }

type orgCountResolver struct{ o analytics.OrgCount }

func (r *orgCountResolver) Organization() string { return r.o.Organization }
func (r *orgCountResolver) Count() int32         { return int32(r.o.Count) }
func (r *orgCountResolver) Position() string     { return string(r.o.Position) }

type billSlipAnalyticsResolver struct{ a analytics.BillSlipAnalytics }

func (r *billSlipAnalyticsResolver) Summary() *slipSummaryResolver {
	return &slipSummaryResolver{r.a.Summary}
}
func (r *billSlipAnalyticsResolver) SupportRatio() float64 { return r.a.SupportRatio }
func (r *billSlipAnalyticsResolver) Contested() bool       { return r.a.Contested }

func (r *billSlipAnalyticsResolver) TopOrgs() []*orgCountResolver {
	out := make([]*orgCountResolver, 0, len(r.a.TopOrgs))
	for _, o := range r.a.TopOrgs {
		out = append(out, &orgCountResolver{o})
	}
	return out
}

type slipAlignmentResolver struct {
	root *Root
	a    analytics.SlipAlignment
}

func (r *slipAlignmentResolver) Member(ctx context.Context) *memberResolver {
	m, ok := LoadersFrom(ctx).Members.Load(r.a.MemberID)
	if !ok {
		return nil
	}
	return &memberResolver{root: r.root, m: m}
}

func (r *slipAlignmentResolver) BillsCompared() int32   { return int32(r.a.BillsCompared) }
func (r *slipAlignmentResolver) Aligned() int32         { return int32(r.a.Aligned) }
func (r *slipAlignmentResolver) AlignmentRate() float64 { return r.a.AlignmentRate }

// Advancement summary

type advancementResolver struct{ s analytics.AdvancementSummary }

func (r *advancementResolver) TotalBills() int32             { return int32(r.s.TotalBills) }
func (r *advancementResolver) AvgDepth() float64             { return r.s.AvgDepth }
func (r *advancementResolver) SignedRate() float64           { return r.s.SignedRate }
func (r *advancementResolver) AvgDepthWithSlips() float64    { return r.s.AvgDepthWithSlips }
func (r *advancementResolver) AvgDepthWithoutSlips() float64 { return r.s.AvgDepthWithoutSlips }

func (r *advancementResolver) ByStatus() []*statusCountResolver {
	keys := sortedKeys(r.s.ByStatus)
	out := make([]*statusCountResolver, 0, len(keys))
	for _, k := range keys {
		out = append(out, &statusCountResolver{status: k, count: int32(r.s.ByStatus[k])})
	}
	return out
}

func (r *advancementResolver) ByDepth() []*depthCountResolver {
	out := make([]*depthCountResolver, 0, len(r.s.ByDepth))
	for depth := 0; depth <= graph.DepthTerminal; depth++ {
		if n, ok := r.s.ByDepth[depth]; ok {
			out = append(out, &depthCountResolver{depth: int32(depth), count: int32(n)})
		}
	}
	return out
}

type statusCountResolver struct {
	status string
	count  int32
}

func (r *statusCountResolver) Status() string { return r.status }
func (r *statusCountResolver) Count() int32   { return r.count }

type depthCountResolver struct {
	depth int32
	count int32
}

func (r *depthCountResolver) Depth() int32 { return r.depth }
func (r *depthCountResolver) Count() int32 { return r.count }

// Leaderboard

type leaderboardEntryResolver struct {
	root    *Root
	rank    int32
	member  *graph.Member
	profile *graph.MoneyballProfile
}

func (r *leaderboardEntryResolver) Rank() int32 { return r.rank }
func (r *leaderboardEntryResolver) Member() *memberResolver {
	return &memberResolver{root: r.root, m: r.member}
}
func (r *leaderboardEntryResolver) Profile() *moneyballResolver {
	return &moneyballResolver{p: r.profile}
}

type leaderboardConnectionResolver struct {
	items []*leaderboardEntryResolver
	info  *pageInfoResolver
}

func (r *leaderboardConnectionResolver) Items() []*leaderboardEntryResolver { return r.items }
func (r *leaderboardConnectionResolver) PageInfo() *pageInfoResolver        { return r.info }

// Glossary

type glossaryResolver struct{ e GlossaryEntry }

func (r *glossaryResolver) ID() graphqlgo.ID   { return graphqlgo.ID(r.e.ID) }
func (r *glossaryResolver) Label() string      { return r.e.Label }
func (r *glossaryResolver) Kind() string       { return r.e.Kind }
func (r *glossaryResolver) Definition() string { return r.e.Definition }
func (r *glossaryResolver) Formula() *string   { return nilIfEmpty(r.e.Formula) }

// Advocacy

type advocacyCardResolver struct {
	root *Root
	c    civics.Card
}

func (r *advocacyCardResolver) CardType() string { return string(r.c.Type) }
func (r *advocacyCardResolver) Member() *memberResolver {
	return &memberResolver{root: r.root, m: r.c.Member}
}
func (r *advocacyCardResolver) Why() string        { return r.c.Why }
func (r *advocacyCardResolver) ScriptHint() string { return r.c.ScriptHint }
func (r *advocacyCardResolver) Badges() []string   { return orEmpty(r.c.Badges) }

// small helpers

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// insertion sort; the map is tiny
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
