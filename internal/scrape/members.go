package scrape

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/ilga"
)

// MemberScrapeOptions bounds a member+committee scrape for dev runs.
type MemberScrapeOptions struct {
	// Limit caps members per chamber. Zero means all.
	Limit int
}

// MemberScrapeResult reports what the pipeline produced.
type MemberScrapeResult struct {
	Members    int
	Committees int
	Skipped    int
}

// ScrapeMembers runs the member+committee pipeline: both chamber rosters,
// each member detail page through the worker pool, then the committee index
// and each committee's roster and bill assignments. Results are persisted
// before returning. A fetch failure on a single member skips that member; an
// unreachable index page aborts the pipeline.
func (s *Scraper) ScrapeMembers(ctx context.Context, opts MemberScrapeOptions) (*MemberScrapeResult, error) {
	result := &MemberScrapeResult{}

	var refs []ilga.MemberRef
	for _, ch := range []graph.Chamber{graph.ChamberSenate, graph.ChamberHouse} {
		res, err := s.Fetcher.Fetch(ctx, s.Site.MemberIndexURL(ch))
		if err != nil {
			return nil, fmt.Errorf("member index %s: %w", ch, err)
		}
		chamberRefs, ws, err := ilga.ParseMemberIndex(res.Body, s.Site, ch)
		s.noteWarnings(ws)
		if err != nil {
			return nil, fmt.Errorf("member index %s: %w", ch, err)
		}
		if opts.Limit > 0 && len(chamberRefs) > opts.Limit {
			chamberRefs = chamberRefs[:opts.Limit]
		}
		refs = append(refs, chamberRefs...)
	}
	log.Printf("[scrape] member index: %d detail pages to fetch", len(refs))

	members, skipped := s.fetchMemberDetails(ctx, refs)
	result.Members = len(members)
	result.Skipped = skipped

	committees, rosters, committeeBills, err := s.scrapeCommittees(ctx, members)
	if err != nil {
		return nil, err
	}
	result.Committees = len(committees)

	sort.Slice(members, func(i, j int) bool { return members[i].MemberID < members[j].MemberID })
	if err := s.Store.SaveMembers(members); err != nil {
		return nil, err
	}
	if err := s.Store.SaveCommittees(committees); err != nil {
		return nil, err
	}
	if err := s.Store.SaveRosters(rosters); err != nil {
		return nil, err
	}
	if err := s.Store.SaveCommitteeBills(committeeBills); err != nil {
		return nil, err
	}

	md, _ := s.Store.LoadMetadata()
	md.LastMemberScrapeAt = time.Now()
	if err := s.Store.SaveMetadata(md); err != nil {
		return nil, err
	}
	return result, nil
}

// fetchMemberDetails runs the worker pool over member detail pages. Workers
// emit parsed members on a channel; the collector goroutine owns the slice.
func (s *Scraper) fetchMemberDetails(ctx context.Context, refs []ilga.MemberRef) ([]*graph.Member, int) {
	type outcome struct {
		member  *graph.Member
		skipped bool
	}
	results := make(chan outcome)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)

	go func() {
		for _, ref := range refs {
			ref := ref
			g.Go(func() error {
				res, err := s.Fetcher.Fetch(gctx, ref.DetailURL)
				if err != nil {
					log.Printf("[scrape] skipping member %s: %v", ref.Name, err)
					results <- outcome{skipped: true}
					return nil // per-member failures never abort the pool
				}
				m, ws, err := ilga.ParseMemberDetail(res.Body, ref.DetailURL, ref.Chamber)
				s.noteWarnings(ws)
				if err != nil {
					log.Printf("[scrape] skipping member %s: %v", ref.Name, err)
					results <- outcome{skipped: true}
					return nil
				}
				if m.Name == "" {
					m.Name = ref.Name
				}
				results <- outcome{member: m}
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	var members []*graph.Member
	skipped := 0
	for out := range results {
		if out.skipped {
			skipped++
			continue
		}
		members = append(members, out.member)
	}
	return members, skipped
}

// scrapeCommittees fetches the committee index for both chambers and each
// committee's detail page, resolving roster names against the freshly
// scraped member set.
func (s *Scraper) scrapeCommittees(ctx context.Context, members []*graph.Member) ([]*graph.Committee, map[string][]graph.CommitteeMember, map[string][]string, error) {
	matchers := map[graph.Chamber]*graph.NameMatcher{
		graph.ChamberHouse:  graph.NewNameMatcher(chamberOf(members, graph.ChamberHouse)),
		graph.ChamberSenate: graph.NewNameMatcher(chamberOf(members, graph.ChamberSenate)),
	}
	byID := map[string]*graph.Member{}
	for _, m := range members {
		byID[m.MemberID] = m
	}

	var committees []*graph.Committee
	rosters := map[string][]graph.CommitteeMember{}
	committeeBills := map[string][]string{}

	for _, ch := range []graph.Chamber{graph.ChamberSenate, graph.ChamberHouse} {
		res, err := s.Fetcher.Fetch(ctx, s.Site.CommitteeIndexURL(ch))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("committee index %s: %w", ch, err)
		}
		refs, ws, err := ilga.ParseCommitteeIndex(res.Body, s.Site, ch)
		s.noteWarnings(ws)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("committee index %s: %w", ch, err)
		}

		for _, ref := range refs {
			c := &graph.Committee{Code: ref.Code, Name: ref.Name, ParentCode: ref.ParentCode, Chamber: ref.Chamber}
			committees = append(committees, c)

			detail, err := s.Fetcher.Fetch(ctx, ref.DetailURL)
			if err != nil {
				log.Printf("[scrape] committee %s detail unavailable: %v", ref.Code, err)
				continue
			}
			roster, billRefs, ws, err := ilga.ParseCommitteeDetail(detail.Body, s.Site)
			s.noteWarnings(ws)
			if err != nil {
				log.Printf("[scrape] committee %s detail unparsed: %v", ref.Code, err)
				continue
			}

			for _, row := range roster {
				m, ok := matchers[ch].Resolve(row.Name)
				if !ok {
					log.Printf("[scrape] committee %s: unresolved roster name %q", ref.Code, row.Name)
					continue
				}
				rosters[ref.Code] = append(rosters[ref.Code], graph.CommitteeMember{MemberID: m.MemberID, Role: row.Role})
				annotateMemberRole(byID[m.MemberID], ref.Name, row.Role)
				appendUnique(&byID[m.MemberID].CommitteeCodes, ref.Code)
			}
			for _, br := range billRefs {
				committeeBills[ref.Code] = append(committeeBills[ref.Code], br.LegID)
			}
		}
	}
	return committees, rosters, committeeBills, nil
}

// annotateMemberRole records chair/spokesperson roles on the member for
// institutional weighting.
func annotateMemberRole(m *graph.Member, committeeName string, role graph.CommitteeRole) {
	if m == nil {
		return
	}
	switch role {
	case graph.RoleChair:
		appendUnique(&m.Roles, "Chair, "+committeeName)
	case graph.RoleViceChair:
		appendUnique(&m.Roles, "Vice-Chair, "+committeeName)
	case graph.RoleMinoritySpokesperson:
		appendUnique(&m.Roles, "Minority Spokesperson, "+committeeName)
	}
}

func appendUnique(list *[]string, v string) {
	for _, existing := range *list {
		if existing == v {
			return
		}
	}
	*list = append(*list, v)
}

func chamberOf(members []*graph.Member, ch graph.Chamber) []*graph.Member {
	var out []*graph.Member
	for _, m := range members {
		if m.Chamber == ch {
			out = append(out, m)
		}
	}
	return out
}
