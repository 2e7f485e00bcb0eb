// Package seeds generates a small deterministic mock legislature for
// SEED_MODE. The dataset exercises every bill status, both chambers, shell
// bills, cross-party co-sponsorship, roll calls, and witness slips, so the
// full API surface works offline.
package seeds

import (
	"fmt"
	"time"

	"github.com/StatehouseAtlas/ILGA-Backend/internal/cache"
	"github.com/StatehouseAtlas/ILGA-Backend/internal/graph"
)

// SeedAll writes the mock dataset into the given cache directory.
func SeedAll(dir string) error {
	store, err := cache.New(dir)
	if err != nil {
		return err
	}

	members := Members()
	bills := Bills()
	committees, rosters, committeeBills := Committees()
	linkSponsorships(members, bills)

	if err := store.SaveMembers(members); err != nil {
		return err
	}
	if err := store.SaveBills(bills); err != nil {
		return err
	}
	if err := store.SaveCommittees(committees); err != nil {
		return err
	}
	if err := store.SaveRosters(rosters); err != nil {
		return err
	}
	if err := store.SaveCommitteeBills(committeeBills); err != nil {
		return err
	}
	if err := store.SaveVoteEvents(VoteEvents()); err != nil {
		return err
	}
	if err := store.SaveWitnessSlips(WitnessSlips()); err != nil {
		return err
	}
	return store.SaveMetadata(cache.Metadata{
		LastMemberScrapeAt: time.Now(),
		LastBillScrapeAt:   time.Now(),
		LastVoteScrapeAt:   time.Now(),
	})
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y, m, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

type seedMember struct {
	id       string
	name     string
	chamber  graph.Chamber
	party    graph.Party
	district int
	role     string
}

var senators = []seedMember{
	{"3320", "Elena Vasquez", graph.ChamberSenate, graph.PartyDemocrat, 6, "Senate President"},
	{"3321", "Marcus Webb", graph.ChamberSenate, graph.PartyDemocrat, 2, ""},
	{"3322", "Patricia O'Donnell", graph.ChamberSenate, graph.PartyRepublican, 40, "Minority Leader"},
	{"3323", "James Whitfield", graph.ChamberSenate, graph.PartyRepublican, 44, ""},
	{"3324", "Renée Dubois", graph.ChamberSenate, graph.PartyDemocrat, 11, ""},
	{"3325", "Samuel Park", graph.ChamberSenate, graph.PartyDemocrat, 8, ""},
	{"3326", "Dana Kowalski-Reyes", graph.ChamberSenate, graph.PartyRepublican, 51, ""},
	{"3327", "Harold Jeffers", graph.ChamberSenate, graph.PartyDemocrat, 14, ""},
}

var representatives = []seedMember{
	{"3410", "Angela Morrison", graph.ChamberHouse, graph.PartyDemocrat, 12, "Speaker of the House"},
	{"3411", "Luis Hernandez", graph.ChamberHouse, graph.PartyDemocrat, 24, ""},
	{"3412", "Grace Lindqvist", graph.ChamberHouse, graph.PartyRepublican, 90, ""},
	{"3413", "Thomas Beaumont", graph.ChamberHouse, graph.PartyRepublican, 104, "Minority Leader"},
	{"3414", "Keisha Dawson", graph.ChamberHouse, graph.PartyDemocrat, 31, ""},
	{"3415", "Victor Okafor", graph.ChamberHouse, graph.PartyDemocrat, 5, ""},
	{"3416", "Martha Ellingboe", graph.ChamberHouse, graph.PartyRepublican, 73, ""},
	{"3417", "Daniel Park", graph.ChamberHouse, graph.PartyDemocrat, 19, ""},
}

// Members builds the mock roster. District numbers align with the built-in
// dev crosswalk (ZIP 60657 -> Senate 6 / House 12).
func Members() []*graph.Member {
	var out []*graph.Member
	for _, sm := range append(append([]seedMember{}, senators...), representatives...) {
		m := &graph.Member{
			MemberID: sm.id,
			Name:     sm.name,
			Chamber:  sm.chamber,
			Party:    sm.party,
			District: sm.district,
			Role:     sm.role,
			CareerRanges: []graph.CareerRange{
				{StartYear: 2019, Chamber: sm.chamber},
			},
			Offices: []graph.Office{
				{Kind: graph.OfficeSpringfield, Address: "Capitol Building, Springfield, IL 62706", Phone: "(217) 782-0000"},
				{Kind: graph.OfficeDistrict, Address: fmt.Sprintf("%d Main St, District %d, IL", 100+sm.district, sm.district)},
			},
		}
		if sm.role != "" {
			m.Roles = append(m.Roles, sm.role)
		}
		out = append(out, m)
	}
	return out
}

// Bills covers the whole pipeline: a signed law, a vetoed bill, bills
// stalled at each stage, a shell bill, and a pair of resolutions.
func Bills() map[string]*graph.Bill {
	bills := []*graph.Bill{
		{
			LegID:           "157001",
			BillNumber:      "SB0145",
			Description:     "Prescription Drug Pricing Transparency Act",
			Synopsis:        "Requires pharmaceutical manufacturers to report price increases above five percent to the Department of Public Health.",
			StatusURL:       "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=145&DocTypeID=SB",
			SponsorIDs:      []string{"3320", "3324", "3326"},
			HouseSponsorIDs: []string{"3410", "3414"},
			LastAction:      "Public Act 104-0017",
			LastActionDate:  datePtr(2025, 7, 18),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 1, 22), Chamber: graph.ChamberSenate, Action: "First Reading"},
				{Date: date(2025, 2, 4), Chamber: graph.ChamberSenate, Action: "Assigned to Health and Human Services"},
				{Date: date(2025, 3, 20), Chamber: graph.ChamberSenate, Action: "Third Reading - Passed; 041-015-000"},
				{Date: date(2025, 4, 2), Chamber: graph.ChamberHouse, Action: "Referred to Rules Committee"},
				{Date: date(2025, 5, 14), Chamber: graph.ChamberHouse, Action: "Third Reading - Short Debate - Passed 072-040-001"},
				{Date: date(2025, 6, 20), Chamber: graph.ChamberSenate, Action: "Sent to the Governor"},
				{Date: date(2025, 7, 18), Chamber: graph.ChamberSenate, Action: "Governor Approved; Public Act 104-0017"},
			},
		},
		{
			LegID:          "157002",
			BillNumber:     "SB0289",
			Description:    "Municipal Broadband Authority Act",
			Synopsis:       "Authorizes municipalities to form broadband utility districts.",
			StatusURL:      "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=289&DocTypeID=SB",
			SponsorIDs:     []string{"3321", "3325"},
			LastAction:     "Total Veto Stands",
			LastActionDate: datePtr(2025, 8, 29),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 1, 30), Chamber: graph.ChamberSenate, Action: "First Reading"},
				{Date: date(2025, 2, 11), Chamber: graph.ChamberSenate, Action: "Assigned to Telecommunications"},
				{Date: date(2025, 3, 25), Chamber: graph.ChamberSenate, Action: "Third Reading - Passed; 038-019-000"},
				{Date: date(2025, 4, 9), Chamber: graph.ChamberHouse, Action: "Referred to Rules Committee"},
				{Date: date(2025, 5, 21), Chamber: graph.ChamberHouse, Action: "Third Reading - Standard Debate - Passed 064-048-002"},
				{Date: date(2025, 6, 24), Chamber: graph.ChamberSenate, Action: "Sent to the Governor"},
				{Date: date(2025, 8, 29), Chamber: graph.ChamberSenate, Action: "Total Veto Stands - No Positive Action Taken"},
			},
		},
		{
			LegID:          "157003",
			BillNumber:     "SB0501",
			Description:    "TECHNICAL - Shell bill for budget implementation",
			StatusURL:      "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=501&DocTypeID=SB",
			SponsorIDs:     []string{"3320"},
			LastAction:     "First Reading",
			LastActionDate: datePtr(2025, 2, 7),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 2, 7), Chamber: graph.ChamberSenate, Action: "First Reading"},
			},
		},
		{
			LegID:          "157004",
			BillNumber:     "SB0612",
			Description:    "Lake Michigan Shoreline Protection Act",
			Synopsis:       "Creates a revolving fund for shoreline erosion control grants.",
			StatusURL:      "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=612&DocTypeID=SB",
			SponsorIDs:     []string{"3324", "3320", "3323"},
			LastAction:     "Assigned to Environment and Conservation",
			LastActionDate: datePtr(2025, 3, 4),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 2, 18), Chamber: graph.ChamberSenate, Action: "First Reading"},
				{Date: date(2025, 3, 4), Chamber: graph.ChamberSenate, Action: "Assigned to Environment and Conservation"},
			},
		},
		{
			LegID:          "157005",
			BillNumber:     "SB0733",
			Description:    "Small Business Licensing Reform",
			Synopsis:       "Consolidates duplicative professional licensing requirements.",
			StatusURL:      "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=733&DocTypeID=SB",
			SponsorIDs:     []string{"3326", "3322", "3321"},
			LastAction:     "Third Reading - Passed; 055-000-000",
			LastActionDate: datePtr(2025, 4, 10),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 2, 20), Chamber: graph.ChamberSenate, Action: "First Reading"},
				{Date: date(2025, 3, 6), Chamber: graph.ChamberSenate, Action: "Assigned to Licensed Activities"},
				{Date: date(2025, 4, 10), Chamber: graph.ChamberSenate, Action: "Third Reading - Passed; 055-000-000"},
			},
		},
		{
			LegID:           "157010",
			BillNumber:      "HB1234",
			Description:     "School Breakfast Expansion Act",
			Synopsis:        "Extends the free breakfast program to all schools above forty percent low-income enrollment.",
			StatusURL:       "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=1234&DocTypeID=HB",
			SponsorIDs:      []string{"3414", "3411", "3416"},
			HouseSponsorIDs: []string{"3324"},
			LastAction:      "Sent to the Governor",
			LastActionDate:  datePtr(2025, 6, 26),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 1, 28), Chamber: graph.ChamberHouse, Action: "First Reading"},
				{Date: date(2025, 2, 13), Chamber: graph.ChamberHouse, Action: "Assigned to Appropriations - Education"},
				{Date: date(2025, 3, 27), Chamber: graph.ChamberHouse, Action: "Third Reading - Short Debate - Passed 098-014-000"},
				{Date: date(2025, 4, 15), Chamber: graph.ChamberSenate, Action: "Referred to Assignments"},
				{Date: date(2025, 5, 28), Chamber: graph.ChamberSenate, Action: "Third Reading - Passed; 049-008-000"},
				{Date: date(2025, 6, 26), Chamber: graph.ChamberHouse, Action: "Sent to the Governor"},
			},
		},
		{
			LegID:          "157011",
			BillNumber:     "HB2050",
			Description:    "Freight Rail Crossing Safety Act",
			Synopsis:       "Mandates blocked-crossing reporting and grade separation studies.",
			StatusURL:      "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=2050&DocTypeID=HB",
			SponsorIDs:     []string{"3411", "3415"},
			LastAction:     "First Reading",
			LastActionDate: datePtr(2025, 2, 25),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 2, 25), Chamber: graph.ChamberHouse, Action: "First Reading"},
			},
		},
		{
			LegID:          "157012",
			BillNumber:     "HB3117",
			Description:    "Community College Nursing Pathway",
			Synopsis:       "Permits community colleges to award bachelor of science in nursing degrees.",
			StatusURL:      "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=3117&DocTypeID=HB",
			SponsorIDs:     []string{"3412", "3413", "3417"},
			LastAction:     "Third Reading - Short Debate - Passed 085-027-000",
			LastActionDate: datePtr(2025, 4, 24),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 2, 6), Chamber: graph.ChamberHouse, Action: "First Reading"},
				{Date: date(2025, 2, 26), Chamber: graph.ChamberHouse, Action: "Assigned to Higher Education"},
				{Date: date(2025, 4, 24), Chamber: graph.ChamberHouse, Action: "Third Reading - Short Debate - Passed 085-027-000"},
			},
		},
		{
			LegID:          "157020",
			BillNumber:     "SR0082",
			Description:    "Designates April as Prairie Restoration Month",
			StatusURL:      "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=82&DocTypeID=SR",
			SponsorIDs:     []string{"3327"},
			LastAction:     "Resolution Adopted",
			LastActionDate: datePtr(2025, 3, 13),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 2, 27), Chamber: graph.ChamberSenate, Action: "First Reading"},
				{Date: date(2025, 3, 13), Chamber: graph.ChamberSenate, Action: "Resolution Adopted"},
			},
		},
		{
			LegID:          "157021",
			BillNumber:     "HR0210",
			Description:    "Congratulates the Rockford Peaches centennial committee",
			StatusURL:      "https://www.ilga.gov/legislation/BillStatus.asp?DocNum=210&DocTypeID=HR",
			SponsorIDs:     []string{"3417"},
			LastAction:     "Referred to Rules Committee",
			LastActionDate: datePtr(2025, 3, 5),
			Actions: []graph.ActionEntry{
				{Date: date(2025, 3, 5), Chamber: graph.ChamberHouse, Action: "Referred to Rules Committee"},
			},
		},
	}

	out := make(map[string]*graph.Bill, len(bills))
	for _, b := range bills {
		b.Chamber = graph.ChamberForBillNumber(b.BillNumber)
		b.Kind = graph.KindForBillNumber(b.BillNumber)
		b.PrimarySponsor = ""
		out[b.LegID] = b
	}
	return out
}

// Committees returns the mock committee set with rosters and assignments.
func Committees() ([]*graph.Committee, map[string][]graph.CommitteeMember, map[string][]string) {
	committees := []*graph.Committee{
		{Code: "SHHS", Name: "Health and Human Services", Chamber: graph.ChamberSenate},
		{Code: "SENV", Name: "Environment and Conservation", Chamber: graph.ChamberSenate},
		{Code: "STEL", Name: "Telecommunications", Chamber: graph.ChamberSenate},
		{Code: "SENV-W", Name: "Wetlands Subcommittee", ParentCode: "SENV", Chamber: graph.ChamberSenate},
		{Code: "HAPE", Name: "Appropriations - Education", Chamber: graph.ChamberHouse},
		{Code: "HHED", Name: "Higher Education", Chamber: graph.ChamberHouse},
	}
	rosters := map[string][]graph.CommitteeMember{
		"SHHS": {
			{MemberID: "3324", Role: graph.RoleChair},
			{MemberID: "3325", Role: graph.RoleViceChair},
			{MemberID: "3326", Role: graph.RoleMinoritySpokesperson},
			{MemberID: "3327", Role: graph.RoleMember},
		},
		"SENV": {
			{MemberID: "3327", Role: graph.RoleChair},
			{MemberID: "3324", Role: graph.RoleMember},
			{MemberID: "3323", Role: graph.RoleMinoritySpokesperson},
		},
		"STEL": {
			{MemberID: "3321", Role: graph.RoleChair},
			{MemberID: "3325", Role: graph.RoleMember},
		},
		"SENV-W": {
			{MemberID: "3324", Role: graph.RoleChair},
		},
		"HAPE": {
			{MemberID: "3414", Role: graph.RoleChair},
			{MemberID: "3411", Role: graph.RoleMember},
			{MemberID: "3416", Role: graph.RoleMinoritySpokesperson},
		},
		"HHED": {
			{MemberID: "3417", Role: graph.RoleChair},
			{MemberID: "3412", Role: graph.RoleMember},
		},
	}
	committeeBills := map[string][]string{
		"SHHS": {"157001"},
		"SENV": {"157004"},
		"STEL": {"157002"},
		"HAPE": {"157010"},
		"HHED": {"157012"},
	}
	return committees, rosters, committeeBills
}

// linkSponsorships populates member bill references from the bill records,
// and fills committee membership from the rosters.
func linkSponsorships(members []*graph.Member, bills map[string]*graph.Bill) {
	byID := map[string]*graph.Member{}
	for _, m := range members {
		byID[m.MemberID] = m
	}
	for legID, b := range bills {
		for i, id := range b.SponsorIDs {
			m, ok := byID[id]
			if !ok {
				continue
			}
			m.BillIDs = append(m.BillIDs, legID)
			if i == 0 {
				m.PrimaryBillIDs = append(m.PrimaryBillIDs, legID)
			}
		}
		for _, id := range b.HouseSponsorIDs {
			if m, ok := byID[id]; ok {
				m.BillIDs = append(m.BillIDs, legID)
			}
		}
	}
	_, rosters, _ := Committees()
	for code, roster := range rosters {
		for _, cm := range roster {
			if m, ok := byID[cm.MemberID]; ok {
				m.CommitteeCodes = append(m.CommitteeCodes, code)
				if cm.Role == graph.RoleChair {
					m.Roles = append(m.Roles, "Chair")
				}
				if cm.Role == graph.RoleMinoritySpokesperson {
					m.Roles = append(m.Roles, "Minority Spokesperson")
				}
			}
		}
	}
}

// VoteEvents returns roll calls consistent with the bill action histories.
func VoteEvents() []*graph.VoteEvent {
	return []*graph.VoteEvent{
		{
			BillNumber:    "SB0145",
			Chamber:       graph.ChamberSenate,
			Date:          date(2025, 3, 12),
			Kind:          graph.VoteCommittee,
			CommitteeCode: "SHHS",
			Motion:        "Do Pass Health and Human Services",
			Yea:           []string{"Vasquez", "Dubois", "Park, S.", "Jeffers"},
			Nay:           []string{"Kowalski-Reyes"},
		},
		{
			BillNumber: "SB0145",
			Chamber:    graph.ChamberSenate,
			Date:       date(2025, 3, 20),
			Kind:       graph.VoteThirdReading,
			Motion:     "Third Reading",
			Yea:        []string{"Vasquez", "Webb", "Dubois", "Park, S.", "Jeffers", "Kowalski-Reyes"},
			Nay:        []string{"O'Donnell", "Whitfield"},
		},
		{
			BillNumber: "SB0289",
			Chamber:    graph.ChamberSenate,
			Date:       date(2025, 3, 25),
			Kind:       graph.VoteThirdReading,
			Motion:     "Third Reading",
			Yea:        []string{"Webb", "Park, S.", "Vasquez", "Dubois"},
			Nay:        []string{"O'Donnell", "Whitfield", "Kowalski-Reyes"},
			Present:    []string{"Jeffers"},
		},
		{
			BillNumber: "HB1234",
			Chamber:    graph.ChamberHouse,
			Date:       date(2025, 3, 27),
			Kind:       graph.VoteThirdReading,
			Motion:     "Third Reading - Short Debate",
			Yea:        []string{"Morrison", "Hernandez", "Dawson", "Okafor", "Park, D.", "Ellingboe"},
			Nay:        []string{"Beaumont", "Lindqvist"},
		},
	}
}

// WitnessSlips returns slips matching the committee hearings above.
func WitnessSlips() []*graph.WitnessSlip {
	return []*graph.WitnessSlip{
		{BillNumber: "SB0145", Chamber: graph.ChamberSenate, CommitteeCode: "SHHS", HearingDate: date(2025, 3, 12), FilerName: "Maria Gonzalez", Represents: "Illinois Public Health Association", Position: graph.SlipProponent, WillTestify: true},
		{BillNumber: "SB0145", Chamber: graph.ChamberSenate, CommitteeCode: "SHHS", HearingDate: date(2025, 3, 12), FilerName: "Robert Chen", Represents: "Illinois Public Health Association", Position: graph.SlipProponent},
		{BillNumber: "SB0145", Chamber: graph.ChamberSenate, CommitteeCode: "SHHS", HearingDate: date(2025, 3, 12), FilerName: "Janet Fields", Represents: "self", Position: graph.SlipProponent},
		{BillNumber: "SB0145", Chamber: graph.ChamberSenate, CommitteeCode: "SHHS", HearingDate: date(2025, 3, 12), FilerName: "Gregory Stein", Represents: "Pharmaceutical Research Alliance", Position: graph.SlipOpponent, WillTestify: true},
		{BillNumber: "SB0145", Chamber: graph.ChamberSenate, CommitteeCode: "SHHS", HearingDate: date(2025, 3, 12), FilerName: "Alice Munroe", Represents: "Hospital Council of Illinois", Position: graph.SlipNoPosition},
		{BillNumber: "SB0289", Chamber: graph.ChamberSenate, CommitteeCode: "STEL", HearingDate: date(2025, 3, 11), FilerName: "Derek Holt", Represents: "Municipal League", Position: graph.SlipProponent},
		{BillNumber: "SB0289", Chamber: graph.ChamberSenate, CommitteeCode: "STEL", HearingDate: date(2025, 3, 11), FilerName: "Susan Albright", Represents: "Broadband Providers Coalition", Position: graph.SlipOpponent, WillTestify: true},
		{BillNumber: "SB0289", Chamber: graph.ChamberSenate, CommitteeCode: "STEL", HearingDate: date(2025, 3, 11), FilerName: "Theodore Vance", Represents: "Broadband Providers Coalition", Position: graph.SlipOpponent},
		{BillNumber: "HB1234", Chamber: graph.ChamberHouse, CommitteeCode: "HAPE", HearingDate: date(2025, 3, 18), FilerName: "Nina Patel", Represents: "School Nutrition Association", Position: graph.SlipProponent, WillTestify: true},
		{BillNumber: "HB1234", Chamber: graph.ChamberHouse, CommitteeCode: "HAPE", HearingDate: date(2025, 3, 18), FilerName: "Carl Jessup", Represents: "self", Position: graph.SlipInformation},
	}
}
