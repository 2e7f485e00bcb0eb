package graph

import (
	"strings"
	"time"
)

// Chamber identifies one of the two ILGA chambers.
type Chamber string

const (
	ChamberHouse  Chamber = "House"
	ChamberSenate Chamber = "Senate"
)

// Party is the normalized party affiliation of a member.
type Party string

const (
	PartyDemocrat   Party = "Democrat"
	PartyRepublican Party = "Republican"
	PartyOther      Party = "Other"
)

// BillKind partitions bills by document prefix.
type BillKind string

const (
	// KindSubstantive covers HB and SB documents; only these feed scorecards.
	KindSubstantive BillKind = "Substantive"
	// KindResolution covers HR, SR, HJR and SJR documents.
	KindResolution BillKind = "Resolution"
	// KindConstAmendment covers HJRCA and SJRCA documents.
	KindConstAmendment BillKind = "ConstitutionalAmendment"
)

// CareerRange is one contiguous span of service in a chamber.
// EndYear zero means the range is open (serving through the present).
type CareerRange struct {
	StartYear int     `json:"start_year"`
	EndYear   int     `json:"end_year"`
	Chamber   Chamber `json:"chamber"`
}

// OfficeKind distinguishes a member's two listed offices.
type OfficeKind string

const (
	OfficeSpringfield OfficeKind = "Springfield"
	OfficeDistrict    OfficeKind = "District"
)

// Office is one of a member's listed offices.
type Office struct {
	Kind    OfficeKind `json:"kind"`
	Address string     `json:"address"`
	Phone   string     `json:"phone,omitempty"`
	Fax     string     `json:"fax,omitempty"`
}

// Member is a legislator. On disk a member references bills by leg_id only;
// the Graph resolves those references to *Bill at hydration time.
type Member struct {
	MemberID string  `json:"member_id"`
	Name     string  `json:"name"`
	Chamber  Chamber `json:"chamber"`
	Party    Party   `json:"party"`
	District int     `json:"district"`

	// Role is the leadership title shown on the member page, if any.
	Role         string        `json:"role,omitempty"`
	CareerRanges []CareerRange `json:"career_ranges,omitempty"`
	Offices      []Office      `json:"offices,omitempty"`

	CommitteeCodes []string `json:"committee_codes,omitempty"`
	// Roles aggregates leadership and committee titles (chair, spokesperson,
	// whip, ...) used for institutional weighting.
	Roles []string `json:"roles,omitempty"`

	BillIDs        []string `json:"bill_ids,omitempty"`
	PrimaryBillIDs []string `json:"primary_bill_ids,omitempty"`

	// Seating fields are populated for senators only; all four stay at their
	// zero value for House members.
	SeatBlockID      string   `json:"seat_block_id,omitempty"`
	SeatRing         string   `json:"seat_ring,omitempty"`
	SeatmateNames    []string `json:"seatmate_names,omitempty"`
	SeatmateAffinity *float64 `json:"seatmate_affinity,omitempty"`

	DetailURL string `json:"detail_url,omitempty"`
}

// BillStatus is the derived position of a bill in the legislative process.
type BillStatus string

const (
	StatusFiled          BillStatus = "Filed"
	StatusInCommittee    BillStatus = "In Committee"
	StatusPassedChamber  BillStatus = "Passed Chamber"
	StatusPassedBoth     BillStatus = "Passed Both"
	StatusSentToGovernor BillStatus = "Sent to Governor"
	StatusSigned         BillStatus = "Signed"
	StatusVetoed         BillStatus = "Vetoed"
	StatusDead           BillStatus = "Dead"
)

// ActionEntry is one row of a bill's action history.
type ActionEntry struct {
	Date    time.Time `json:"date"`
	Action  string    `json:"action"`
	Chamber Chamber   `json:"chamber"`
}

// Bill is a single legislative document. LegID is ILGA's stable key taken
// from the status URL query string; BillNumber is the display form (SB0145).
type Bill struct {
	LegID       string   `json:"leg_id"`
	BillNumber  string   `json:"bill_number"`
	Chamber     Chamber  `json:"chamber"`
	Kind        BillKind `json:"kind"`
	Description string   `json:"description"`
	Synopsis    string   `json:"synopsis,omitempty"`
	StatusURL   string   `json:"status_url"`

	// PrimarySponsor is the display name of the first sponsor; kept because
	// early scrapes predate sponsor ID resolution.
	PrimarySponsor string `json:"primary_sponsor,omitempty"`
	// SponsorIDs lists member IDs in filing order, primary first.
	SponsorIDs []string `json:"sponsor_ids,omitempty"`
	// HouseSponsorIDs lists sponsors picked up in the opposite chamber after
	// crossover. Empty until the bill crosses over.
	HouseSponsorIDs []string `json:"house_sponsor_ids,omitempty"`

	LastAction     string     `json:"last_action,omitempty"`
	LastActionDate *time.Time `json:"last_action_date,omitempty"`

	Actions []ActionEntry `json:"action_history,omitempty"`

	// Derived by the graph builder from Actions; persisted for convenience.
	Status        BillStatus `json:"status,omitempty"`
	PipelineDepth int        `json:"pipeline_depth"`
}

// IsSubstantive reports whether the bill counts toward scorecards.
func (b *Bill) IsSubstantive() bool { return b.Kind == KindSubstantive }

// CoSponsorIDs returns every sponsor after the primary.
func (b *Bill) CoSponsorIDs() []string {
	if len(b.SponsorIDs) < 2 {
		return nil
	}
	return b.SponsorIDs[1:]
}

// NormalizeBillNumber canonicalizes a caller-supplied display number to the
// stored form: uppercase prefix, digits zero-padded to four ("sb145" ->
// "SB0145"). Unrecognized input is returned uppercased.
func NormalizeBillNumber(number string) string {
	n := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(number), " ", ""))
	i := 0
	for i < len(n) && (n[i] < '0' || n[i] > '9') {
		i++
	}
	prefix, digits := n[:i], n[i:]
	if prefix == "" || digits == "" {
		return n
	}
	for len(digits) < 4 {
		digits = "0" + digits
	}
	return prefix + digits
}

// KindForBillNumber derives the bill kind from its display prefix.
func KindForBillNumber(number string) BillKind {
	n := strings.ToUpper(number)
	switch {
	case strings.Contains(n, "JRCA"):
		return KindConstAmendment
	case strings.HasPrefix(n, "HB"), strings.HasPrefix(n, "SB"):
		return KindSubstantive
	default:
		return KindResolution
	}
}

// ChamberForBillNumber derives the originating chamber from the prefix.
func ChamberForBillNumber(number string) Chamber {
	if strings.HasPrefix(strings.ToUpper(number), "S") {
		return ChamberSenate
	}
	return ChamberHouse
}

// CommitteeRole is a member's role on a committee roster.
type CommitteeRole string

const (
	RoleChair                CommitteeRole = "Chair"
	RoleViceChair            CommitteeRole = "Vice-Chair"
	RoleMinoritySpokesperson CommitteeRole = "Minority Spokesperson"
	RoleMember               CommitteeRole = "Member"
)

// CommitteeMember is one roster row.
type CommitteeMember struct {
	MemberID string        `json:"member_id"`
	Role     CommitteeRole `json:"role"`
}

// Committee is a standing committee or subcommittee.
type Committee struct {
	Code       string            `json:"code"`
	Name       string            `json:"name"`
	ParentCode string            `json:"parent_code,omitempty"`
	Chamber    Chamber           `json:"chamber"`
	Members    []CommitteeMember `json:"members,omitempty"`
	BillIDs    []string          `json:"bill_ids,omitempty"`
}

// VoteKind classifies a roll call.
type VoteKind string

const (
	VoteCommittee    VoteKind = "CommitteeVote"
	VoteThirdReading VoteKind = "FloorThirdReading"
	VoteConcurrence  VoteKind = "Concurrence"
	VoteOverride     VoteKind = "Override"
	VoteOther        VoteKind = "Other"
)

// VoteEvent is one recorded roll call. The four name lists preserve the
// spelling reported by ILGA; the parallel ID lists hold the subset of names
// the graph builder could reconcile to members.
type VoteEvent struct {
	BillNumber    string    `json:"bill_number"`
	Chamber       Chamber   `json:"chamber"`
	Date          time.Time `json:"date"`
	Kind          VoteKind  `json:"kind"`
	CommitteeCode string    `json:"committee_code,omitempty"`
	Motion        string    `json:"motion,omitempty"`

	Yea     []string `json:"yea_votes,omitempty"`
	Nay     []string `json:"nay_votes,omitempty"`
	Present []string `json:"present_votes,omitempty"`
	NV      []string `json:"nv_votes,omitempty"`

	YeaIDs     []string `json:"yea_ids,omitempty"`
	NayIDs     []string `json:"nay_ids,omitempty"`
	PresentIDs []string `json:"present_ids,omitempty"`
	NVIDs      []string `json:"nv_ids,omitempty"`
}

// SlipPosition is the stance declared on a witness slip.
type SlipPosition string

const (
	SlipProponent   SlipPosition = "Proponent"
	SlipOpponent    SlipPosition = "Opponent"
	SlipNoPosition  SlipPosition = "NoPosition"
	SlipInformation SlipPosition = "Information"
)

// WitnessSlip is one public filing on a committee hearing.
type WitnessSlip struct {
	BillNumber    string       `json:"bill_number"`
	Chamber       Chamber      `json:"chamber"`
	CommitteeCode string       `json:"committee_code,omitempty"`
	HearingDate   time.Time    `json:"hearing_date"`
	FilerName     string       `json:"filer_name"`
	Represents    string       `json:"represents,omitempty"`
	Position      SlipPosition `json:"position"`
	WillTestify   bool         `json:"will_testify"`
}

// Key identifies a slip for de-duplication: one slip per
// (bill, filer, hearing date, position).
func (s WitnessSlip) Key() string {
	return s.BillNumber + "|" + s.FilerName + "|" + s.HearingDate.Format("2006-01-02") + "|" + string(s.Position)
}

// Scorecard summarizes a member's substantive lawmaking. Shell bills are
// excluded from the rate denominators but counted in ShellBillCount.
type Scorecard struct {
	MemberID string `json:"member_id"`

	BillsIntroduced int     `json:"bills_introduced"`
	LawsPassed      int     `json:"laws_passed"`
	LawSuccessRate  float64 `json:"law_success_rate"`

	ResolutionsFiled   int     `json:"resolutions_filed"`
	ResolutionsPassed  int     `json:"resolutions_passed"`
	ResolutionPassRate float64 `json:"resolution_pass_rate"`

	MagnetScore      float64 `json:"magnet_score"`
	BridgeScore      float64 `json:"bridge_score"`
	AvgPipelineDepth float64 `json:"avg_pipeline_depth"`
	ShellBillCount   int     `json:"shell_bill_count"`
}

// MoneyballProfile is the composite influence profile. Component scores are
// min/max normalized to [0,1] across the member's chamber.
type MoneyballProfile struct {
	MemberID string `json:"member_id"`

	Effectiveness       float64 `json:"effectiveness"`
	Pipeline            float64 `json:"pipeline"`
	Magnet              float64 `json:"magnet"`
	Bridge              float64 `json:"bridge"`
	Centrality          float64 `json:"centrality"`
	InstitutionalWeight float64 `json:"institutional_weight"`

	MoneyballScore float64 `json:"moneyball_score"`

	ChamberRank       int `json:"chamber_rank"`
	OverallRank       int `json:"overall_rank"`
	NonLeadershipRank int `json:"non_leadership_rank,omitempty"`
}

// IsLeadership reports whether the member is excluded from the
// non-leadership leaderboard.
func (p MoneyballProfile) IsLeadership() bool { return p.InstitutionalWeight >= 0.50 }
