package gql

// SchemaSDL is the GraphQL schema. Large collections use the Connection
// shape; votes(billNumber) returns a raw list because roll calls per bill
// are bounded.
const SchemaSDL = `
schema {
	query: Query
}

enum SortOrder {
	ASC
	DESC
}

enum MemberSortField {
	NAME
	DISTRICT
	CHAMBER
	PARTY
	BILLS_INTRODUCED
	MONEYBALL_SCORE
}

enum BillSortField {
	NUMBER
	LAST_ACTION_DATE
	PIPELINE_DEPTH
	STATUS
}

enum LeaderboardSortField {
	SCORE
	EFFECTIVENESS
	MAGNET
	BRIDGE
	CENTRALITY
	INSTITUTIONAL_WEIGHT
}

type PageInfo {
	totalCount: Int!
	hasNextPage: Boolean!
	hasPreviousPage: Boolean!
}

type CareerRange {
	startYear: Int!
	endYear: Int
	chamber: String!
}

type Office {
	kind: String!
	address: String!
	phone: String
	fax: String
}

type Scorecard {
	billsIntroduced: Int!
	lawsPassed: Int!
	lawSuccessRate: Float!
	resolutionsFiled: Int!
	resolutionsPassed: Int!
	resolutionPassRate: Float!
	magnetScore: Float!
	bridgeScore: Float!
	avgPipelineDepth: Float!
	shellBillCount: Int!
}

type MoneyballProfile {
	effectiveness: Float!
	pipeline: Float!
	magnet: Float!
	bridge: Float!
	centrality: Float!
	institutionalWeight: Float!
	moneyballScore: Float!
	chamberRank: Int!
	overallRank: Int!
	nonLeadershipRank: Int
}

type Member {
	memberId: ID!
	name: String!
	chamber: String!
	party: String!
	district: Int!
	role: String
	roles: [String!]!
	committeeCodes: [String!]!
	careerRanges: [CareerRange!]!
	offices: [Office!]!
	seatBlockId: String
	seatRing: String
	seatmateNames: [String!]
	seatmateAffinity: Float
	scorecard: Scorecard
	moneyball: MoneyballProfile
	bills(limit: Int, offset: Int): BillConnection!
	primaryBills(limit: Int, offset: Int): BillConnection!
}

type MemberConnection {
	items: [Member!]!
	pageInfo: PageInfo!
}

type ActionEntry {
	date: String!
	chamber: String!
	action: String!
}

type Bill {
	legId: ID!
	billNumber: String!
	chamber: String!
	kind: String!
	description: String!
	synopsis: String
	statusUrl: String!
	status: String!
	pipelineDepth: Int!
	lastAction: String
	lastActionDate: String
	primarySponsor: Member
	sponsors: [Member!]!
	crossChamberSponsors: [Member!]!
	actions: [ActionEntry!]!
	votes: [VoteEvent!]!
	slipSummary: SlipSummary
}

type BillConnection {
	items: [Bill!]!
	pageInfo: PageInfo!
}

type VoteEvent {
	billNumber: String!
	chamber: String!
	date: String!
	voteType: String!
	committeeCode: String
	motion: String
	yeas: [String!]!
	nays: [String!]!
	present: [String!]!
	notVoting: [String!]!
	yeaMembers: [Member!]!
	nayMembers: [Member!]!
}

type VoteEventConnection {
	items: [VoteEvent!]!
	pageInfo: PageInfo!
}

type WitnessSlip {
	billNumber: String!
	chamber: String!
	committeeCode: String
	hearingDate: String!
	filerName: String!
	represents: String!
	position: String!
	willTestify: Boolean!
}

type WitnessSlipConnection {
	items: [WitnessSlip!]!
	pageInfo: PageInfo!
}

type SlipSummary {
	billNumber: String!
	proponents: Int!
	opponents: Int!
	noPosition: Int!
	information: Int!
	total: Int!
	willTestify: Int!
}

type SlipSummaryConnection {
	items: [SlipSummary!]!
	pageInfo: PageInfo!
}

type OrgCount {
	organization: String!
	count: Int!
	position: String!
}

type BillSlipAnalytics {
	summary: SlipSummary!
	supportRatio: Float!
	contested: Boolean!
	topOrgs: [OrgCount!]!
}

type SlipAlignment {
	member: Member
	billsCompared: Int!
	aligned: Int!
	alignmentRate: Float!
}

type DepthCount {
	depth: Int!
	count: Int!
}

type StatusCount {
	status: String!
	count: Int!
}

type AdvancementSummary {
	totalBills: Int!
	byStatus: [StatusCount!]!
	byDepth: [DepthCount!]!
	avgDepth: Float!
	signedRate: Float!
	avgDepthWithSlips: Float!
	avgDepthWithoutSlips: Float!
}

type LeaderboardEntry {
	rank: Int!
	member: Member!
	profile: MoneyballProfile!
}

type LeaderboardConnection {
	items: [LeaderboardEntry!]!
	pageInfo: PageInfo!
}

type GlossaryEntry {
	id: ID!
	label: String!
	kind: String!
	definition: String!
	formula: String
}

type AdvocacyCard {
	cardType: String!
	member: Member!
	why: String!
	scriptHint: String!
	badges: [String!]!
}

type Query {
	member(name: String!): Member
	members(sortBy: MemberSortField, sortOrder: SortOrder, chamber: String, limit: Int, offset: Int): MemberConnection!
	moneyballLeaderboard(chamber: String, excludeLeadership: Boolean, limit: Int, offset: Int, sortBy: LeaderboardSortField, sortOrder: SortOrder): LeaderboardConnection!
	bill(number: String!): Bill
	bills(sortBy: BillSortField, sortOrder: SortOrder, dateFrom: String, dateTo: String, limit: Int, offset: Int): BillConnection!
	votes(billNumber: String!): [VoteEvent!]!
	billVoteTimeline(billNumber: String!, chamber: String): [VoteEvent!]!
	allVoteEvents(voteType: String, chamber: String, limit: Int, offset: Int): VoteEventConnection!
	witnessSlips(billNumber: String!, limit: Int, offset: Int): WitnessSlipConnection!
	witnessSlipSummary(billNumber: String!): SlipSummary
	witnessSlipSummaries(limit: Int, offset: Int): SlipSummaryConnection!
	billSlipAnalytics(billNumber: String!): BillSlipAnalytics
	memberSlipAlignment(memberName: String!): SlipAlignment
	billAdvancementAnalyticsSummary: AdvancementSummary!
	metricsGlossary: [GlossaryEntry!]!
	advocacyTargets(zip: String!, policyCategory: String): [AdvocacyCard!]!
}
`
