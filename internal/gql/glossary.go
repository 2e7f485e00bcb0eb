package gql

// GlossaryEntry documents one metric the API exposes. Kind is "empirical"
// for directly counted values and "derived" for computed scores.
type GlossaryEntry struct {
	ID         string
	Label      string
	Kind       string
	Definition string
	Formula    string
}

var glossaryEntries = []GlossaryEntry{
	{
		ID:         "bills_introduced",
		Label:      "Bills Introduced",
		Kind:       "empirical",
		Definition: "Substantive bills (HB/SB) where the member is the primary sponsor. Shell bills are counted separately and excluded from rate denominators.",
	},
	{
		ID:         "laws_passed",
		Label:      "Laws Passed",
		Kind:       "empirical",
		Definition: "Primary-sponsored substantive bills signed into law as Public Acts.",
	},
	{
		ID:         "law_success_rate",
		Label:      "Law Success Rate",
		Kind:       "derived",
		Definition: "Share of a member's eligible substantive bills that became law.",
		Formula:    "laws_passed / (bills_introduced - shell_bill_count)",
	},
	{
		ID:         "resolution_pass_rate",
		Label:      "Resolution Pass Rate",
		Kind:       "derived",
		Definition: "Share of a member's resolutions that were adopted. Tracked separately because resolutions pass at far higher rates than bills.",
		Formula:    "resolutions_passed / resolutions_filed",
	},
	{
		ID:         "magnet_score",
		Label:      "Magnet Score",
		Kind:       "derived",
		Definition: "Average number of co-sponsors a member's primary bills attract. Measures how readily colleagues sign on.",
		Formula:    "total co-sponsors on eligible bills / eligible bills",
	},
	{
		ID:         "bridge_score",
		Label:      "Bridge Score",
		Kind:       "derived",
		Definition: "Share of a member's primary bills that attract at least one co-sponsor from the other party.",
		Formula:    "cross-party co-sponsored bills / eligible bills",
	},
	{
		ID:         "avg_pipeline_depth",
		Label:      "Average Pipeline Depth",
		Kind:       "derived",
		Definition: "How far a member's bills travel through the legislative funnel on average, from Filed (0) to Signed or Vetoed (6).",
		Formula:    "sum of pipeline depths / eligible bills",
	},
	{
		ID:         "pipeline_depth",
		Label:      "Pipeline Depth",
		Kind:       "empirical",
		Definition: "A bill's furthest stage: 0 Filed, 1 In Committee, 2 Passed Origin Chamber, 3 In Second Chamber Committee, 4 Passed Both, 5 Sent to Governor, 6 Signed or Vetoed.",
	},
	{
		ID:         "centrality",
		Label:      "Network Centrality",
		Kind:       "derived",
		Definition: "Fraction of chamber colleagues a member has co-sponsored with on substantive bills. High centrality means a wide working network.",
		Formula:    "distinct co-sponsorship partners / (chamber size - 1)",
	},
	{
		ID:         "institutional_weight",
		Label:      "Institutional Weight",
		Kind:       "empirical",
		Definition: "Formal power from titles: 1.0 for presiding officers and floor leaders, 0.5 for committee chairs and spokespersons, 0.25 for caucus chairs and whips.",
	},
	{
		ID:         "moneyball_score",
		Label:      "Moneyball Score",
		Kind:       "derived",
		Definition: "Composite influence score on a 0-100 scale. Magnet and centrality are rescaled within each chamber before weighting.",
		Formula:    "100 * (0.24*effectiveness + 0.16*pipeline + 0.16*magnet + 0.12*bridge + 0.12*centrality + 0.20*institutional_weight)",
	},
	{
		ID:         "seatmate_affinity",
		Label:      "Seatmate Affinity",
		Kind:       "derived",
		Definition: "Share of a senator's primary substantive bills co-sponsored by at least one physical seatmate on the chamber floor.",
		Formula:    "bills with a seatmate co-sponsor / primary substantive bills",
	},
	{
		ID:         "slip_support_ratio",
		Label:      "Slip Support Ratio",
		Kind:       "derived",
		Definition: "Among witness slips that take a side, the share filed in support.",
		Formula:    "proponents / (proponents + opponents)",
	},
	{
		ID:         "slip_alignment_rate",
		Label:      "Slip Alignment Rate",
		Kind:       "derived",
		Definition: "How often a member's third-reading floor votes agree with the majority position of the witness slips filed on the same bill.",
		Formula:    "aligned votes / bills compared",
	},
}
