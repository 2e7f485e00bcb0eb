package civics

import "sort"

// policyCommittees maps each supported policy category to the committee
// codes that hear its bills. This table is the only place that knows the
// mapping; the selector treats categories as opaque strings.
var policyCommittees = map[string][]string{
	"healthcare":       {"SHEA", "HHSC", "SPHA"},
	"education":        {"SESE", "HELM", "SHED"},
	"environment":      {"SENV", "HENG", "SENE"},
	"criminal-justice": {"SCRL", "HJUA", "SJUD"},
	"housing":          {"SLGV", "HHSG", "SFIC"},
	"labor":            {"SLAB", "HLBR"},
	"transportation":   {"STRN", "HTRR"},
	"agriculture":      {"SAGR", "HAGC"},
	"revenue":          {"SREV", "HREF"},
	"human-services":   {"SHMS", "HHSV"},
	"gun-policy":       {"SPSF", "HJUA"},
	"elections":        {"SEXC", "HELC"},
}

// PolicyCategories lists the supported categories, sorted for stable UI.
func PolicyCategories() []string {
	out := make([]string, 0, len(policyCommittees))
	for c := range policyCommittees {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CommitteesForCategory returns the committee codes for a category, or nil
// for an unknown category.
func CommitteesForCategory(category string) []string {
	return policyCommittees[category]
}
