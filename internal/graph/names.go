package graph

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics so "Muñoz" and "Munoz" compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldName lowercases a name and strips diacritics and honorifics
// ("Sen. Sara Feigenholtz" -> "sara feigenholtz").
func FoldName(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range []string{"Sen.", "Rep.", "Senator", "Representative", "Hon."} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
	}
	// Drop trailing parentheticals like "(D)" or "(Chair)".
	if i := strings.Index(s, "("); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// splitName returns (given, surname) for a folded name, handling both
// "last, first" and "first last" orders. Compound surnames keep all their
// tokens: "mary glowiak hilton" -> ("mary", "glowiak hilton") is NOT
// assumed; the caller matches compounds via surnameForms.
func splitName(folded string) (given, surname string) {
	if i := strings.Index(folded, ","); i >= 0 {
		return strings.TrimSpace(folded[i+1:]), strings.TrimSpace(folded[:i])
	}
	fields := strings.Fields(folded)
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return "", fields[0]
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

// surnameForms lists every form under which a member's surname should be
// findable. A compound surname (hyphenated or a two-token tail such as
// "Glowiak Hilton") is indexed under the full compound and its first token.
func surnameForms(fullFolded string) []string {
	fields := strings.Fields(fullFolded)
	if len(fields) == 0 {
		return nil
	}
	last := fields[len(fields)-1]
	forms := []string{last}
	if strings.Contains(last, "-") {
		forms = append(forms, strings.SplitN(last, "-", 2)[0])
	}
	if len(fields) >= 3 {
		// Two-token surname: index "glowiak hilton" and "glowiak".
		compound := fields[len(fields)-2] + " " + last
		forms = append(forms, compound, fields[len(fields)-2])
	}
	return forms
}

// NameMatcher resolves reported vote-sheet spellings ("Feigenholtz",
// "Glowiak Hilton, S.") to members of one chamber. Resolution succeeds only
// when exactly one member matches the surname (and given initial, when one
// is reported).
type NameMatcher struct {
	bySurname map[string][]*Member
}

// NewNameMatcher indexes the given members by every surname form.
func NewNameMatcher(members []*Member) *NameMatcher {
	m := &NameMatcher{bySurname: make(map[string][]*Member)}
	for _, mem := range members {
		folded := FoldName(mem.Name)
		seen := map[string]bool{}
		for _, form := range surnameForms(folded) {
			if form == "" || seen[form] {
				continue
			}
			seen[form] = true
			m.bySurname[form] = append(m.bySurname[form], mem)
		}
	}
	return m
}

// Resolve maps a reported name to a member. The reported form may be a bare
// surname, "Surname, F." or a full name; ambiguous surnames resolve only if
// the given-name initial disambiguates.
func (m *NameMatcher) Resolve(reported string) (*Member, bool) {
	folded := FoldName(reported)
	if folded == "" {
		return nil, false
	}
	// A compound surname reported whole ("glowiak hilton") must win before
	// name splitting misreads its first token as a given name.
	if !strings.Contains(folded, ",") {
		if c := m.bySurname[folded]; len(c) == 1 {
			return c[0], true
		}
	}
	given, surname := splitName(folded)

	candidates := m.bySurname[surname]
	if len(candidates) == 0 && given != "" {
		candidates = m.bySurname[folded]
		given = ""
	}
	if len(candidates) == 0 {
		return nil, false
	}
	if len(candidates) == 1 {
		return match(candidates[0], given)
	}
	// Ambiguous surname: require a matching given initial on exactly one.
	if given == "" {
		return nil, false
	}
	var hit *Member
	for _, c := range candidates {
		if g, _ := splitName(FoldName(c.Name)); g != "" && g[0] == given[0] {
			if hit != nil {
				return nil, false
			}
			hit = c
		}
	}
	if hit == nil {
		return nil, false
	}
	return hit, true
}

// match confirms a single candidate against an optional given initial.
func match(c *Member, given string) (*Member, bool) {
	if given == "" {
		return c, true
	}
	g, _ := splitName(FoldName(c.Name))
	if g == "" || g[0] == given[0] {
		return c, true
	}
	return nil, false
}
