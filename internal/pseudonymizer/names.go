package pseudonymizer

import "regexp"

// The name detector runs a cascade of patterns from most to least
// specific. Every pattern produces candidate spans tagged with its own
// rank; the cascade deduplicates internally (a span claimed by an earlier,
// more specific pattern is never re-claimed by a later one), and the
// resolver enforces the same ownership against all other categories.
//
// Titles and honorifics ("Dr.", "mevrouw") are matched but deliberately
// left outside the span, so "Dr. M. van Leeuwen" becomes "Dr. [PERSOON_n]"
// and the registry key is the name alone.

// namePattern is one stage of the cascade.
type namePattern struct {
	re    *regexp.Regexp
	group int  // capture group that becomes the span
	gated bool // word-filtered against the stoplist (the permissive pair pattern)
}

func compileNamePatterns() []namePattern {
	const tv = `(?:van|de|den|der|het|ter|ten)` // tussenvoegsel
	np := func(expr string, group int) namePattern {
		return namePattern{re: regexp.MustCompile(expr), group: group}
	}

	pats := []namePattern{
		// (a) international given name + particle + surname:
		// "Fatima El Amrani", "Ahmed Ben Ali".
		np(`\b[A-Z]`+lower+`+\s+(?:El|Al|Ben|Ibn|Abu|Bin)\s+[A-Z][a-zéëïöüA-Z]+\b`, 0),

		// (b) double surname with hyphenated tussenvoegsel:
		// "Sanne de Vries-van Dijk".
		np(`\b[A-Z]`+lower+`+\s+(?:`+tv+`\s+)?[A-Z]`+lower+`+-(?:van|de|den|der)\s+[A-Z]`+lower+`+\b`, 0),

		// (c) given name + tussenvoegsel (optionally doubled) + surname:
		// "Jan van den Berg", "Piet de Groot".
		np(`\b[A-Z]`+lower+`+\s+`+tv+`(?:\s+(?:de|den|der|het))?\s+[A-Z]`+lower+`+\b`, 0),

		// (d) title + optional initials/tussenvoegsel + surname; the title
		// stays in the output.
		np(`\b(?:[Dd]rs|[Dd]r|[Mm]evr|[Mm]r|[Mm]w|[Dd]hr|[Pp]rof|[Ii]ng|[Ii]r)\.?\s+((?:[A-Z]\.\s*)*(?:`+tv+`\s+(?:(?:de|den|der)\s+)?)?[A-Z]`+lower+`+)\b`, 1),

		// (e) initials + optional tussenvoegsel + surname:
		// "S. de Vries", "N. Jansen".
		np(`\b(?:[A-Z]\.\s?)+(?:`+tv+`\s+(?:(?:de|den)\s+)?)?[A-Z]`+lower+`+\b`, 0),

		// (f) honorific + surname; honorific stays in the output.
		np(`\b(?:[Mm]evrouw|[Mm]eneer|[Gg]eachte\s+(?:heer|mevrouw))\s+((?:(?:van|de|den|der)\s+)?[A-Z]`+lower+`+)\b`, 1),

		// (g) given name + single initial: "Youssef A.".
		np(`\b[A-Z]`+lower+`{2,}\s+[A-Z]\.`, 0),

		// (h) plain capitalized pair. Maximally permissive, so it is the
		// one stage gated by the stoplist: section headers, city names and
		// department words would otherwise all become persons.
		{re: regexp.MustCompile(`\b([A-Z]` + lower + `{2,})\s+([A-Z]` + lower + `{2,})\b`), group: 0, gated: true},
	}
	return pats
}

// detectNames runs the cascade, deduplicating across its own stages.
func (e *Engine) detectNames(text string) []span {
	var out []span
	for i, p := range e.nameRes {
		rank := rankName + i
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			lo, hi := m[2*p.group], m[2*p.group+1]
			if lo < 0 || hi < 0 {
				continue
			}
			if overlaps(out, lo, hi) {
				continue // owned by an earlier cascade stage
			}
			if p.gated && e.stoplisted(text, m) {
				continue
			}
			sp := span{start: lo, end: hi, category: CatName, text: text[lo:hi], rank: rank}
			if validSpan(text, sp) {
				out = append(out, sp)
			}
		}
	}
	return out
}

// stoplisted reports whether any captured word of a gated match is on the
// stoplist. m is a FindAllStringSubmatchIndex entry.
func (e *Engine) stoplisted(text string, m []int) bool {
	for g := 1; 2*g+1 < len(m); g++ {
		lo, hi := m[2*g], m[2*g+1]
		if lo < 0 || hi < 0 {
			continue
		}
		if e.stoplist[text[lo:hi]] {
			return true
		}
	}
	return false
}
