package pseudonymizer

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// registry assigns stable pseudonyms within a single document run. The same
// entity text, however capitalized or spaced, always maps to the same label;
// distinct entities get consecutive counters per category.
//
// A registry belongs to exactly one run and is discarded with it. Nothing
// here may survive across documents: sharing counters between two dossiers
// would silently merge unrelated patients' numbering.
type registry struct {
	entries  map[string]string // normalized key → label
	counters map[Category]int
}

func newRegistry() *registry {
	return &registry{
		entries:  make(map[string]string),
		counters: make(map[Category]int),
	}
}

// normalizeKey folds an entity's surface text into its registry key:
// NFC-normalized (scanned documents mix composed and decomposed diacritics),
// lower-cased, internal whitespace collapsed to single spaces.
func normalizeKey(text string) string {
	folded := strings.ToLower(norm.NFC.String(text))
	return strings.Join(strings.Fields(folded), " ")
}

// lookupOrCreate returns the label for the given entity, assigning the next
// counter for its category on first sighting. Counters start at 1 and never
// decrease.
func (g *registry) lookupOrCreate(cat Category, text string) string {
	key := normalizeKey(text)
	if label, ok := g.entries[key]; ok {
		return label
	}
	g.counters[cat]++
	label := fmt.Sprintf("[%s_%d]", labelPrefix(cat), g.counters[cat])
	g.entries[key] = label
	return label
}

// snapshot copies the key → label map for the caller-owned Result.
func (g *registry) snapshot() map[string]string {
	out := make(map[string]string, len(g.entries))
	for k, v := range g.entries {
		out[k] = v
	}
	return out
}

// labelPrefix maps a registry-backed category to its label word.
func labelPrefix(cat Category) string {
	switch cat {
	case CatName:
		return "PERSOON"
	case CatAddress:
		return "ADRES"
	default:
		return strings.ToUpper(string(cat))
	}
}
