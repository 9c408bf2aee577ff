package pseudonymizer

import (
	"regexp"
	"sort"
	"time"
)

// span is one candidate PII detection: a half-open [start, end) byte range
// in the source text together with the category that claimed it. Spans are
// created by detectors and never mutated afterwards; the resolver decides
// which ones survive.
type span struct {
	start, end int
	category   Category
	text       string // the matched text, exactly as it appears in the source

	// rank orders competing detections: lower ranks belong to earlier,
	// more specific pipeline stages and win ties against later, broader
	// patterns. It is only consulted when two spans share both start
	// offset and length.
	rank int

	// date is set for birth-date and generic-date spans that parsed
	// successfully. These feed the reference-date pool.
	date    time.Time
	hasDate bool
}

// validSpan rejects candidates with impossible offsets before they reach
// the resolver. Detectors built on FindAllStringSubmatchIndex should never
// produce these, but a bad capture group is cheaper to drop than to debug
// in a corrupted output document.
func validSpan(text string, sp span) bool {
	return sp.start >= 0 && sp.start < sp.end && sp.end <= len(text)
}

// resolveSpans turns the unordered union of all candidate spans into a
// non-overlapping subset. Sort order: start offset ascending, then longest
// span first, then lowest detector rank. A single greedy pass with a
// cursor then accepts every span that begins at or after the end of the
// previously accepted one.
//
// The result is deterministic: earliest-then-longest interval scheduling,
// with detector priority breaking exact ties.
func resolveSpans(spans []span) []span {
	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		li, lj := sorted[i].end-sorted[i].start, sorted[j].end-sorted[j].start
		if li != lj {
			return li > lj
		}
		return sorted[i].rank < sorted[j].rank
	})

	accepted := sorted[:0]
	lastEnd := 0
	for _, sp := range sorted {
		if sp.start < lastEnd {
			continue // claimed by an earlier or longer span
		}
		accepted = append(accepted, sp)
		lastEnd = sp.end
	}
	return accepted
}

// spliceSpans substitutes labels[i] for accepted[i] in text. Spans must be
// sorted ascending and non-overlapping (the resolver guarantees both).
// Replacement walks right to left so the byte offsets of spans not yet
// applied stay valid.
func spliceSpans(text string, accepted []span, labels []string) string {
	out := text
	for i := len(accepted) - 1; i >= 0; i-- {
		sp := accepted[i]
		out = out[:sp.start] + labels[i] + out[sp.end:]
	}
	return out
}

// matchSpans runs re over text and returns one span per match, covering
// capture group g (0 = the whole match). Matches whose group did not
// participate are skipped.
func matchSpans(text string, re *regexp.Regexp, g int, cat Category, rank int) []span {
	var out []span
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		lo, hi := m[2*g], m[2*g+1]
		if lo < 0 || hi < 0 {
			continue
		}
		sp := span{start: lo, end: hi, category: cat, text: text[lo:hi], rank: rank}
		if validSpan(text, sp) {
			out = append(out, sp)
		}
	}
	return out
}

// overlaps reports whether [lo,hi) intersects any span already in spans.
// Used by detectors that run several patterns for one category and must
// not claim the same text twice.
func overlaps(spans []span, lo, hi int) bool {
	for _, sp := range spans {
		if lo < sp.end && sp.start < hi {
			return true
		}
	}
	return false
}
