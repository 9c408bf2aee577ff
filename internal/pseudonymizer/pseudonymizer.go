// Package pseudonymizer detects and replaces personally identifiable
// information in Dutch medical dossier text.
//
// Detection runs as a fixed pipeline of category detectors (identifiers,
// contact data, locations, names, dates), each a pure regex scan producing
// candidate spans. A single resolver pass merges the candidates into a
// non-overlapping replacement plan; earlier, more specific categories
// reserve text that later, broader patterns cannot re-claim. Repeated
// entities receive stable per-document pseudonyms ([PERSOON_1], [ADRES_1]),
// and dates are rewritten as human-readable offsets relative to the
// incident date ([+3 weken], [-1 jaar]).
//
// One Engine is created at startup with compiled patterns and the name
// stoplist; every Pseudonymize call runs with its own private state, so an
// Engine is safe for concurrent use across documents. Nothing persists
// between calls: pseudonym numbering and the reference date are scoped to
// a single document by design.
package pseudonymizer

import (
	"time"

	"dossier-pseudonymizer/internal/logger"
)

// Category classifies the kind of PII a span contains. The values double
// as statistics keys in the Result.
type Category string

// Detected PII categories, in pipeline order.
const (
	CatBirthDate Category = "birth_dates"
	CatBSN       Category = "bsn"
	CatIBAN      Category = "iban"
	CatPatientID Category = "patient_ids"
	CatPolicy    Category = "polis_numbers"
	CatClaim     Category = "schade_numbers"
	CatKvK       Category = "kvk"
	CatEmail     Category = "email"
	CatPhone     Category = "phone"
	CatAddress   Category = "addresses"
	CatPostal    Category = "postal_codes"
	CatName      Category = "names"
	CatDate      Category = "dates"
)

// Categories returns all categories in pipeline order, for stable
// reporting.
func Categories() []Category {
	return []Category{
		CatBirthDate, CatBSN, CatIBAN, CatPatientID, CatPolicy, CatClaim,
		CatKvK, CatEmail, CatPhone, CatAddress, CatPostal, CatName, CatDate,
	}
}

// Detector ranks, consulted by the resolver only for exact start+length
// ties. The gaps leave room for the name cascade's sub-ranks.
const (
	rankBirthDate = 10
	rankBSN       = 20
	rankIBAN      = 30
	rankPatientID = 40
	rankPolicy    = 50
	rankKvK       = 60
	rankEmail     = 70
	rankPhone     = 80
	rankAddress   = 90
	rankPostal    = 100
	rankName      = 110 // + pattern index within the cascade
	rankDate      = 200
)

// fixedLabels are the replacement labels for categories without per-entity
// numbering.
var fixedLabels = map[Category]string{
	CatBirthDate: "[GEBOORTEDATUM]",
	CatBSN:       "[BSN]",
	CatIBAN:      "[IBAN]",
	CatPatientID: "[PATIENT_ID]",
	CatPolicy:    "[POLIS_NUMMER]",
	CatClaim:     "[SCHADE_NUMMER]",
	CatKvK:       "[KVK_NUMMER]",
	CatEmail:     "[EMAIL]",
	CatPhone:     "[TELEFOON]",
	CatPostal:    "[POSTCODE]",
}

// Result is the caller-owned outcome of one pseudonymization run.
type Result struct {
	PseudonymizedText string            `json:"pseudonymizedText"`
	OriginalText      string            `json:"originalText"`
	Replacements      map[string]string `json:"replacements"` // normalized entity → label, for audit
	Statistics        map[Category]int  `json:"statistics"`
	IncidentDate      *time.Time        `json:"incidentDate,omitempty"`
	Warnings          []string          `json:"warnings"`
}

// TotalReplacements sums the per-category counts.
func (r *Result) TotalReplacements() int {
	total := 0
	for _, n := range r.Statistics {
		total += n
	}
	return total
}

// Options configure a new Engine.
type Options struct {
	// Stoplist holds capitalized words that the most permissive name
	// pattern must never treat as part of a personal name (section
	// headers, city names, department words). See the stoplist package
	// for the default set.
	Stoplist []string

	// Log receives debug output about span counts and resolution.
	// May be nil.
	Log *logger.Logger
}

// Engine holds the compiled detector patterns and the stoplist. Create one
// with New and reuse it; compilation is the expensive part.
type Engine struct {
	birthDateRes []*compiledPattern
	bsnRes       []*compiledPattern
	ibanRe       *compiledPattern
	patientIDRe  *compiledPattern
	policyRes    []*compiledPattern
	kvkRe        *compiledPattern
	emailRe      *compiledPattern
	phoneRes     []*compiledPattern
	addressRe    *compiledPattern
	postalRe     *compiledPattern
	nameRes      []namePattern
	dateRe       *compiledPattern
	incidentRes  []*compiledPattern

	stoplist map[string]bool
	log      *logger.Logger
}

// New compiles all detector patterns and returns a ready Engine.
func New(opts Options) *Engine {
	e := &Engine{
		stoplist: make(map[string]bool, len(opts.Stoplist)),
		log:      opts.Log,
	}
	for _, w := range opts.Stoplist {
		e.stoplist[w] = true
	}
	e.compilePatterns()
	return e
}

// run is the per-document pipeline context: registry, statistics, warnings
// and the reference date all live here and die with the call. It is never
// shared between documents.
type run struct {
	registry *registry
	stats    map[Category]int
	warnings []string

	refDate  *time.Time
	datePool []time.Time // every date parsed while scanning, birth + generic
}

// Pseudonymize transforms one document. refDate, when non-nil, anchors
// relative date labels; otherwise the engine tries to detect the incident
// date from context keywords and finally falls back to the earliest date
// found anywhere in the document.
//
// The call performs no I/O and never fails: malformed identifiers and
// unparsable dates are non-matches, not errors. Degraded conditions are
// reported through Result.Warnings.
func (e *Engine) Pseudonymize(text string, refDate *time.Time) *Result {
	r := &run{
		registry: newRegistry(),
		stats:    make(map[Category]int),
	}
	if refDate != nil {
		d := truncateDay(*refDate)
		r.refDate = &d
	}

	// Supplied date wins; otherwise look for an incident keyword next to
	// a date ("trauma op 18-11-2025", "datum ongeval: ...").
	if r.refDate == nil {
		if d, ok := e.detectIncidentDate(text); ok {
			r.refDate = &d
		}
	}

	// Scanning phase. Detectors are pure functions of the text; they
	// only produce candidates and never touch run state.
	var candidates []span
	candidates = append(candidates, e.detectBirthDates(text)...)
	candidates = append(candidates, e.detectBSN(text)...)
	candidates = append(candidates, e.detectIBAN(text)...)
	candidates = append(candidates, e.detectPatientIDs(text)...)
	candidates = append(candidates, e.detectPolicyNumbers(text)...)
	candidates = append(candidates, e.detectKvK(text)...)
	candidates = append(candidates, e.detectEmail(text)...)
	candidates = append(candidates, e.detectPhone(text)...)
	candidates = append(candidates, e.detectAddresses(text)...)
	candidates = append(candidates, e.detectPostalCodes(text)...)
	candidates = append(candidates, e.detectNames(text)...)
	candidates = append(candidates, e.detectDates(text)...)

	// Date collection must finish before any date can be labeled: the
	// fallback reference is the minimum over every parsed date, known
	// only now.
	for _, sp := range candidates {
		if sp.hasDate {
			r.datePool = append(r.datePool, sp.date)
		}
	}
	if r.refDate == nil {
		if d, ok := earliest(r.datePool); ok {
			r.refDate = &d
		}
	}
	if r.refDate == nil {
		r.warnings = append(r.warnings,
			"Geen ongevalsdatum gevonden. Datums worden als [DATUM] weergegeven. "+
				"Vul de ongevalsdatum handmatig in voor relatieve datums.")
	}

	// Resolution, then labeling in text order so pseudonym counters are
	// assigned deterministically left to right.
	accepted := resolveSpans(candidates)
	labels := make([]string, len(accepted))
	for i, sp := range accepted {
		labels[i] = r.label(sp)
		r.stats[sp.category]++
	}

	if e.log != nil {
		e.log.Debugf("pseudonymize", "%d candidates, %d accepted, %d categories",
			len(candidates), len(accepted), len(r.stats))
	}

	return &Result{
		PseudonymizedText: spliceSpans(text, accepted, labels),
		OriginalText:      text,
		Replacements:      r.registry.snapshot(),
		Statistics:        r.stats,
		IncidentDate:      r.refDate,
		Warnings:          r.warnings,
	}
}

// label produces the replacement text for one accepted span.
func (r *run) label(sp span) string {
	switch sp.category {
	case CatName, CatAddress:
		return r.registry.lookupOrCreate(sp.category, sp.text)
	case CatDate:
		if r.refDate == nil || !sp.hasDate {
			return "[DATUM]"
		}
		return relativeDateLabel(sp.date, *r.refDate)
	default:
		return fixedLabels[sp.category]
	}
}

// earliest returns the minimum of the pool, if any.
func earliest(pool []time.Time) (time.Time, bool) {
	if len(pool) == 0 {
		return time.Time{}, false
	}
	min := pool[0]
	for _, d := range pool[1:] {
		if d.Before(min) {
			min = d
		}
	}
	return min, true
}

// truncateDay drops the time-of-day component; all date arithmetic in the
// engine works on UTC midnights.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
