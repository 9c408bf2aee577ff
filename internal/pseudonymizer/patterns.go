package pseudonymizer

import "regexp"

// compiledPattern pairs a compiled regex with the capture group whose range
// becomes the candidate span. Group 0 claims the whole match; a positive
// group lets keyword-prefixed detectors ("Polisnummer: X") replace only the
// identifier and keep the keyword in the output.
type compiledPattern struct {
	re    *regexp.Regexp
	group int
}

func cp(expr string, group int) *compiledPattern {
	return &compiledPattern{re: regexp.MustCompile(expr), group: group}
}

// Shared regex fragments.
const (
	lower   = `[a-zéëïöü]`               // lowercase incl. the diacritics common in Dutch names
	numDate = `\d{1,2}[-/]\d{1,2}[-/]\d{2,4}` // numeric D-M-Y / D/M/Y date
)

// compilePatterns builds every detector pattern once, at Engine creation.
func (e *Engine) compilePatterns() {
	// Birth dates: the keyword stays in the output, only the date span is
	// claimed (group 2).
	e.birthDateRes = []*compiledPattern{
		cp(`(?i)(geb(?:oortedatum|\.)?)\s*:?\s*(`+numDate+`)`, 2),
		cp(`(?i)(geboren\s+(?:op\s+)?)(`+numDate+`)`, 2),
		cp(`(?i)(DOB)\s*:?\s*(`+numDate+`)`, 2),
	}

	// BSN groupings: plain 9 digits, 4-2-3 with dots or spaces, 3-3-3 with
	// dots or dashes. Every match must still pass the 11-proef.
	e.bsnRes = []*compiledPattern{
		cp(`\b\d{4}[.\s]\d{2}[.\s]\d{3}\b`, 0),
		cp(`\b\d{9}\b`, 0),
		cp(`\b\d{3}[.\-]\d{3}[.\-]\d{3}\b`, 0),
	}

	// IBAN: country code + check digits + bank code + account number.
	// No checksum validation — the source system never validated these
	// either; flagged as a known gap rather than silently tightened.
	e.ibanRe = cp(`\b[A-Z]{2}\d{2}[A-Z]{4}\d{10}\b`, 0)

	e.patientIDRe = cp(`(?i)\b((?:patiënt|patient|cliënt|client)[-\s]?(?:ID|nummer)?)\s*:?\s*([A-Z0-9]+-[A-Z0-9]+-\d+)\b`, 2)

	e.policyRes = []*compiledPattern{
		cp(`(?i)\b(polis(?:nummer)?)\s*:?\s*([A-Z0-9][A-Z0-9\-]{3,})`, 2),
		cp(`(?i)\b(schade(?:nummer)?|schadenr\.?)\s*:?\s*([A-Z0-9][A-Z0-9\-]{3,})`, 2),
		cp(`\bPOL-[A-Z]+-\d{4}-\d+\b`, 0),
		cp(`\bSCH-\d{4}-\d{2}-\d+\b`, 0),
	}

	e.kvkRe = cp(`(?i)\b(kvk)\s*:?\s*(\d{8})\b`, 2)

	e.emailRe = cp(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`, 0)

	// Dutch dial patterns: mobile, international (+31 / 0031), area-code
	// landlines. Order matters — the detector keeps the first pattern that
	// claims a stretch of digits and skips later overlapping matches.
	e.phoneRes = []*compiledPattern{
		cp(`\+31\s*6[\s\-]?\d{4}[\s\-]?\d{4}`, 0),
		cp(`\+31\s*6[\s\-]?\d{8}`, 0),
		cp(`\+31\s*\d{2,3}[\s\-]?\d{6,7}`, 0),
		cp(`\b0031\s*6[\s\-]?\d{4}[\s\-]?\d{4}\b`, 0),
		cp(`\b0031\s*\d{1,3}[\s\-]?\d{6,8}\b`, 0),
		cp(`\b06[\s\-]?\d{4}[\s\-]?\d{4}\b`, 0),
		cp(`\b06[\s\-]?\d{8}\b`, 0),
		cp(`\b0\d{2,3}[\s\-]?\d{6,7}\b`, 0),
	}

	// Capitalized street name ending in a Dutch street suffix, followed by
	// a house number with optional addition ("Johannes Vermeerstraat 18-2").
	// Every word must start with a capital, otherwise preceding prose
	// ("woont op ...") gets pulled into the span.
	e.addressRe = cp(`\b(?:[A-Z]`+lower+`+\s+)*[A-Z]`+lower+`*(?:straat|laan|weg|plein|singel|gracht|kade|dreef|hof|park|baan|dijk)\s+\d+(?:[-/]\d+|[a-zA-Z\-]*)?`, 0)

	e.postalRe = cp(`\b\d{4}\s?[A-Z]{2}\b`, 0)

	e.nameRes = compileNamePatterns()

	e.dateRe = cp(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})\b`, 0)

	// Incident keyword forms used for reference-date auto-detection.
	e.incidentRes = []*compiledPattern{
		cp(`(?i)(?:datum\s*)?(?:schade|ongeval|incident|trauma)\s*:?\s*(`+numDate+`)`, 1),
		cp(`(?i)(?:schade|ongeval|incident)\s*(?:op|d\.?d\.?|van)\s*:?\s*(`+numDate+`)`, 1),
		cp(`(?i)na\s+(?:val|ongeval|trauma)\s+(?:op\s+)?(`+numDate+`)`, 1),
		cp(`(?i)trauma\s+(`+numDate+`)`, 1),
	}
}
