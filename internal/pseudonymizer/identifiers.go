package pseudonymizer

// Identifier-style detectors: birth dates, BSN, IBAN, patient IDs,
// policy/claim numbers, KvK numbers. These run first in the pipeline so
// that their text is reserved before the contact, location and name
// detectors get a chance to misread it.

// detectBirthDates finds numeric dates directly preceded by a
// birth-indicating keyword. The keyword lies outside the span and stays in
// the output; the date itself is always replaced by the fixed
// [GEBOORTEDATUM] label, never converted to a relative offset. Parsed
// birth dates still join the reference-date pool.
func (e *Engine) detectBirthDates(text string) []span {
	var out []span
	for _, p := range e.birthDateRes {
		for _, sp := range matchSpans(text, p.re, p.group, CatBirthDate, rankBirthDate) {
			if overlaps(out, sp.start, sp.end) {
				continue // "geb." and "geboortedatum" patterns can both fire
			}
			if d, ok := parseNumericDate(sp.text); ok {
				sp.date, sp.hasDate = d, true
			}
			out = append(out, sp)
		}
	}
	return out
}

// detectBSN finds 9-digit sequences in their common groupings and keeps
// only those passing the 11-proef. An invalid checksum is a non-match,
// not an error: the sequence is almost certainly a case ID or truncated
// phone number, and flagging it would destroy legitimate content.
func (e *Engine) detectBSN(text string) []span {
	var out []span
	for _, p := range e.bsnRes {
		for _, sp := range matchSpans(text, p.re, p.group, CatBSN, rankBSN) {
			if overlaps(out, sp.start, sp.end) {
				continue
			}
			if !ValidBSN(digitsOnly(sp.text)) {
				continue
			}
			out = append(out, sp)
		}
	}
	return out
}

// detectIBAN finds Dutch-format bank account numbers. No checksum is
// applied (see the pattern comment); the structural match alone decides.
func (e *Engine) detectIBAN(text string) []span {
	return matchSpans(text, e.ibanRe.re, e.ibanRe.group, CatIBAN, rankIBAN)
}

// detectPatientIDs finds keyword-prefixed patient/client identifiers.
func (e *Engine) detectPatientIDs(text string) []span {
	return matchSpans(text, e.patientIDRe.re, e.patientIDRe.group, CatPatientID, rankPatientID)
}

// detectPolicyNumbers finds polis and schade numbers, both keyword-prefixed
// and in their bare structured forms (POL-…, SCH-…). The two families get
// separate categories so the audit statistics keep them apart.
func (e *Engine) detectPolicyNumbers(text string) []span {
	var out []span
	for i, p := range e.policyRes {
		cat := CatPolicy
		if i == 1 || i == 3 { // the schade patterns
			cat = CatClaim
		}
		for _, sp := range matchSpans(text, p.re, p.group, cat, rankPolicy) {
			if overlaps(out, sp.start, sp.end) {
				continue
			}
			out = append(out, sp)
		}
	}
	return out
}

// detectKvK finds chamber-of-commerce numbers after a KvK keyword.
func (e *Engine) detectKvK(text string) []span {
	return matchSpans(text, e.kvkRe.re, e.kvkRe.group, CatKvK, rankKvK)
}
