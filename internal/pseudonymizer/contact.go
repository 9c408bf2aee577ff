package pseudonymizer

// Contact-data detectors: email addresses and Dutch phone numbers.

// detectEmail finds local@domain.tld tokens. Email spans matter beyond
// their own replacement: by reserving the full address they stop the name
// detector from reading "jan.bakker@..." as a personal name later in the
// pipeline.
func (e *Engine) detectEmail(text string) []span {
	return matchSpans(text, e.emailRe.re, e.emailRe.group, CatEmail, rankEmail)
}

// detectPhone runs the dial patterns in order and deduplicates internally:
// a stretch of digits claimed by an earlier pattern (say the full
// "+31 6 1234 5678" form) must not be re-flagged by a later, shorter one.
func (e *Engine) detectPhone(text string) []span {
	var out []span
	for _, p := range e.phoneRes {
		for _, sp := range matchSpans(text, p.re, p.group, CatPhone, rankPhone) {
			if overlaps(out, sp.start, sp.end) {
				continue
			}
			out = append(out, sp)
		}
	}
	return out
}
