package pseudonymizer

// Location detectors: street addresses and postal codes. These run before
// the name detector so street names ("Johannes Vermeerstraat") are never
// mistaken for personal names.

// detectAddresses finds street + house number combinations. Addresses are
// registry-backed: the same address repeated in a dossier keeps the same
// [ADRES_n] label for audit consistency.
func (e *Engine) detectAddresses(text string) []span {
	return matchSpans(text, e.addressRe.re, e.addressRe.group, CatAddress, rankAddress)
}

// detectPostalCodes finds 4-digit + 2-letter Dutch postal codes.
func (e *Engine) detectPostalCodes(text string) []span {
	return matchSpans(text, e.postalRe.re, e.postalRe.group, CatPostal, rankPostal)
}
