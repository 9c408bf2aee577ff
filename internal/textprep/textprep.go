// Package textprep prepares raw document bytes for pseudonymization:
// charset detection, OCR artifact repair and light normalization of
// medical terminology.
//
// Scanned dossiers arrive in a mix of UTF-8, Windows-1252 and Latin-1,
// and OCR output frequently reads a dash as the letter n ("05n03n2025"
// for a date). Both defects sit exactly on the byte patterns the
// detector regexes depend on, so repair must happen before detection.
package textprep

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decode converts raw file bytes to a UTF-8 string. Valid UTF-8 passes
// through unchanged; anything else is decoded as Windows-1252 first
// (the usual encoding of Dutch office documents), then Latin-1. As a
// last resort invalid sequences are replaced rather than dropped.
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		if decoded, err := cm.NewDecoder().Bytes(raw); err == nil {
			return string(decoded)
		}
	}
	return strings.ToValidUTF8(string(raw), "�")
}

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// OCR dash-as-n repairs, most specific first. Dates, mobile numbers,
// polis/schade numbers and case IDs all carry dashes that OCR renders
// as a lowercase n between digit or capital groups.
var ocrFixes = []rewrite{
	{regexp.MustCompile(`(\d{2})n(\d{2})n(\d{4})`), "${1}-${2}-${3}"},
	{regexp.MustCompile(`(\d{2})n(\d{2})n(\d{2})\b`), "${1}-${2}-${3}"},
	{regexp.MustCompile(`\b(06)n(\d{8})\b`), "${1}-${2}"},
	{regexp.MustCompile(`\b(06)n(\d{4})n(\d{4})\b`), "${1}-${2}-${3}"},
	{regexp.MustCompile(`\b(06)n(\d{4})(\d{4})\b`), "${1}-${2}${3}"},
	{regexp.MustCompile(`\b([A-Z]{2,4})n(\d{4})n(\d{2})n(\d+)\b`), "${1}-${2}-${3}-${4}"},
	{regexp.MustCompile(`\b([A-Z]{2,4})n(\d{4})n(\d+)\b`), "${1}-${2}-${3}"},
	{regexp.MustCompile(`\b([A-Z]{2,4})n([A-Z]+)n(\d+)\b`), "${1}-${2}-${3}"},
}

// RepairOCR rewrites dash-as-n OCR artifacts back to their dashed form
// ("05n03n2025" → "05-03-2025", "TLnCASEn0192" → "TL-CASE-0192").
func RepairOCR(text string) string {
	for _, f := range ocrFixes {
		text = f.re.ReplaceAllString(text, f.repl)
	}
	return text
}

// Misread medical terms and dosage abbreviations seen in OCR output.
var medicalFixes = []rewrite{
	{regexp.MustCompile(`(?i)\bpatient\b`), "patiënt"},
	{regexp.MustCompile(`(?i)\bmedlcatie\b`), "medicatie"},
	{regexp.MustCompile(`(?i)\bdiagnos[et]iek\b`), "diagnostiek"},
	{regexp.MustCompile(`(?i)\bchronlsch\b`), "chronisch"},
	{regexp.MustCompile(`(?i)\bklachlen\b`), "klachten"},
	{regexp.MustCompile(`(?i)\bbehandel1ng\b`), "behandeling"},
	{regexp.MustCompile(`(?i)\borthoped\b`), "orthopeed"},
	{regexp.MustCompile(`(?i)\bneurolog\b`), "neuroloog"},

	{regexp.MustCompile(`\b[pP]\.?[oO]\b\.?`), "p.o."},
	{regexp.MustCompile(`\b[iI]\.?[vV]\b\.?`), "i.v."},
	{regexp.MustCompile(`\b[sS]\.?[cC]\b\.?`), "s.c."},

	// Uniform date separators simplify every downstream date regex.
	{regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`), "${1}-${2}-${3}"},
}

// NormalizeMedical corrects common OCR misreadings of Dutch medical
// terminology and normalizes dosage abbreviations and date separators.
func NormalizeMedical(text string) string {
	for _, f := range medicalFixes {
		text = f.re.ReplaceAllString(text, f.repl)
	}
	return text
}
