package pseudonymizer

import "testing"

func TestDetectEmail(t *testing.T) {
	e := New(Options{})
	spans := e.detectEmail("Correspondentie via jan.bakker@ziekenhuis.nl of s.devries+prive@voorbeeld.org.")
	if len(spans) != 2 {
		t.Fatalf("got %d email spans, want 2: %v", len(spans), spanTexts(spans))
	}
	if spans[0].text != "jan.bakker@ziekenhuis.nl" {
		t.Errorf("first span = %q", spans[0].text)
	}
	if spans[1].text != "s.devries+prive@voorbeeld.org" {
		t.Errorf("second span = %q", spans[1].text)
	}
}

func TestDetectPhoneDutchForms(t *testing.T) {
	e := New(Options{})
	cases := map[string]string{
		"Bel +31 6 1234 5678 voor overleg.": "+31 6 1234 5678",
		"Bel +31 20 1234567 voor overleg.":  "+31 20 1234567",
		"Bel 0031 6 1234 5678 bij spoed.":   "0031 6 1234 5678",
		"Bel 06-12345678 bij spoed.":        "06-12345678",
		"Bel 06 1234 5678 bij spoed.":       "06 1234 5678",
		"Bel 020-1234567 overdag.":          "020-1234567",
	}
	for text, want := range cases {
		spans := e.detectPhone(text)
		if len(spans) != 1 {
			t.Errorf("detectPhone(%q) = %d spans, want 1: %v", text, len(spans), spanTexts(spans))
			continue
		}
		if spans[0].text != want {
			t.Errorf("detectPhone(%q) matched %q, want %q", text, spans[0].text, want)
		}
	}
}

func TestDetectPhoneDoesNotDoubleClaim(t *testing.T) {
	e := New(Options{})
	// The full international form and the bare mobile form overlap on the
	// same digits; only one span may survive per number.
	spans := e.detectPhone("Tel: 06-12345678 of 020-1234567.")
	if len(spans) != 2 {
		t.Fatalf("got %d phone spans, want 2: %v", len(spans), spanTexts(spans))
	}
}

func TestDetectPhoneIgnoresPlainNumbers(t *testing.T) {
	e := New(Options{})
	if spans := e.detectPhone("Gewicht 82 kg, lengte 178 cm."); len(spans) != 0 {
		t.Errorf("measurements detected as phone numbers: %v", spanTexts(spans))
	}
}
