package pseudonymizer

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestPseudonymizeDossierScenario(t *testing.T) {
	e := New(Options{})
	text := "Jan van der Berg (geb. 14-07-1989), BSN 123456782, woont op Hoofdstraat 42. " +
		"Later bleek Jan van der Berg hersteld."

	res := e.Pseudonymize(text, nil)

	want := "[PERSOON_1] (geb. [GEBOORTEDATUM]), BSN [BSN], woont op [ADRES_1]. " +
		"Later bleek [PERSOON_1] hersteld."
	if res.PseudonymizedText != want {
		t.Errorf("output:\n  got  %q\n  want %q", res.PseudonymizedText, want)
	}

	if res.Statistics[CatName] != 2 {
		t.Errorf("name count = %d, want 2 (both mentions replaced)", res.Statistics[CatName])
	}
	if res.Statistics[CatBSN] != 1 || res.Statistics[CatBirthDate] != 1 || res.Statistics[CatAddress] != 1 {
		t.Errorf("statistics = %v", res.Statistics)
	}

	// The only date in the document doubles as the fallback reference.
	wantRef := time.Date(1989, 7, 14, 0, 0, 0, 0, time.UTC)
	if res.IncidentDate == nil || !res.IncidentDate.Equal(wantRef) {
		t.Errorf("incident date = %v, want %v", res.IncidentDate, wantRef)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if res.Replacements["jan van der berg"] != "[PERSOON_1]" {
		t.Errorf("replacements = %v", res.Replacements)
	}
}

func TestPseudonymizeFullDossier(t *testing.T) {
	e := New(Options{})
	text := `MEDISCH DOSSIER
Betreft: Jan van der Berg
Geboortedatum: 14-07-1989
BSN: 123456782
Adres: Johannes Vermeerstraat 18-2, 1071 DR Amsterdam
Telefoon: 06-12345678
Email: jan.vdberg@voorbeeld.nl
IBAN: NL91ABNA0417164300
Polisnummer: POL-AVP-2021-0098743
Schadenummer: SCH-2025-11-483920
Patiënt-ID: OLVG-PT-5589012
KvK: 76543210

Datum ongeval: 13-05-2021
Patiënt meldde zich na het ongeval bij dr. M. van Leeuwen.
Controle op 27-05-2021 toonde herstel.`

	res := e.Pseudonymize(text, nil)
	out := res.PseudonymizedText

	wantFragments := []string{
		"Betreft: [PERSOON_1]",
		"Geboortedatum: [GEBOORTEDATUM]",
		"BSN: [BSN]",
		"Adres: [ADRES_1], [POSTCODE] Amsterdam",
		"Telefoon: [TELEFOON]",
		"Email: [EMAIL]",
		"IBAN: [IBAN]",
		"Polisnummer: [POLIS_NUMMER]",
		"Schadenummer: [SCHADE_NUMMER]",
		"Patiënt-ID: [PATIENT_ID]",
		"KvK: [KVK_NUMMER]",
		"Datum ongeval: [ONGEVAL]",
		"bij dr. [PERSOON_2].",
		"Controle op [+2 weken] toonde herstel.",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(out, frag) {
			t.Errorf("output is missing %q\noutput:\n%s", frag, out)
		}
	}

	leaked := []string{
		"Jan van der Berg", "van Leeuwen", "14-07-1989", "123456782",
		"Vermeerstraat", "1071", "06-12345678", "voorbeeld.nl", "NL91",
		"0098743", "483920", "5589012", "76543210", "13-05-2021", "27-05-2021",
	}
	for _, raw := range leaked {
		if strings.Contains(out, raw) {
			t.Errorf("raw value %q leaked into output", raw)
		}
	}

	wantRef := time.Date(2021, 5, 13, 0, 0, 0, 0, time.UTC)
	if res.IncidentDate == nil || !res.IncidentDate.Equal(wantRef) {
		t.Errorf("incident date = %v, want keyword-detected %v", res.IncidentDate, wantRef)
	}
	if got := res.TotalReplacements(); got != 15 {
		t.Errorf("total replacements = %d, want 15 (statistics %v)", got, res.Statistics)
	}
}

func TestPseudonymizeSuppliedReferenceDate(t *testing.T) {
	e := New(Options{})
	// Time of day on the supplied reference must not shift day arithmetic.
	ref := time.Date(2022, 6, 14, 15, 4, 5, 0, time.UTC)

	res := e.Pseudonymize("Controle op 21-06-2022 verliep goed.", &ref)

	if want := "Controle op [+1 week] verliep goed."; res.PseudonymizedText != want {
		t.Errorf("output = %q, want %q", res.PseudonymizedText, want)
	}
	wantRef := time.Date(2022, 6, 14, 0, 0, 0, 0, time.UTC)
	if res.IncidentDate == nil || !res.IncidentDate.Equal(wantRef) {
		t.Errorf("incident date = %v, want truncated %v", res.IncidentDate, wantRef)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestPseudonymizeFallsBackToEarliestDate(t *testing.T) {
	e := New(Options{})
	res := e.Pseudonymize("Eerste consult 10-01-2021. Vervolgconsult 24-01-2021.", nil)

	if want := "Eerste consult [ONGEVAL]. Vervolgconsult [+2 weken]."; res.PseudonymizedText != want {
		t.Errorf("output = %q, want %q", res.PseudonymizedText, want)
	}
	wantRef := time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC)
	if res.IncidentDate == nil || !res.IncidentDate.Equal(wantRef) {
		t.Errorf("incident date = %v, want earliest %v", res.IncidentDate, wantRef)
	}
}

func TestPseudonymizeWarnsWithoutAnyDate(t *testing.T) {
	e := New(Options{})
	res := e.Pseudonymize("De patiënt herstelde voorspoedig.", nil)

	if res.IncidentDate != nil {
		t.Errorf("incident date = %v, want none", res.IncidentDate)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "ongevalsdatum") {
		t.Errorf("warnings = %v, want the missing-reference warning", res.Warnings)
	}
	if res.TotalReplacements() != 0 {
		t.Errorf("statistics = %v, want none", res.Statistics)
	}
}

func TestPseudonymizeEmailReservesOverName(t *testing.T) {
	e := New(Options{})
	res := e.Pseudonymize("Contact: Jan Bakker <jan.bakker@ziekenhuis.nl>.", nil)

	out := res.PseudonymizedText
	if !strings.Contains(out, "[PERSOON_1] <[EMAIL]>") {
		t.Errorf("output = %q", out)
	}
	if res.Statistics[CatEmail] != 1 || res.Statistics[CatName] != 1 {
		t.Errorf("statistics = %v", res.Statistics)
	}
}

func TestPseudonymizeRunsAreIndependent(t *testing.T) {
	e := New(Options{})
	text := "Maria Jansen werd gezien. Controle op 24-01-2021."

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Pseudonymize(text, nil)
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if !strings.Contains(res.PseudonymizedText, "[PERSOON_1]") {
			t.Errorf("run %d: counters leaked between runs: %q", i, res.PseudonymizedText)
		}
	}
}

func TestLabelWithoutReferenceDate(t *testing.T) {
	r := &run{}
	sp := span{category: CatDate, hasDate: true, date: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC)}
	if got := r.label(sp); got != "[DATUM]" {
		t.Errorf("label without reference = %q, want [DATUM]", got)
	}
}
