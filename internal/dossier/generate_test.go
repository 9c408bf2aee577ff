package dossier

import (
	"regexp"
	"strings"
	"testing"

	"dossier-pseudonymizer/internal/pseudonymizer"
	"dossier-pseudonymizer/internal/stoplist"
)

func TestBSNAlwaysPassesChecksum(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 200; i++ {
		bsn := g.BSN()
		if len(bsn) != 9 {
			t.Fatalf("BSN %q has length %d", bsn, len(bsn))
		}
		if !pseudonymizer.ValidBSN(bsn) {
			t.Fatalf("generated BSN %q fails the 11-proef", bsn)
		}
	}
}

func TestIBANShape(t *testing.T) {
	g := NewGenerator(2)
	re := regexp.MustCompile(`^NL\d{2}[A-Z]{4}\d{10}$`)
	for i := 0; i < 50; i++ {
		if iban := g.IBAN(); !re.MatchString(iban) {
			t.Fatalf("IBAN %q has the wrong shape", iban)
		}
	}
}

func TestPhoneShape(t *testing.T) {
	g := NewGenerator(3)
	re := regexp.MustCompile(`^0(6-\d{8}|\d{2}-\d{7})$`)
	for i := 0; i < 50; i++ {
		if p := g.Phone(); !re.MatchString(p) {
			t.Fatalf("phone %q has the wrong shape", p)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := NewGenerator(42).Generate(1)
	b := NewGenerator(42).Generate(1)
	if a.Text != b.Text {
		t.Error("same seed produced different dossiers")
	}
	if !a.IncidentDate.Equal(b.IncidentDate) {
		t.Errorf("incident dates differ: %v vs %v", a.IncidentDate, b.IncidentDate)
	}
}

func TestGenerateContainsGroundTruth(t *testing.T) {
	doc := NewGenerator(7).Generate(3)
	if doc.ID != "dossier_03" {
		t.Errorf("ID = %q", doc.ID)
	}
	wantDate := doc.IncidentDate.Format("02-01-2006")
	if !strings.Contains(doc.Text, "Datum ongeval: "+wantDate) {
		t.Errorf("dossier is missing its incident date %s", wantDate)
	}
	for _, section := range []string{"PERSOONSGEGEVENS", "AANLEIDING", "BEHANDELVERLOOP", "HUIDIGE SITUATIE"} {
		if !strings.Contains(doc.Text, section) {
			t.Errorf("dossier is missing the %s section", section)
		}
	}
}

func TestGeneratedDossierPseudonymizes(t *testing.T) {
	e := pseudonymizer.New(pseudonymizer.Options{Stoplist: stoplist.Default()})

	for seed := int64(1); seed <= 5; seed++ {
		doc := NewGenerator(seed).Generate(1)
		res := e.Pseudonymize(doc.Text, nil)
		out := res.PseudonymizedText

		for _, label := range []string{
			"[BSN]", "[GEBOORTEDATUM]", "[IBAN]", "[TELEFOON]", "[EMAIL]",
			"[ADRES_1]", "[POSTCODE]", "Datum ongeval: [ONGEVAL]",
		} {
			if !strings.Contains(out, label) {
				t.Errorf("seed %d: output is missing %s\n%s", seed, label, out)
			}
		}
		if res.IncidentDate == nil || !res.IncidentDate.Equal(doc.IncidentDate) {
			t.Errorf("seed %d: incident date = %v, want %v", seed, res.IncidentDate, doc.IncidentDate)
		}
		if len(res.Warnings) != 0 {
			t.Errorf("seed %d: warnings = %v", seed, res.Warnings)
		}
	}
}
