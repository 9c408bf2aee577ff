// Package dossier generates synthetic Dutch medical-advice dossiers.
//
// Generated documents contain realistic but fabricated PII of every
// detected category (names, BSN passing the 11-proef, IBAN, phone,
// address, incident timeline) and serve as detection test material;
// no real patient data is ever involved.
package dossier

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var (
	maleNames   = []string{"Jan", "Piet", "Klaas", "Willem", "Henk", "Peter", "Marco", "Dennis", "Robert", "Michel"}
	femaleNames = []string{"Maria", "Sandra", "Linda", "Monique", "Patricia", "Jessica", "Angela", "Esther", "Marloes", "Anouk"}
	surnames    = []string{"Van der Berg", "De Vries", "Jansen", "De Groot", "Bakker", "Van Dijk", "Smit", "Meijer", "De Boer", "Mulder"}

	streets     = []string{"Hoofdstraat", "Kerkstraat", "Dorpsstraat", "Schoolstraat", "Molenweg", "Julianastraat", "Beatrixlaan", "Wilhelminastraat"}
	cities      = []string{"Amsterdam", "Rotterdam", "Utrecht", "Den Haag", "Eindhoven", "Groningen", "Tilburg", "Almere", "Breda", "Nijmegen"}
	postalCodes = []string{"1012 AB", "3011 CD", "3500 EF", "2500 GH", "5600 IJ", "9700 KL", "5000 MN", "1300 OP", "4800 QR", "6500 ST"}

	hospitals = []string{"Amsterdam UMC", "Erasmus MC", "UMC Utrecht", "OLVG", "Antonius Ziekenhuis", "Isala", "Catharina Ziekenhuis", "Maasstad Ziekenhuis"}
	rehabs    = []string{"Reade", "De Hoogstraat", "Heliomare", "Roessingh", "Sint Maartenskliniek"}
	gps       = []string{"Pietersen", "Van Dam", "Willemsen", "Hendriks", "De Jong"}

	injuries = []struct{ name, complaints string }{
		{"whiplash", "nekpijn, hoofdpijn en duizeligheid"},
		{"hernia L4-L5", "uitstralende pijn in het been en krachtsverlies"},
		{"schouderletsel", "beperkte bewegelijkheid en pijn bij heffen"},
		{"knieletsel", "instabiliteit en zwelling van de knie"},
		{"polsfractuur", "pijn en beperkte grip"},
		{"hersenschudding", "hoofdpijn, concentratieproblemen en vermoeidheid"},
	}

	accidents = []string{
		"een verkeersongeval op de A2",
		"een aanrijding op een kruising",
		"een bedrijfsongeval in het magazijn",
		"een val van een trap",
		"een fietsongeval",
	}

	banks = []string{"ABNA", "INGB", "RABO", "SNSB"}
)

// Document is one generated dossier with the ground truth a test needs.
type Document struct {
	ID           string
	Text         string
	IncidentDate time.Time
}

// Generator produces synthetic dossiers. Same seed, same documents.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// BSN returns a random national ID passing the 11-proef.
func (g *Generator) BSN() string {
	for {
		digits := make([]int, 8)
		sum := 0
		for i := range digits {
			digits[i] = g.rng.Intn(10)
			sum += digits[i] * (9 - i)
		}
		// The ninth digit carries weight -1, so it must equal sum mod 11;
		// a remainder of 10 has no valid digit and forces a redraw.
		last := sum % 11
		if last > 9 || sum-last == 0 {
			continue
		}
		var b strings.Builder
		for _, d := range digits {
			fmt.Fprintf(&b, "%d", d)
		}
		fmt.Fprintf(&b, "%d", last)
		return b.String()
	}
}

// IBAN returns a random Dutch-format account number.
func (g *Generator) IBAN() string {
	return fmt.Sprintf("NL%02d%s%010d", 10+g.rng.Intn(90), banks[g.rng.Intn(len(banks))], g.rng.Int63n(9000000000)+1000000000)
}

// Phone returns a random mobile or landline number.
func (g *Generator) Phone() string {
	if g.rng.Intn(2) == 0 {
		return fmt.Sprintf("06-%08d", 10000000+g.rng.Intn(90000000))
	}
	area := []string{"010", "020", "030", "040", "050"}[g.rng.Intn(5)]
	return fmt.Sprintf("%s-%07d", area, 1000000+g.rng.Intn(9000000))
}

func formatDate(d time.Time) string {
	return d.Format("02-01-2006")
}

// Generate builds one complete dossier. The incident date falls in
// 2020-2022; the medical timeline is laid out relative to it.
func (g *Generator) Generate(number int) Document {
	female := g.rng.Intn(2) == 0
	given := maleNames[g.rng.Intn(len(maleNames))]
	honorific, pronoun := "de heer", "Hij"
	if female {
		given = femaleNames[g.rng.Intn(len(femaleNames))]
		honorific, pronoun = "mevrouw", "Zij"
	}
	surname := surnames[g.rng.Intn(len(surnames))]

	incident := time.Date(2020+g.rng.Intn(3), time.Month(1+g.rng.Intn(12)), 1+g.rng.Intn(28), 0, 0, 0, 0, time.UTC)
	birth := incident.AddDate(-(25 + g.rng.Intn(36)), 0, 0)

	street := streets[g.rng.Intn(len(streets))]
	houseNo := 1 + g.rng.Intn(200)
	postal := postalCodes[g.rng.Intn(len(postalCodes))]
	city := cities[g.rng.Intn(len(cities))]

	hospital := hospitals[g.rng.Intn(len(hospitals))]
	rehab := rehabs[g.rng.Intn(len(rehabs))]
	gp := gps[g.rng.Intn(len(gps))]
	injury := injuries[g.rng.Intn(len(injuries))]
	accident := accidents[g.rng.Intn(len(accidents))]

	email := fmt.Sprintf("%s.%s@voorbeeld.nl", strings.ToLower(given), strings.ReplaceAll(strings.ToLower(surname), " ", ""))

	seh := incident
	gpVisit := incident.AddDate(0, 0, 3+g.rng.Intn(8))
	specialist := incident.AddDate(0, 0, 30+g.rng.Intn(61))
	rehabStart := incident.AddDate(0, 0, 90+g.rng.Intn(91))
	assessment := incident.AddDate(0, 0, 400+g.rng.Intn(401))

	var b strings.Builder
	fmt.Fprintf(&b, "MEDISCH ADVIES - DOSSIER %03d\n\n", number)
	fmt.Fprintf(&b, "Dossiernummer: 2024-MA-%04d\n\n", 1000+g.rng.Intn(9000))
	b.WriteString("PERSOONSGEGEVENS\n\n")
	fmt.Fprintf(&b, "Betreft: %s %s %s\n", honorific, given, surname)
	fmt.Fprintf(&b, "Geboortedatum: %s\n", formatDate(birth))
	fmt.Fprintf(&b, "BSN: %s\n", g.BSN())
	fmt.Fprintf(&b, "Adres: %s %d, %s %s\n", street, houseNo, postal, city)
	fmt.Fprintf(&b, "Telefoon: %s\n", g.Phone())
	fmt.Fprintf(&b, "Email: %s\n", email)
	fmt.Fprintf(&b, "IBAN: %s\n\n", g.IBAN())
	b.WriteString("AANLEIDING\n\n")
	fmt.Fprintf(&b, "Datum ongeval: %s\n", formatDate(incident))
	fmt.Fprintf(&b, "Betrokkene raakte gewond bij %s en heeft sindsdien klachten.\n\n", accident)
	b.WriteString("BEHANDELVERLOOP\n\n")
	fmt.Fprintf(&b, "%s - SEH: per ambulance naar het %s, %s geconstateerd.\n", formatDate(seh), hospital, injury.name)
	fmt.Fprintf(&b, "%s - Huisarts: controle bij dr. %s, klachten over %s.\n", formatDate(gpVisit), gp, injury.complaints)
	fmt.Fprintf(&b, "%s - Specialist: lichamelijk en neurologisch onderzoek verricht.\n", formatDate(specialist))
	fmt.Fprintf(&b, "%s - Revalidatie gestart bij %s.\n\n", formatDate(rehabStart), rehab)
	b.WriteString("HUIDIGE SITUATIE\n\n")
	fmt.Fprintf(&b, "Per %s geeft %s %s aan nog steeds klachten te hebben.\n", formatDate(assessment), honorific, surname)
	fmt.Fprintf(&b, "%s is momenteel %d%% arbeidsongeschikt.\n", pronoun, []int{25, 50, 75, 100}[g.rng.Intn(4)])

	return Document{
		ID:           fmt.Sprintf("dossier_%02d", number),
		Text:         b.String(),
		IncidentDate: incident,
	}
}
