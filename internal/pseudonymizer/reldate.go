package pseudonymizer

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Relative-date rendering. Absolute dates become incident-relative labels
// banded by magnitude, so a reviewer reads "[+3 weken]" instead of a day
// count they would have to convert in their head. Exact day counts only
// appear for offsets under a week.

// incidentLabel marks the reference date itself.
const incidentLabel = "[ONGEVAL]"

// relativeDateLabel renders date d relative to reference ref. Both must be
// UTC midnights.
//
// Bands by absolute day delta: 1 exact day; 2-6 days; 7-13 one week; 14-27
// weeks (nearest); 28-59 one or two months (nearest); 60-364 months;
// 365-729 one year, with "1 jaar en N maanden" when the remainder rounds
// to 2 or more months; 730 and up years to one decimal, integral values
// without the decimal. The sign renders as a leading +/-.
func relativeDateLabel(d, ref time.Time) string {
	days := daysBetween(ref, d)
	if days == 0 {
		return incidentLabel
	}

	sign := "+"
	n := days
	if n < 0 {
		sign = "-"
		n = -n
	}

	var magnitude string
	switch {
	case n == 1:
		magnitude = "1 dag"
	case n < 7:
		magnitude = fmt.Sprintf("%d dagen", n)
	case n < 14:
		magnitude = "1 week"
	case n < 28:
		magnitude = fmt.Sprintf("%d weken", roundDiv(n, 7))
	case n < 60:
		months := roundDiv(n, 30)
		if months <= 1 {
			magnitude = "1 maand"
		} else {
			magnitude = fmt.Sprintf("%d maanden", months)
		}
	case n < 365:
		magnitude = fmt.Sprintf("%d maanden", roundDiv(n, 30))
	case n < 730:
		if rem := roundDiv(n-365, 30); rem >= 2 {
			magnitude = fmt.Sprintf("1 jaar en %d maanden", rem)
		} else {
			magnitude = "1 jaar"
		}
	default:
		years := math.Round(float64(n)/365.25*10) / 10
		if years == math.Trunc(years) {
			magnitude = fmt.Sprintf("%d jaar", int(years))
		} else {
			// Dutch decimal comma.
			magnitude = strings.Replace(fmt.Sprintf("%.1f jaar", years), ".", ",", 1)
		}
	}

	return "[" + sign + magnitude + "]"
}

// daysBetween returns the signed whole-day delta from ref to d.
func daysBetween(ref, d time.Time) int {
	return int(d.Sub(ref) / (24 * time.Hour))
}

// roundDiv divides and rounds to nearest, ties away from zero.
func roundDiv(n, div int) int {
	return int(math.Round(float64(n) / float64(div)))
}
