package pseudonymizer

// ValidBSN reports whether a 9-digit string passes the Dutch 11-proef.
// Each of the first eight digits is multiplied by its descending weight
// (9 down to 2), the ninth by -1; the sum must be divisible by 11 and
// non-zero.
//
// This check is the main false-positive gate for the BSN detector: bare
// 9-digit runs are everywhere in medical dossiers (truncated phone
// numbers, case IDs, measurement values) and only about one in eleven
// passes.
func ValidBSN(digits string) bool {
	if len(digits) != 9 {
		return false
	}
	sum := 0
	for i, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i == 8 {
			sum -= d
		} else {
			sum += d * (9 - i)
		}
	}
	return sum != 0 && sum%11 == 0
}

// digitsOnly strips every non-digit byte, so dotted and dashed BSN
// groupings ("1234.56.782", "123-456-782") validate like plain ones.
func digitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
