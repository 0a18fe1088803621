package domain

import "strconv"

// FormatSum renders an amount in whole so'm with space-grouped thousands,
// e.g. 1250000 -> "1 250 000 so'm".
func FormatSum(v float64) string {
	var n int64
	if v < 0 {
		n = int64(v - 0.5)
	} else {
		n = int64(v + 0.5)
	}

	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[i])
	}
	return sign + string(out) + " so'm"
}
