package validation

import (
	"regexp"
	"strconv"
)

var priceNoise = regexp.MustCompile(`(?i)rp\.?|\s|\.`)

// ParsePrice reads a scraped price such as "Rp1.234.567" or "rp. 15.000".
// It reports false when nothing numeric remains.
func ParsePrice(s string) (int64, bool) {
	n, err := strconv.ParseInt(priceNoise.ReplaceAllString(s, ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatRupiah renders an amount the way Indonesian shops print prices:
// FormatRupiah(1500000) == "Rp1.500.000".
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i])
	}
	return sign + "Rp" + string(out)
}
