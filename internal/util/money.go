package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a text amount. Both "1234.56" and the pt-BR
// "1.234,56" / "R$ 1.234,56" forms are accepted.
func ParseAmount(s string) (float64, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "R$")
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return f, nil
}

// FormatAmount renders an amount with two decimals, the stored text form.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', 2, 64)
}

// MultiplyAmounts returns a*b rounded to cents.
func MultiplyAmounts(a, b float64) float64 {
	return math.Round(a*b*100) / 100
}
