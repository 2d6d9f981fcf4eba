package gauge

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Formatter renders a value with fixed precision and an optional unit.
type Formatter struct {
	Decimal int
	Unit    string
}

// Format returns v with Decimal digits after the point, followed by
// " <unit>" when a unit is set.
func (f Formatter) Format(v float64) string {
	s := formatFixed(v, f.Decimal)
	if f.Unit != "" {
		return s + " " + f.Unit
	}
	return s
}

// formatFixed rounds halfway cases away from zero and never prints "-0".
func formatFixed(v float64, decimal int) string {
	if v == 0 {
		v = 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', decimal, 64)
	}

	scaled := new(big.Float).SetPrec(1024).SetFloat64(math.Abs(v))
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimal)), nil)
	scaled.Mul(scaled, new(big.Float).SetPrec(1024).SetInt(pow))
	whole, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(1024).Sub(scaled, new(big.Float).SetPrec(1024).SetInt(whole))
	if frac.Cmp(big.NewFloat(0.5)) != 0 {
		return strconv.FormatFloat(v, 'f', decimal, 64)
	}

	whole.Add(whole, big.NewInt(1))
	digits := whole.String()
	if len(digits) <= decimal {
		digits = strings.Repeat("0", decimal-len(digits)+1) + digits
	}
	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	b.WriteString(digits[:len(digits)-decimal])
	if decimal > 0 {
		b.WriteByte('.')
		b.WriteString(digits[len(digits)-decimal:])
	}
	return b.String()
}
