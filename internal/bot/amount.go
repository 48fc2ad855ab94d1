package bot

import (
	"math"
	"strings"

	"github.com/Veraticus/spend/internal/common"
	"github.com/shopspring/decimal"
)

const maxExponent = 400

// ParseAmount reads a user-typed amount. A comma is accepted as the decimal separator.
func ParseAmount(text string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if s == "" {
		return 0, common.InvalidArgument("empty amount")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, common.InvalidArgument("not a number: %q", text)
	}

	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return 0, common.InvalidArgument("amount out of range: %q", text)
	}

	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, common.InvalidArgument("amount out of range: %q", text)
	}
	return f, nil
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
