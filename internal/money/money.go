// Package money holds taka amounts as integer paisa.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Symbol is the taka sign.
const Symbol = "৳"

// Amount is a sum of money in paisa (1/100 taka).
type Amount int64

// FromTaka converts whole taka to an Amount.
func FromTaka(t int64) Amount {
	return Amount(t * 100)
}

// Taka returns the amount in taka.
func (a Amount) Taka() float64 {
	return float64(a) / 100
}

// String formats the amount as ৳1,234.50.
func (a Amount) String() string {
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, Symbol, group(int64(a)/100), int64(a)%100)
}

// group inserts thousands separators.
func group(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Parse reads "12", "12.5", "৳12.50" or "1,200" into an Amount.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), Symbol))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("money: %q has more than two decimals", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	t, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	p, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	if t < 0 || strings.HasPrefix(whole, "-") {
		return -(FromTaka(-t) + Amount(p)), nil
	}
	return FromTaka(t) + Amount(p), nil
}
