package export

import (
	"fmt"
	"strings"

	"github.com/Spok95/storage-desk/internal/api"
	"github.com/shopspring/decimal"
)

// Currency: 1234.5 → "$1,234.50".
func Currency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + "$" + groupThousands(intPart) + "." + frac
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Date: "Jan 2, 2006"; пустая дата, "-".
func Date(d api.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

func Percent(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func Title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
