package templates

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ToOrdinal renders n with its English ordinal suffix (1st, 12th, 23rd).
func ToOrdinal(n int) string {
	return humanize.Ordinal(n)
}

// GroupDigits inserts thousands separators into the integer part of a
// decimal number string, counting from the decimal point leftward. The
// fractional part is kept verbatim. It reports false when s is not a number.
func GroupDigits(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" || !allDigits(whole) || !allDigits(frac) {
		return "", false
	}
	if whole == "" {
		whole = "0"
	}
	out := sign
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		out += humanize.Comma(n)
	} else {
		out += groupLong(whole)
	}
	if hasFrac {
		out += "." + frac
	}
	return out, true
}

// groupLong groups a digit string too long for int64.
func groupLong(digits string) string {
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatCurrency renders an amount with a currency symbol and grouped
// digits. A leading number followed by words ("5 million") groups only the
// number. Unparseable amounts are returned as written after the symbol.
func FormatCurrency(amount, symbol, code string) string {
	amount = strings.TrimSpace(amount)
	num, rest, _ := strings.Cut(amount, " ")
	if grouped, ok := GroupDigits(num); ok {
		amount = grouped
		if rest != "" {
			amount += " " + rest
		}
	}
	if symbol == "" && code != "" {
		return code + " " + amount
	}
	out := symbol + amount
	if code != "" {
		out += " " + code
	}
	return out
}

// maxPlaces bounds the decimal places a template may ask for.
const maxPlaces = 20

// clampPlaces limits places to [lo, maxPlaces].
func clampPlaces(places, lo int) int32 {
	return int32(min(max(places, lo), maxPlaces))
}

// Percentage renders part/whole as a percentage rounded to places decimals,
// which are clamped to [0, 20]. A zero whole yields "".
func Percentage(part, whole decimal.Decimal, places int) string {
	if whole.IsZero() {
		return ""
	}
	pct := part.Mul(decimal.NewFromInt(100)).Div(whole)
	return pct.StringFixed(clampPlaces(places, 0)) + "%"
}

// AgeDiff subtracts from (y, m, d) to to (y, m, d). A day deficit borrows
// 30 days from the months and a month deficit borrows 12 months from the
// years; the result approximates, it is not calendar-exact.
func AgeDiff(from, to [3]int) (years, months, days int) {
	years = to[0] - from[0]
	months = to[1] - from[1]
	days = to[2] - from[2]
	if days < 0 {
		days += 30
		months--
	}
	if months < 0 {
		months += 12
		years--
	}
	return years, months, days
}

// parseDecimal reads a number that may carry thousands separators. An
// exponent that would expand the number far beyond its written length
// ("1e999999999") is rejected.
func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.ReplaceAll(s, "−", "-")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	limit := int32(len(s) + maxPlaces)
	if e := d.Exponent(); e > limit || e < -limit {
		return decimal.Zero, false
	}
	return d, true
}
