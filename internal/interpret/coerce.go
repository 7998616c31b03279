package interpret

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseInt reads the longest integer prefix of s: optional leading
// whitespace, an optional sign, then digits that may be separated by single
// underscores. Anything unparsable yields 0 and values outside int64 are
// clamped.
func ParseInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	sign, s := takeSign(s)
	digits, _ := takeDigits(s)
	if digits == "" {
		return 0
	}

	n, err := strconv.ParseInt(sign+digits, 10, 64)
	if err != nil {
		if sign == "-" {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return n
}

// ParseFloat reads the longest decimal floating-point prefix of s with the
// same rules as ParseInt plus an optional fraction and exponent. Anything
// unparsable yields 0.
func ParseFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	sign, s := takeSign(s)

	intPart, s := takeDigits(s)
	num := intPart
	if strings.HasPrefix(s, ".") {
		if frac, rest := takeDigits(s[1:]); frac != "" {
			num += "." + frac
			s = rest
		}
	}
	if num == "" {
		return 0
	}
	if len(s) > 0 && (s[0] == 'e' || s[0] == 'E') {
		esign, rest := takeSign(s[1:])
		if exp, _ := takeDigits(rest); exp != "" {
			num += "e" + esign + exp
		}
	}

	f, err := strconv.ParseFloat(sign+num, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return f
}

func takeSign(s string) (string, string) {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		return s[:1], s[1:]
	}
	return "", s
}

// takeDigits returns the leading run of digits with underscore separators
// removed, and the remainder of s. An underscore only counts when it sits
// between two digits.
func takeDigits(s string) (string, string) {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
			i++
		case c == '_' && b.Len() > 0 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9':
			i++
		default:
			return b.String(), s[i:]
		}
	}
	return b.String(), ""
}
