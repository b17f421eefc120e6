package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/aledsdavies/clicake/core/types"
)

// Coerce converts a token to the first scalar kind that accepts it:
//
//  1. "True", "False" (booleans) and "None" (null), exact spelling only
//  2. base-10 integer with optional sign
//  3. floating point, including exponents and the inf/nan spellings
//  4. the token itself as a string
//
// Coerce never fails. Surrounding whitespace is ignored by the numeric rules,
// as are single underscores between digits ("1_000"), but a token that falls
// through to the string rule is returned unchanged.
func Coerce(token string) types.Value {
	switch token {
	case "True":
		return types.BoolValue(true, token)
	case "False":
		return types.BoolValue(false, token)
	case "None":
		return types.NullValue(token)
	}

	trimmed, ok := stripDigitSeparators(strings.TrimSpace(token))
	if !ok || !numericCandidate(trimmed) {
		return types.StringValue(token)
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return types.IntValue(n, token)
	}

	// Out-of-range values still parse, as ±Inf or the nearest float
	f, err := strconv.ParseFloat(trimmed, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return types.FloatValue(f, token)
	}

	return types.StringValue(token)
}

// stripDigitSeparators removes underscores that sit between two digits.
// Any other underscore makes s non-numeric.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.ContainsRune(s, '_') {
		return s, true
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// numericCandidate filters out the forms strconv accepts beyond plain
// decimal notation: hex/octal/binary prefixes.
func numericCandidate(s string) bool {
	if s == "" {
		return false
	}
	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) < len(s)-1 {
		return false
	}
	if len(unsigned) >= 2 && unsigned[0] == '0' {
		switch unsigned[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return false
		}
	}
	return true
}
