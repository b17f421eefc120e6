package parser

import "strings"

// TokenKind classifies a raw command-line token
type TokenKind uint8

const (
	TokenValue TokenKind = iota // positional or flag value
	TokenFlag                   // begins with one or more hyphens
)

func (k TokenKind) String() string {
	switch k {
	case TokenValue:
		return "value"
	case TokenFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Token is a single classified input string.
// Name is set for flags only: Raw with every leading hyphen removed.
type Token struct {
	Kind TokenKind
	Raw  string
	Name string
}

// Classify reports whether raw is a flag marker or a value.
// "-x", "--x" and "---x" all name the flag "x"; "-5" names the flag "5";
// a lone "-" or "--" names the empty flag.
func Classify(raw string) Token {
	if !strings.HasPrefix(raw, "-") {
		return Token{Kind: TokenValue, Raw: raw}
	}
	return Token{
		Kind: TokenFlag,
		Raw:  raw,
		Name: strings.TrimLeft(raw, "-"),
	}
}

// IsFlag reports whether t is a flag marker.
func (t Token) IsFlag() bool {
	return t.Kind == TokenFlag
}
