package types

import (
	"net/netip"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Format represents a typed string format for validation
type Format string

const (
	// Standard JSON Schema formats
	FormatURI      Format = "uri"
	FormatHostname Format = "hostname"
	FormatIPv4     Format = "ipv4"
	FormatIPv6     Format = "ipv6"
	FormatEmail    Format = "email"

	// Formats checked by clicake itself
	FormatCIDR     Format = "cidr"     // IP CIDR notation (e.g., "10.0.0.0/8")
	FormatSemver   Format = "semver"   // Semantic version (e.g., "1.2.3")
	FormatDuration Format = "duration" // Go duration (e.g., "1h30m")
)

// IsValidFormat checks if a format is recognized
func IsValidFormat(f Format) bool {
	switch f {
	case FormatURI, FormatHostname, FormatIPv4, FormatIPv6, FormatEmail,
		FormatCIDR, FormatSemver, FormatDuration:
		return true
	default:
		return false
	}
}

// formatValidators returns the format checkers layered over the
// compiler's standard ones. Non-strings pass; kinds are checked separately.
func formatValidators() map[string]func(any) bool {
	return map[string]func(any) bool{
		string(FormatDuration): func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return true
			}
			_, err := time.ParseDuration(s)
			return err == nil
		},
		string(FormatCIDR): func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return true
			}
			_, err := netip.ParsePrefix(s)
			return err == nil
		},
		string(FormatSemver): func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return true
			}
			// semver.IsValid wants the "v" prefix; accept both spellings
			if !strings.HasPrefix(s, "v") {
				s = "v" + s
			}
			return semver.IsValid(s)
		},
	}
}
