// Package parser provides argument, day, and amount parsing for Rutin.
package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxSIDLength is the maximum length for a Simplified ID.
const MaxSIDLength = 32

// sidRegex validates SID format: alphanumeric, dash, underscore, period.
var sidRegex = regexp.MustCompile(`^[a-zA-Z0-9\-_.]+$`)

// reservedSIDs would shadow subcommand names on the habit command surface.
var reservedSIDs = map[string]bool{
	"add":    true,
	"edit":   true,
	"delete": true,
	"list":   true,
	"show":   true,
	"set":    true,
	"log":    true,
}

// ValidateSID checks if a string is a valid SID.
func ValidateSID(sid string) bool {
	switch {
	case sid == "", len(sid) > MaxSIDLength:
		return false
	case reservedSIDs[strings.ToLower(sid)]:
		return false
	}
	return sidRegex.MatchString(sid)
}

// ConvertToSID derives a valid SID from a display name.
// Example: "Morning Run!" -> "morning-run"
func ConvertToSID(displayName string) string {
	lowered := strings.ReplaceAll(strings.ToLower(displayName), " ", "-")

	var sb strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			sb.WriteRune(r)
		}
	}

	sid := sb.String()
	for strings.Contains(sid, "--") {
		sid = strings.ReplaceAll(sid, "--", "-")
	}
	sid = strings.Trim(sid, "-")

	if len(sid) > MaxSIDLength {
		sid = sid[:MaxSIDLength]
	}
	return sid
}

// NormalizeSID returns the input when it is already a valid SID, otherwise
// the converted form.
func NormalizeSID(input string) string {
	input = strings.TrimSpace(input)
	if ValidateSID(input) {
		return input
	}
	return ConvertToSID(input)
}
