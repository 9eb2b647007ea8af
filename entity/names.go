package entity

import (
	"strings"

	"mwoverlay/memory"
)

// Substrings (case-insensitive) of object names that are never shown.
var ignoredNames = []string{
	"door",
	"active_chimney_smoke",
	"light_com_lantern",
	"x_de_sn_gate",
	"sound_boat_creak",
	"hargencollision - extra",
}

// Prefixes (case-insensitive) of object names that are never shown.
var ignoredPrefixes = []string{
	"active_sign_",
	"furn_sign_inn_",
}

const clonePrefix = "CLONE "

// CleanName turns a raw name buffer into a display name. It returns
// ok == false when the object must be ignored. An empty result is kept.
//
// The "CLONE " prefix and trailing digits are stripped before the name is
// cut to maxLen bytes; a cut that exposes trailing spaces or digits is
// normalized again. Cleaning is idempotent:
// CleanName(CleanName(x)) == CleanName(x).
func CleanName(raw string, maxLen int) (string, bool) {
	name := normalized(printablePrefix(raw))
	if maxLen >= 0 && len(name) > maxLen {
		name = normalized(name[:maxLen])
	}

	lower := strings.ToLower(name)
	for _, s := range ignoredNames {
		if strings.Contains(lower, s) {
			return "", false
		}
	}
	for _, p := range ignoredPrefixes {
		if strings.HasPrefix(lower, p) {
			return "", false
		}
	}
	return name, true
}

func printablePrefix(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || !memory.IsPrintable(s[i]) {
			return s[:i]
		}
	}
	return s
}

// normalized applies normalize until it no longer changes s.
func normalized(s string) string {
	for {
		next := normalize(s)
		if next == s {
			return s
		}
		s = next
	}
}

// "CLONE Fargoth001 " -> "Fargoth"
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, clonePrefix)
	s = strings.TrimRight(s, "0123456789")
	return strings.TrimSpace(s)
}
