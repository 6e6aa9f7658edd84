// Package logutil shortens platform payloads before they are logged or stored.
package logutil

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Body returns at most maxBytes of b as text, cut on a rune boundary and
// followed by a marker naming how much was dropped.
func Body(b []byte, maxBytes int) string {
	if maxBytes < 0 {
		maxBytes = 0
	}
	s := strings.TrimSpace(string(b))
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s...[%d bytes truncated]", s[:cut], len(s)-cut)
}
