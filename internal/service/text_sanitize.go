package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// sanitizeText removes NUL bytes, control characters and surrogates that
// extraction engines sometimes emit, normalizes line endings and composes the
// result to NFC so the JSON response is stable across engines.
func sanitizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == 0x00:
			continue
		case r == '\t' || r == '\n':
			result.WriteRune(r)
		case r == '\r' || r == '\f' || r == '\v':
			// page and line breaks some engines emit between pages
			result.WriteRune('\n')
		case r >= 0x20 && r < 0x7F:
			result.WriteRune(r)
		case r >= 0x7F && r < 0xA0:
			// C1 control block
			continue
		case r >= 0xA0 && (r < 0xD800 || r > 0xDFFF) && r != 0xFFFD && r != 0xFEFF:
			result.WriteRune(r)
		}
	}

	return norm.NFC.String(result.String())
}

// joinNonEmpty joins trimmed parts, dropping empty ones.
func joinNonEmpty(parts []string, sep string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
