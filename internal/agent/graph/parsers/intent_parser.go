package parsers

import (
	"strings"
)

// ParseIntentLabel extracts the classifier's label from raw model output.
// The classifier is prompted to emit a single token; this normalizes the
// usual decorations (whitespace, quotes, code fences, trailing punctuation)
// and lowercases the result. Validation against the closed enumeration is
// the router's job; out-of-enumeration labels fall back there.
func ParseIntentLabel(content string) string {
	s := StripCodeFence(content)
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	label := strings.ToLower(fields[0])
	return strings.TrimFunc(label, func(r rune) bool {
		return r == '.' || r == ',' || r == ':' || r == ';' || r == '!'
	})
}

// StripCodeFence removes a surrounding markdown code fence, with or without
// a language tag, from model output.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the language tag line if present
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && !strings.Contains(s[:idx], "}") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
