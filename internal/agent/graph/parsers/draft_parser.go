package parsers

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDraftContract reports model output that violates the two-marker
// subject/body drafting contract. Callers must not dispatch such a draft.
var ErrDraftContract = errors.New("draft contract violation")

const (
	subjectMarker = "subject:"
	bodyMarker    = "body:"
)

// ParseDraft validates and splits a drafted email against the contract
//
//	subject: <short subject>
//	body:
//	<email body>
//
// Both markers must be present, in order, each with non-empty content.
// Unlike a positional line split, a contract violation is a typed error
// rather than a silently corrupted draft.
func ParseDraft(content string) (subject, body string, err error) {
	s := StripCodeFence(content)
	lines := strings.Split(s, "\n")

	subjectLine := -1
	bodyLine := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if subjectLine < 0 && strings.HasPrefix(lower, subjectMarker) {
			subjectLine = i
			subject = strings.TrimSpace(trimmed[len(subjectMarker):])
			continue
		}
		if subjectLine >= 0 && bodyLine < 0 && strings.HasPrefix(lower, bodyMarker) {
			bodyLine = i
			rest := strings.TrimSpace(trimmed[len(bodyMarker):])
			if rest != "" {
				body = rest
			}
			continue
		}
	}

	if subjectLine < 0 {
		return "", "", fmt.Errorf("%w: missing %q marker", ErrDraftContract, subjectMarker)
	}
	if bodyLine < 0 {
		return "", "", fmt.Errorf("%w: missing %q marker", ErrDraftContract, bodyMarker)
	}
	if subject == "" {
		return "", "", fmt.Errorf("%w: empty subject", ErrDraftContract)
	}

	tail := strings.TrimSpace(strings.Join(lines[bodyLine+1:], "\n"))
	if body != "" && tail != "" {
		body = body + "\n" + tail
	} else if tail != "" {
		body = tail
	}
	if body == "" {
		return "", "", fmt.Errorf("%w: empty body", ErrDraftContract)
	}

	return subject, body, nil
}
