package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraft(t *testing.T) {
	t.Run("body on following lines", func(t *testing.T) {
		subject, body, err := ParseDraft("subject: Meeting moved\nbody:\nHi Emma,\n\nThe meeting moved to 3pm.\n\nBest")
		require.NoError(t, err)
		assert.Equal(t, "Meeting moved", subject)
		assert.Equal(t, "Hi Emma,\n\nThe meeting moved to 3pm.\n\nBest", body)
	})

	t.Run("body on the marker line", func(t *testing.T) {
		subject, body, err := ParseDraft("subject: Quick note\nbody: See you tomorrow.")
		require.NoError(t, err)
		assert.Equal(t, "Quick note", subject)
		assert.Equal(t, "See you tomorrow.", body)
	})

	t.Run("marker casing is tolerated", func(t *testing.T) {
		subject, body, err := ParseDraft("Subject: Hello\nBody:\nWorld")
		require.NoError(t, err)
		assert.Equal(t, "Hello", subject)
		assert.Equal(t, "World", body)
	})

	t.Run("code fenced draft", func(t *testing.T) {
		subject, body, err := ParseDraft("```\nsubject: Fenced\nbody:\nStill parses.\n```")
		require.NoError(t, err)
		assert.Equal(t, "Fenced", subject)
		assert.Equal(t, "Still parses.", body)
	})

	violations := []struct {
		name string
		in   string
	}{
		{name: "missing subject marker", in: "body:\nHello"},
		{name: "missing body marker", in: "subject: Hello"},
		{name: "markers out of order", in: "body: Hello\nsubject: Hi"},
		{name: "empty subject", in: "subject:\nbody:\nHello"},
		{name: "empty body", in: "subject: Hello\nbody:\n"},
		{name: "free text", in: "Sure! Here is a friendly email for Emma."},
	}
	for _, tt := range violations {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDraft(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDraftContract)
		})
	}
}
