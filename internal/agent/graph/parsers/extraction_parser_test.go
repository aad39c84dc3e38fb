package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchExtraction(t *testing.T) {
	t.Run("both fields present", func(t *testing.T) {
		got, err := ParseSearchExtraction(`{"column": "Phone", "value": "Emma"}`)
		require.NoError(t, err)
		assert.Equal(t, "Phone", got.Column)
		assert.Equal(t, "Emma", got.Value)
	})

	t.Run("json null fields become empty", func(t *testing.T) {
		got, err := ParseSearchExtraction(`{"column": null, "value": null}`)
		require.NoError(t, err)
		assert.Empty(t, got.Column)
		assert.Empty(t, got.Value)
	})

	t.Run("literal null string becomes empty", func(t *testing.T) {
		got, err := ParseSearchExtraction(`{"column": "null", "value": "NULL"}`)
		require.NoError(t, err)
		assert.Empty(t, got.Column)
		assert.Empty(t, got.Value)
	})

	t.Run("absent fields become empty", func(t *testing.T) {
		got, err := ParseSearchExtraction(`{}`)
		require.NoError(t, err)
		assert.Empty(t, got.Column)
		assert.Empty(t, got.Value)
	})

	t.Run("code fenced object", func(t *testing.T) {
		got, err := ParseSearchExtraction("```json\n{\"column\": \"Name\", \"value\": \"Liam\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "Name", got.Column)
		assert.Equal(t, "Liam", got.Value)
	})

	t.Run("non json output errors", func(t *testing.T) {
		_, err := ParseSearchExtraction("I could not extract anything")
		require.Error(t, err)
	})

	t.Run("oversized output errors", func(t *testing.T) {
		_, err := ParseSearchExtraction("{" + strings.Repeat(" ", maxExtractionLen) + "}")
		require.Error(t, err)
	})
}

func TestParseMailExtraction(t *testing.T) {
	t.Run("all fields present", func(t *testing.T) {
		got, err := ParseMailExtraction(`{"recipient_name": "Emma", "recipient_email": "emma@example.com", "message_body": "meeting moved"}`)
		require.NoError(t, err)
		assert.Equal(t, "Emma", got.RecipientName)
		assert.Equal(t, "emma@example.com", got.RecipientEmail)
		assert.Equal(t, "meeting moved", got.MessageBody)
		assert.False(t, got.NotFound)
	})

	t.Run("missing recipient email", func(t *testing.T) {
		got, err := ParseMailExtraction(`{"recipient_name": "Emma", "recipient_email": null, "message_body": "hi"}`)
		require.NoError(t, err)
		assert.Equal(t, "Emma", got.RecipientName)
		assert.Empty(t, got.RecipientEmail)
	})

	t.Run("malformed json errors", func(t *testing.T) {
		_, err := ParseMailExtraction(`{"recipient_name": `)
		require.Error(t, err)
	})
}
