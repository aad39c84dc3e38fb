package repo

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryConversationRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	require.NoError(t, r.AddMessage(ctx, "c1", schema.UserMessage("hello")))
	require.NoError(t, r.AddMessage(ctx, "c1", schema.AssistantMessage("hi there", nil)))
	require.NoError(t, r.AddMessage(ctx, "c2", schema.UserMessage("other conversation")))

	history, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, schema.User, history.Messages[0].Role)
	assert.Equal(t, "hello", history.Messages[0].Content)
	assert.Equal(t, schema.Assistant, history.Messages[1].Role)

	n, err := r.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// LoadHistory hands out a copy
	history.Messages[0] = schema.UserMessage("mutated")
	reread, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "hello", reread.Messages[0].Content)

	require.NoError(t, r.ClearHistory(ctx, "c1"))
	n, err = r.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)

	// clearing one conversation leaves others alone
	n, err = r.GetMessageCount(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryConversationRepositoryEmptyHistory(t *testing.T) {
	r := NewMemoryConversationRepository()

	history, err := r.LoadHistory(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, history.Messages)
	assert.Empty(t, history.Messages)
}
