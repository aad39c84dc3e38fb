package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/deskbot-poc/server/internal/agent/model"
)

// MessagesManager persists turn messages through the conversation repository
// and serves trimmed history for display. Classification and extraction only
// ever consult the latest utterance, so history is product surface, not
// routing input.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	historyMaxTurns  int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		historyMaxTurns:  config.HistoryMaxTurns,
	}
}

// RecordUserMessage appends the user's utterance to the conversation history.
func (cm *MessagesManager) RecordUserMessage(ctx context.Context, conversationID, query string) error {
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query))
}

// SaveResponse appends an assistant message to the conversation history.
func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID, content string) error {
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.AssistantMessage(content, nil))
}

// RecentHistory returns the trailing turns of the conversation.
func (cm *MessagesManager) RecentHistory(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return trimTail(history.Messages, cm.historyMaxTurns), nil
}

// Reset removes the conversation's stored history.
func (cm *MessagesManager) Reset(ctx context.Context, conversationID string) error {
	return cm.conversationRepo.ClearHistory(ctx, conversationID)
}

// MessageCount returns how many messages the conversation has accumulated.
func (cm *MessagesManager) MessageCount(ctx context.Context, conversationID string) (int, error) {
	return cm.conversationRepo.GetMessageCount(ctx, conversationID)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
