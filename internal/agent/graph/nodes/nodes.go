package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/deskbot-poc/server/internal/agent/graph/conversations"
	"github.com/deskbot-poc/server/internal/agent/graph/parsers"
	"github.com/deskbot-poc/server/internal/agent/graph/prompts"
	"github.com/deskbot-poc/server/internal/agent/model"
	logx "github.com/deskbot-poc/server/pkg/logger"
)

// Node names of the turn graph.
const (
	NodeTurnInput       = "turn_input"
	NodeClassifierModel = "classifier_model"
	NodeIntentParser    = "intent_parser"
	NodeDatabase        = "database"
	NodeMailExtract     = "mail_extract"
	NodeMailLookup      = "mail_lookup"
	NodeMailAbort       = "mail_abort"
	NodeMailDraft       = "mail_draft"
	NodeMailSend        = "mail_send"
	NodeWikipedia       = "wikipedia"
)

// NewTurnInputPreHandler seeds the fresh turn state from the query input.
func NewTurnInputPreHandler() func(context.Context, model.QueryInput, *model.TurnState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.TurnState) (model.QueryInput, error) {
		s.ConversationID = in.ConversationID
		s.Query = in.Query
		return in, nil
	}
}

// NewTurnInputNode persists the user utterance and builds the classifier
// messages. Classification consults only the latest message, so the prompt
// carries no history.
func NewTurnInputNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		if err := mm.RecordUserMessage(ctx, input.ConversationID, input.Query); err != nil {
			return nil, fmt.Errorf("record user message: %w", err)
		}

		systemPrompt, err := prompts.RenderClassifierSystem(ctx)
		if err != nil {
			return nil, fmt.Errorf("render classifier system prompt: %w", err)
		}

		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(input.Query),
		}, nil
	})
}

// NewClassifierPostHandler folds the classifier call's token cost into state.
func NewClassifierPostHandler(modelName string) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.TurnState) (*schema.Message, error) {
		accumulateCost(state, modelName, out)
		return out, nil
	}
}

// NewIntentParserNode turns raw classifier output into a typed Classification.
func NewIntentParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (model.Classification, error) {
		if resp == nil {
			return model.Classification{}, fmt.Errorf("classifier returned nil message")
		}
		label := parsers.ParseIntentLabel(resp.Content)
		return model.Classification{Intent: label}, nil
	})
}

// NewIntentParserPostHandler stores the classified label in state.
// Classification happens exactly once per turn, before routing.
func NewIntentParserPostHandler() func(context.Context, model.Classification, *model.TurnState) (model.Classification, error) {
	return func(ctx context.Context, out model.Classification, state *model.TurnState) (model.Classification, error) {
		state.Intent = out.Intent
		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("intent", out.Intent).
			Msg("message classified")
		return out, nil
	}
}

// NewRouteCondition maps the stored label to a branch. Labels outside the
// closed enumeration deterministically fall back to the wikipedia branch:
// unclassifiable intents are treated as open-domain questions.
func NewRouteCondition() func(context.Context, model.Classification) (string, error) {
	return func(ctx context.Context, input model.Classification) (string, error) {
		label := input.Intent
		if !model.ValidIntent(label) {
			logx.Warn().Str("label", label).Msg("label outside intent set - routing to wikipedia branch")
			label = model.IntentWikipedia
			_ = compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
				state.Intent = label
				return nil
			})
		}

		switch label {
		case model.IntentDatabase:
			return NodeDatabase, nil
		case model.IntentMail:
			return NodeMailExtract, nil
		default:
			return NodeWikipedia, nil
		}
	}
}
