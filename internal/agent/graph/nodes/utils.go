package nodes

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/deskbot-poc/server/internal/agent/graph/conversations"
	"github.com/deskbot-poc/server/internal/agent/model"
	errx "github.com/deskbot-poc/server/internal/core/error"
	"github.com/deskbot-poc/server/internal/directory"
	"github.com/deskbot-poc/server/internal/knowledge"
	"github.com/deskbot-poc/server/internal/mail"
	logx "github.com/deskbot-poc/server/pkg/logger"
)

// Deps carries the collaborators the branch handlers delegate to.
type Deps struct {
	Extractor          einomodel.BaseChatModel
	Responder          einomodel.BaseChatModel
	ExtractorModelName string
	ResponderModelName string

	Directory directory.Store
	Knowledge knowledge.Retriever
	Mail      mail.Dispatcher
	Messages  *conversations.MessagesManager
}

// generate invokes a chat model and folds its token cost into the turn state.
func generate(ctx context.Context, cm einomodel.BaseChatModel, modelName string, st *model.TurnState, msgs []*schema.Message) (*schema.Message, error) {
	out, err := cm.Generate(ctx, msgs)
	if err != nil {
		return nil, errx.WrapInference(err)
	}
	if out == nil {
		return nil, errx.WrapInference(fmt.Errorf("model returned nil message"))
	}
	accumulateCost(st, modelName, out)
	return out, nil
}

// accumulateCost adds one model call's USD cost to the turn total.
func accumulateCost(st *model.TurnState, modelName string, out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	logx.Debug().
		Str("conversation_id", st.ConversationID).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
	st.TotalCostUSD += totalC
}

// loadDirectory returns the turn's directory snapshot, reading the backing
// store at most once per turn.
func loadDirectory(ctx context.Context, store directory.Store, st *model.TurnState) ([]directory.Record, error) {
	if st.DirectoryLoaded {
		return st.Directory, nil
	}
	records, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	st.Directory = records
	st.DirectoryLoaded = true
	logx.Debug().Int("records", len(records)).Msg("directory snapshot loaded")
	return records, nil
}

// finishTurn stores the final answer, persists it to the conversation
// history, and wraps it as the terminal assistant message. Persistence
// failures are logged, not fatal: the user still gets the answer.
func finishTurn(ctx context.Context, deps Deps, st *model.TurnState, text string) *schema.Message {
	st.FinalAnswer = text
	if err := deps.Messages.SaveResponse(ctx, st.ConversationID, text); err != nil {
		logx.Error().Err(err).Str("conversation_id", st.ConversationID).Msg("failed to save assistant response")
	}
	return schema.AssistantMessage(text, nil)
}

// formatRecords renders directory records for splicing into a prompt.
func formatRecords(records []directory.Record) string {
	if len(records) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "Name: %s | Email: %s | Phone: %s | Role: %s\n", r.Name, r.Email, r.Phone, r.Role)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatDocuments renders retrieved documents for splicing into a prompt.
func formatDocuments(docs []knowledge.Document) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, fmt.Sprintf("Source: %s\n%s", d.Source, d.Content))
	}
	return strings.Join(parts, "\n\n")
}
