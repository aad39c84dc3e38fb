package nodes

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/deskbot-poc/server/internal/agent/graph/parsers"
	"github.com/deskbot-poc/server/internal/agent/graph/prompts"
	"github.com/deskbot-poc/server/internal/agent/model"
	logx "github.com/deskbot-poc/server/pkg/logger"
)

// NewWikipediaNode creates the terminal handler of the open-domain branch.
func NewWikipediaNode(deps Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Classification) (*schema.Message, error) {
		var out *schema.Message
		err := compose.ProcessState(ctx, func(ctx context.Context, state *model.TurnState) error {
			m, err := RunWikipedia(ctx, deps, state)
			if err != nil {
				return err
			}
			out = m
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

// RunWikipedia extracts a topic, retrieves up to two summarized documents,
// and synthesizes an answer grounded in their text. With no topic or a
// failed retrieval it degrades to an ungrounded answer rather than aborting
// the turn.
func RunWikipedia(ctx context.Context, deps Deps, st *model.TurnState) (*schema.Message, error) {
	topicPrompt, err := prompts.RenderTopicExtraction(ctx)
	if err != nil {
		return nil, err
	}
	topicResp, err := generate(ctx, deps.Responder, deps.ResponderModelName, st, []*schema.Message{
		schema.SystemMessage(topicPrompt),
		schema.UserMessage(st.Query),
	})
	if err != nil {
		return nil, err
	}

	var docsText string
	if topic := parsers.ParseTopic(topicResp.Content); topic != "" {
		st.NeedKnowledge = true
		docs, rerr := deps.Knowledge.Retrieve(ctx, topic)
		if rerr != nil {
			logx.Warn().Err(rerr).Str("topic", topic).Msg("knowledge lookup failed - answering without grounding documents")
		} else {
			docsText = formatDocuments(docs)
			st.KnowledgeText = docsText
			logx.Debug().Str("topic", topic).Int("documents", len(docs)).Msg("knowledge retrieved")
		}
	}

	synthesisPrompt, err := prompts.RenderSynthesis(ctx, docsText)
	if err != nil {
		return nil, err
	}
	answer, err := generate(ctx, deps.Responder, deps.ResponderModelName, st, []*schema.Message{
		schema.SystemMessage(synthesisPrompt),
		schema.UserMessage(st.Query),
	})
	if err != nil {
		return nil, err
	}

	return finishTurn(ctx, deps, st, strings.TrimSpace(answer.Content)), nil
}
