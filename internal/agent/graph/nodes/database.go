package nodes

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/deskbot-poc/server/internal/agent/graph/parsers"
	"github.com/deskbot-poc/server/internal/agent/graph/prompts"
	"github.com/deskbot-poc/server/internal/agent/model"
	"github.com/deskbot-poc/server/internal/directory"
	logx "github.com/deskbot-poc/server/pkg/logger"
)

// SearchClarification is the fixed question asked when the search extraction
// comes back unclear. No directory read happens on this path.
const SearchClarification = "Which field should I search? (Name, Email, Phone, Role) and what value?"

// NewDatabaseNode creates the terminal handler of the database branch.
func NewDatabaseNode(deps Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Classification) (*schema.Message, error) {
		var out *schema.Message
		err := compose.ProcessState(ctx, func(ctx context.Context, state *model.TurnState) error {
			m, err := RunDatabaseLookup(ctx, deps, state)
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

// RunDatabaseLookup extracts a (column, value) pair from the utterance,
// filters the directory snapshot by it, and generates the final answer. An
// unclear extraction short-circuits with a clarification question before any
// directory read.
func RunDatabaseLookup(ctx context.Context, deps Deps, st *model.TurnState) (*schema.Message, error) {
	extractPrompt, err := prompts.RenderSearchExtraction(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := generate(ctx, deps.Extractor, deps.ExtractorModelName, st, []*schema.Message{
		schema.SystemMessage(extractPrompt),
		schema.UserMessage(st.Query),
	})
	if err != nil {
		return nil, err
	}

	query, perr := parsers.ParseSearchExtraction(resp.Content)
	if perr != nil {
		logx.Warn().Err(perr).Msg("search extraction unparsable - asking for clarification")
	}
	column, known := directory.NormalizeColumn(query.Column)
	if perr != nil || !known || query.Value == "" {
		return finishTurn(ctx, deps, st, SearchClarification), nil
	}

	records, err := loadDirectory(ctx, deps.Directory, st)
	if err != nil {
		return nil, err
	}
	st.Selected = directory.Filter(records, query.Value, column)
	logx.Debug().
		Str("column", column).
		Str("value", query.Value).
		Int("matches", len(st.Selected)).
		Msg("directory filtered")

	answerPrompt, err := prompts.RenderDatabaseAnswer(ctx, formatRecords(st.Selected))
	if err != nil {
		return nil, err
	}
	answer, err := generate(ctx, deps.Responder, deps.ResponderModelName, st, []*schema.Message{
		schema.SystemMessage(answerPrompt),
		schema.UserMessage(st.Query),
	})
	if err != nil {
		return nil, err
	}

	return finishTurn(ctx, deps, st, strings.TrimSpace(answer.Content)), nil
}
