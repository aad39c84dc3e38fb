package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/deskbot-poc/server/internal/agent/graph/conversations"
	"github.com/deskbot-poc/server/internal/agent/graph/nodes"
	"github.com/deskbot-poc/server/internal/agent/graph/observers"
	"github.com/deskbot-poc/server/internal/agent/model"
	"github.com/deskbot-poc/server/internal/directory"
	"github.com/deskbot-poc/server/internal/knowledge"
	"github.com/deskbot-poc/server/internal/mail"
	logx "github.com/deskbot-poc/server/pkg/logger"
)

// maxRunSteps bounds one turn's node executions. The graph is single-pass
// with no loops, so the longest path (classify, route, four mail stages) is
// well under this.
const maxRunSteps = 16

// Runner executes the compiled turn graph and returns the turn's final
// answer text.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the full turn graph end-to-end.
// It also constructs the ChatModels and MessagesManager.
type Config struct {
	APIKey  string
	BaseURL string

	ClassifierModel model.ClassifierModelConfig
	ExtractorModel  model.ExtractorModelConfig
	ResponseModel   model.ResponseModelConfig
	Conversation    model.ConversationConfig

	ConversationRepo model.ConversationRepository
	Directory        directory.Store
	Knowledge        knowledge.Retriever
	Mail             mail.Dispatcher
}

// GraphConfig holds the already-constructed collaborators to build the graph.
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	Directory       directory.Store
	Knowledge       knowledge.Retriever
	Mail            mail.Dispatcher
}

// GraphBuilder handles the construction of the turn graph
type GraphBuilder struct {
	deps   nodes.Deps
	models *nodes.ChatModels
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

// BuildTurnGraph composes the chat models, messages manager, and tool
// adapters, builds the graph, and returns a Runner.
func BuildTurnGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}
	if cfg.Directory == nil || cfg.Knowledge == nil || cfg.Mail == nil {
		return nil, fmt.Errorf("tool adapters are not properly initialized")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Classifier: &cfg.ClassifierModel,
		Extractor:  &cfg.ExtractorModel,
		Responder:  &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:      cms,
		MessagesManager: mm,
		Directory:       cfg.Directory,
		Knowledge:       cfg.Knowledge,
		Mail:            cfg.Mail,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Turn graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and compiles the turn graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Classifier == nil ||
		config.ChatModels.Extractor == nil || config.ChatModels.Responder == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}

	builder := &GraphBuilder{
		deps: nodes.Deps{
			Extractor:          config.ChatModels.Extractor,
			Responder:          config.ChatModels.Responder,
			ExtractorModelName: config.ChatModels.ExtractorModelName,
			ResponderModelName: config.ChatModels.ResponderModelName,
			Directory:          config.Directory,
			Knowledge:          config.Knowledge,
			Mail:               config.Mail,
			Messages:           config.MessagesManager,
		},
		models: config.ChatModels,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeTurnInput,
		nodes.NewTurnInputNode(b.deps.Messages),
		compose.WithStatePreHandler(nodes.NewTurnInputPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeClassifierModel,
		nodes.NewClassifierModelNode(b.models.Classifier),
		compose.WithStatePostHandler(nodes.NewClassifierPostHandler(b.models.ClassifierModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeIntentParser,
		nodes.NewIntentParserNode(),
		compose.WithStatePostHandler(nodes.NewIntentParserPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeDatabase, nodes.NewDatabaseNode(b.deps))
	b.graph.AddLambdaNode(nodes.NodeWikipedia, nodes.NewWikipediaNode(b.deps))

	// mail pipeline
	b.graph.AddLambdaNode(nodes.NodeMailExtract, nodes.NewMailExtractNode(b.deps))
	b.graph.AddLambdaNode(nodes.NodeMailLookup, nodes.NewMailLookupNode(b.deps))
	b.graph.AddLambdaNode(nodes.NodeMailAbort, nodes.NewMailAbortNode(b.deps))
	b.graph.AddLambdaNode(nodes.NodeMailDraft, nodes.NewMailDraftNode(b.deps))
	b.graph.AddLambdaNode(nodes.NodeMailSend, nodes.NewMailSendNode(b.deps))
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeTurnInput},
		{nodes.NodeTurnInput, nodes.NodeClassifierModel},
		{nodes.NodeClassifierModel, nodes.NodeIntentParser},
		{nodes.NodeMailExtract, nodes.NodeMailLookup},
		{nodes.NodeMailDraft, nodes.NodeMailSend},
		{nodes.NodeDatabase, compose.END},
		{nodes.NodeWikipedia, compose.END},
		{nodes.NodeMailAbort, compose.END},
		{nodes.NodeMailSend, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the conditional routing branches
func (b *GraphBuilder) addBranches() error {
	routeBranch := compose.NewGraphBranch(
		nodes.NewRouteCondition(),
		map[string]bool{
			nodes.NodeDatabase:    true,
			nodes.NodeMailExtract: true,
			nodes.NodeWikipedia:   true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeIntentParser, routeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding route branch")
		return fmt.Errorf("error adding route branch: %w", err)
	}

	lookupBranch := compose.NewGraphBranch(
		nodes.NewMailLookupCondition(),
		map[string]bool{
			nodes.NodeMailAbort: true,
			nodes.NodeMailDraft: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeMailLookup, lookupBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding mail lookup branch")
		return fmt.Errorf("error adding mail lookup branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxRunSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
