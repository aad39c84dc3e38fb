package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/deskbot-poc/server/internal/agent/model"
	logx "github.com/deskbot-poc/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey     string
	BaseURL    string
	Classifier *model.ClassifierModelConfig
	Extractor  *model.ExtractorModelConfig
	Responder  *model.ResponseModelConfig
}

// ChatModels holds the three model roles the graph uses: a classifier for
// intent labels, an extractor for structured field extraction, and a
// responder for free-text generation.
type ChatModels struct {
	Classifier einomodel.BaseChatModel
	Extractor  einomodel.BaseChatModel
	Responder  einomodel.BaseChatModel

	ClassifierModelName string
	ExtractorModelName  string
	ResponderModelName  string
}

// NewChatModels creates the classifier, extractor, and responder chat models
// on a shared Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	classifier, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Classifier.Model,
		Temperature: &config.Classifier.Temperature,
		MaxTokens:   &config.Classifier.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	extractor, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Extractor.Model,
		Temperature: &config.Extractor.Temperature,
		MaxTokens:   &config.Extractor.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating extractor model")
		return nil, fmt.Errorf("error creating extractor model: %w", err)
	}

	responder, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Responder.Model,
		Temperature: &config.Responder.Temperature,
		MaxTokens:   &config.Responder.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(1000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating responder model")
		return nil, fmt.Errorf("error creating responder model: %w", err)
	}

	return &ChatModels{
		Classifier:          classifier,
		Extractor:           extractor,
		Responder:           responder,
		ClassifierModelName: config.Classifier.Model,
		ExtractorModelName:  config.Extractor.Model,
		ResponderModelName:  config.Responder.Model,
	}, nil
}

// NewClassifierModelNode wraps the classifier chat model for use as a graph node.
func NewClassifierModelNode(cm einomodel.BaseChatModel) einomodel.BaseChatModel {
	return cm
}
