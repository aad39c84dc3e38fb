package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/deskbot-poc/server/internal/directory"
)

//go:embed template/classifier_prompt.txt
var classifierSystemPrompt string

//go:embed template/search_extraction_prompt.txt
var searchExtractionPrompt string

//go:embed template/mail_extraction_prompt.txt
var mailExtractionPrompt string

//go:embed template/topic_extraction_prompt.txt
var topicExtractionPrompt string

//go:embed template/draft_prompt.txt
var draftPrompt string

//go:embed template/database_answer_prompt.txt
var databaseAnswerPrompt string

//go:embed template/synthesis_prompt.txt
var synthesisPrompt string

// RenderClassifierSystem renders the intent classifier system prompt via the
// Eino prompt component, which also triggers prompt callbacks.
func RenderClassifierSystem(ctx context.Context) (string, error) {
	return renderStatic(ctx, classifierSystemPrompt)
}

// RenderSearchExtraction renders the (column, value) extraction instruction
// with the directory's allowed columns.
func RenderSearchExtraction(ctx context.Context) (string, error) {
	return renderTemplate(ctx, searchExtractionPrompt, map[string]any{
		"Columns": strings.Join(directory.Columns(), ", "),
	})
}

// RenderMailExtraction renders the recipient/body extraction instruction.
func RenderMailExtraction(ctx context.Context) (string, error) {
	return renderStatic(ctx, mailExtractionPrompt)
}

// RenderTopicExtraction renders the topic extraction instruction.
func RenderTopicExtraction(ctx context.Context) (string, error) {
	return renderStatic(ctx, topicExtractionPrompt)
}

// RenderDraftInstruction renders the email drafting instruction, splicing in
// supplementary knowledge text when present.
func RenderDraftInstruction(ctx context.Context, knowledge string) (string, error) {
	return renderTemplate(ctx, draftPrompt, map[string]any{
		"Knowledge": knowledge,
	})
}

// RenderDatabaseAnswer renders the final-answer instruction for the database
// branch with the filtered records spliced in.
func RenderDatabaseAnswer(ctx context.Context, records string) (string, error) {
	return renderTemplate(ctx, databaseAnswerPrompt, map[string]any{
		"Records": records,
	})
}

// RenderSynthesis renders the knowledge synthesis instruction grounded in the
// retrieved documents.
func RenderSynthesis(ctx context.Context, documents string) (string, error) {
	return renderTemplate(ctx, synthesisPrompt, map[string]any{
		"Documents": documents,
	})
}

// renderStatic wraps a fixed prompt through the Eino prompt component using a
// messages placeholder so callbacks fire without template interpolation
// touching the prompt text.
func renderStatic(ctx context.Context, content string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("render prompt: empty result")
	}
	return msgs[0].Content, nil
}

// renderTemplate renders a Go-template prompt with the provided variables.
func renderTemplate(ctx context.Context, content string, vars map[string]any) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(content),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("render prompt template: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("render prompt template: empty result")
	}
	return msgs[0].Content, nil
}
