package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/deskbot-poc/server/internal/agent/graph/parsers"
	"github.com/deskbot-poc/server/internal/agent/graph/prompts"
	"github.com/deskbot-poc/server/internal/agent/model"
	errx "github.com/deskbot-poc/server/internal/core/error"
	"github.com/deskbot-poc/server/internal/directory"
	logx "github.com/deskbot-poc/server/pkg/logger"
)

// RecipientClarification is asked when the extraction yields neither a
// recipient name nor an email address.
const RecipientClarification = "Who should receive this email? Please give a name or an email address."

// NewMailExtractNode creates the first stage of the mail pipeline: structured
// extraction of recipient name, recipient email, and intended message body.
func NewMailExtractNode(deps Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Classification) (model.MailFields, error) {
		var fields model.MailFields
		err := compose.ProcessState(ctx, func(ctx context.Context, state *model.TurnState) error {
			f, err := RunMailExtract(ctx, deps, state)
			if err != nil {
				return err
			}
			fields = f
			return nil
		})
		if err != nil {
			return model.MailFields{}, err
		}
		return fields, nil
	})
}

// RunMailExtract infers the mail fields from the latest utterance. Any field
// may come back empty; an unparsable extraction degrades to all-empty fields
// so the lookup stage can ask for clarification instead of guessing.
func RunMailExtract(ctx context.Context, deps Deps, st *model.TurnState) (model.MailFields, error) {
	extractPrompt, err := prompts.RenderMailExtraction(ctx)
	if err != nil {
		return model.MailFields{}, err
	}
	resp, err := generate(ctx, deps.Extractor, deps.ExtractorModelName, st, []*schema.Message{
		schema.SystemMessage(extractPrompt),
		schema.UserMessage(st.Query),
	})
	if err != nil {
		return model.MailFields{}, err
	}

	fields, perr := parsers.ParseMailExtraction(resp.Content)
	if perr != nil {
		logx.Warn().Err(perr).Msg("mail extraction unparsable - treating all fields as missing")
		fields = model.MailFields{}
	}

	st.RecipientName = fields.RecipientName
	st.RecipientEmail = fields.RecipientEmail
	st.MessageBody = fields.MessageBody
	return fields, nil
}

// NewMailLookupNode resolves the recipient email through the directory when
// the extraction did not carry one.
func NewMailLookupNode(deps Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.MailFields) (model.MailFields, error) {
		var fields model.MailFields
		err := compose.ProcessState(ctx, func(ctx context.Context, state *model.TurnState) error {
			f, err := RunMailLookup(ctx, deps, state, in)
			if err != nil {
				return err
			}
			fields = f
			return nil
		})
		if err != nil {
			return model.MailFields{}, err
		}
		return fields, nil
	})
}

// RunMailLookup skips straight through when an explicit recipient email was
// extracted; the directory is never read on that path. Otherwise it filters
// the snapshot by the extracted name on the Name column and takes the first
// match in directory read order. No match marks the fields NotFound with the
// assistant text that ends the turn, and clears the recipient email.
func RunMailLookup(ctx context.Context, deps Deps, st *model.TurnState, fields model.MailFields) (model.MailFields, error) {
	if fields.RecipientEmail != "" {
		return fields, nil
	}

	if fields.RecipientName == "" {
		fields.NotFound = true
		fields.AbortReason = RecipientClarification
		return fields, nil
	}

	records, err := loadDirectory(ctx, deps.Directory, st)
	if err != nil {
		return model.MailFields{}, err
	}

	matches := directory.Filter(records, fields.RecipientName, directory.ColumnName)
	if len(matches) == 0 {
		st.RecipientEmail = ""
		fields.RecipientEmail = ""
		fields.NotFound = true
		fields.AbortReason = fmt.Sprintf("I could not find '%s' in the contact directory.", fields.RecipientName)
		return fields, nil
	}

	fields.RecipientEmail = matches[0].Email
	st.RecipientEmail = matches[0].Email
	logx.Debug().
		Str("recipient_name", fields.RecipientName).
		Str("recipient_email", fields.RecipientEmail).
		Int("matches", len(matches)).
		Msg("recipient resolved from directory")
	return fields, nil
}

// NewMailLookupCondition routes unresolved recipients to the abort node; the
// draft and send stages never run for them.
func NewMailLookupCondition() func(context.Context, model.MailFields) (string, error) {
	return func(ctx context.Context, input model.MailFields) (string, error) {
		if input.NotFound {
			return NodeMailAbort, nil
		}
		return NodeMailDraft, nil
	}
}

// NewMailAbortNode ends the turn with the lookup's not-found or clarification
// message.
func NewMailAbortNode(deps Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.MailFields) (*schema.Message, error) {
		reason := in.AbortReason
		if reason == "" {
			reason = RecipientClarification
		}
		var out *schema.Message
		err := compose.ProcessState(ctx, func(ctx context.Context, state *model.TurnState) error {
			out = finishTurn(ctx, deps, state, reason)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

// NewMailDraftNode creates the drafting stage.
func NewMailDraftNode(deps Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.MailFields) (model.MailDraft, error) {
		var draft model.MailDraft
		err := compose.ProcessState(ctx, func(ctx context.Context, state *model.TurnState) error {
			d, err := RunMailDraft(ctx, deps, state)
			if err != nil {
				return err
			}
			draft = d
			return nil
		})
		if err != nil {
			return model.MailDraft{}, err
		}
		return draft, nil
	})
}

// RunMailDraft optionally enriches the draft with supplementary topical
// knowledge, invokes free-text generation under the subject/body contract,
// and validates the output. A contract violation is a typed error; a
// corrupted draft is never dispatched. Knowledge lookup failures degrade to
// drafting without reference material.
func RunMailDraft(ctx context.Context, deps Deps, st *model.TurnState) (model.MailDraft, error) {
	topicPrompt, err := prompts.RenderTopicExtraction(ctx)
	if err != nil {
		return model.MailDraft{}, err
	}
	topicResp, err := generate(ctx, deps.Responder, deps.ResponderModelName, st, []*schema.Message{
		schema.SystemMessage(topicPrompt),
		schema.UserMessage(st.Query),
	})
	if err != nil {
		return model.MailDraft{}, err
	}

	var knowledgeText string
	if topic := parsers.ParseTopic(topicResp.Content); topic != "" {
		st.NeedKnowledge = true
		docs, rerr := deps.Knowledge.Retrieve(ctx, topic)
		if rerr != nil {
			logx.Warn().Err(rerr).Str("topic", topic).Msg("knowledge lookup failed - drafting without reference material")
		} else {
			knowledgeText = formatDocuments(docs)
			st.KnowledgeText = knowledgeText
		}
	}

	draftPrompt, err := prompts.RenderDraftInstruction(ctx, knowledgeText)
	if err != nil {
		return model.MailDraft{}, err
	}
	intent := st.MessageBody
	if intent == "" {
		intent = st.Query
	}
	out, err := generate(ctx, deps.Responder, deps.ResponderModelName, st, []*schema.Message{
		schema.SystemMessage(draftPrompt),
		schema.UserMessage(intent),
	})
	if err != nil {
		return model.MailDraft{}, err
	}

	subject, body, perr := parsers.ParseDraft(out.Content)
	if perr != nil {
		logx.Error().Err(perr).Msg("draft violated the subject/body contract")
		return model.MailDraft{}, errx.WrapDraftContract(perr)
	}

	st.DraftSubject = subject
	st.DraftBody = body
	return model.MailDraft{To: st.RecipientEmail, Subject: subject, Body: body}, nil
}

// NewMailSendNode creates the terminal dispatch stage.
func NewMailSendNode(deps Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.MailDraft) (*schema.Message, error) {
		var out *schema.Message
		err := compose.ProcessState(ctx, func(ctx context.Context, state *model.TurnState) error {
			m, err := RunMailSend(ctx, deps, state, in)
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

// RunMailSend dispatches the validated draft. Transport failures become the
// turn's final assistant message instead of an uncaught crash.
func RunMailSend(ctx context.Context, deps Deps, st *model.TurnState, draft model.MailDraft) (*schema.Message, error) {
	confirmation, err := deps.Mail.Send(ctx, draft.To, draft.Subject, draft.Body)
	if err != nil {
		logx.Error().Err(err).Str("to", draft.To).Msg("mail dispatch failed")
		confirmation = fmt.Sprintf("I could not send the email to %s: %s.", draft.To, errx.UserMessage(err))
	}
	return finishTurn(ctx, deps, st, confirmation), nil
}
