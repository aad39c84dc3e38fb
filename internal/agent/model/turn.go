package model

import (
	"github.com/deskbot-poc/server/internal/directory"
)

// Intent labels form a closed enumeration. Any other classifier output is
// routed to the wikipedia branch.
const (
	IntentDatabase  = "database"
	IntentMail      = "mail"
	IntentWikipedia = "wikipedia"
)

// ValidIntent reports whether label belongs to the closed intent set.
func ValidIntent(label string) bool {
	switch label {
	case IntentDatabase, IntentMail, IntentWikipedia:
		return true
	default:
		return false
	}
}

// Classification is the typed result of the intent classifier.
type Classification struct {
	Intent string `json:"intent"`
}

// SearchQuery is the (column, value) pair extracted for a directory search.
// An empty field means the extraction came back unclear.
type SearchQuery struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// MailFields carries the mail pipeline's extraction and lookup results
// between nodes. NotFound marks a lookup that could not resolve a recipient;
// AbortReason is the assistant text that ends such a turn.
type MailFields struct {
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	MessageBody    string `json:"message_body"`
	NotFound       bool   `json:"-"`
	AbortReason    string `json:"-"`
}

// MailDraft is a parsed, validated draft ready for dispatch.
type MailDraft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TurnState stores per-invocation state for the Eino graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers
//     (WithStatePreHandler, WithStatePostHandler, compose.ProcessState),
//     which Eino serializes, so no additional locking is required.
//   - The graph is single-pass: one turn is processed to completion and the
//     state is discarded with the invocation.
type TurnState struct {
	ConversationID string
	Query          string // latest user utterance, set once per turn
	Intent         string // classifier label after routing normalization

	// Directory snapshot, populated at most once per turn.
	Directory       []directory.Record
	DirectoryLoaded bool
	Selected        []directory.Record

	// Mail pipeline fields.
	RecipientName  string
	RecipientEmail string
	MessageBody    string
	DraftSubject   string
	DraftBody      string

	// Supplementary knowledge.
	NeedKnowledge bool
	KnowledgeText string

	// FinalAnswer is set exactly once, by the terminal node of the turn.
	FinalAnswer string

	// Accumulated LLM cost (USD) across model invocations for this turn.
	TotalCostUSD float64
}

// QueryInput represents the input for processing one user turn.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}
