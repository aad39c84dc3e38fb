package graph

import (
	"context"
	"fmt"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskbot-poc/server/internal/agent/graph/conversations"
	"github.com/deskbot-poc/server/internal/agent/graph/nodes"
	"github.com/deskbot-poc/server/internal/agent/model"
	"github.com/deskbot-poc/server/internal/agent/repo"
	"github.com/deskbot-poc/server/internal/directory"
	"github.com/deskbot-poc/server/internal/knowledge"
)

type scriptedChatModel struct {
	replies []string
	calls   int
}

func (m *scriptedChatModel) Generate(ctx context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	if m.calls >= len(m.replies) {
		return nil, fmt.Errorf("no scripted reply for call %d", m.calls)
	}
	out := schema.AssistantMessage(m.replies[m.calls], nil)
	m.calls++
	return out, nil
}

func (m *scriptedChatModel) Stream(ctx context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not supported")
}

type countingStore struct {
	records []directory.Record
	calls   int
}

func (s *countingStore) List(ctx context.Context) ([]directory.Record, error) {
	s.calls++
	return s.records, nil
}

type fakeRetriever struct {
	docs   []knowledge.Document
	topics []string
}

func (r *fakeRetriever) Retrieve(ctx context.Context, topic string) ([]knowledge.Document, error) {
	r.topics = append(r.topics, topic)
	return r.docs, nil
}

type fakeDispatcher struct {
	sent []model.MailDraft
}

func (d *fakeDispatcher) Send(ctx context.Context, to, subject, body string) (string, error) {
	d.sent = append(d.sent, model.MailDraft{To: to, Subject: subject, Body: body})
	return fmt.Sprintf("Email sent to %s", to), nil
}

type turnFixture struct {
	runnable   compose.Runnable[model.QueryInput, *schema.Message]
	store      *countingStore
	retriever  *fakeRetriever
	dispatcher *fakeDispatcher
	history    *repo.MemoryConversationRepository
}

// newTurnFixture compiles the full graph against scripted models and
// in-memory adapters. One fixture serves one turn; the scripts are consumed.
func newTurnFixture(t *testing.T, classifier, extractor, responder []string) *turnFixture {
	t.Helper()

	f := &turnFixture{
		store:      &countingStore{records: directory.SeedRecords},
		retriever:  &fakeRetriever{},
		dispatcher: &fakeDispatcher{},
		history:    repo.NewMemoryConversationRepository(),
	}

	runnable, err := BuildGraph(context.Background(), &GraphConfig{
		ChatModels: &nodes.ChatModels{
			Classifier:          &scriptedChatModel{replies: classifier},
			Extractor:           &scriptedChatModel{replies: extractor},
			Responder:           &scriptedChatModel{replies: responder},
			ClassifierModelName: "gemini-2.5-flash-lite",
			ExtractorModelName:  "gemini-2.5-flash-lite",
			ResponderModelName:  "gemini-2.5-flash",
		},
		MessagesManager: conversations.NewMessagesManager(f.history, model.ConversationConfig{HistoryMaxTurns: 10}),
		Directory:       f.store,
		Knowledge:       f.retriever,
		Mail:            f.dispatcher,
	})
	require.NoError(t, err)
	f.runnable = runnable
	return f
}

func (f *turnFixture) invoke(t *testing.T, query string) string {
	t.Helper()
	out, err := f.runnable.Invoke(context.Background(), model.QueryInput{
		ConversationID: "conv-1",
		Query:          query,
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	return out.Content
}

func (f *turnFixture) persisted(t *testing.T) []*schema.Message {
	t.Helper()
	history, err := f.history.LoadHistory(context.Background(), "conv-1")
	require.NoError(t, err)
	return history.Messages
}

func TestTurnGraph_DatabaseLookup(t *testing.T) {
	f := newTurnFixture(t,
		[]string{"database"},
		[]string{`{"column": "Name", "value": "Emma"}`},
		[]string{"Emma's phone number is 555-0101."},
	)

	answer := f.invoke(t, "What is Emma's phone number?")

	assert.Equal(t, "Emma's phone number is 555-0101.", answer)
	assert.Equal(t, 1, f.store.calls)
	assert.Empty(t, f.dispatcher.sent)
	assert.Empty(t, f.retriever.topics)

	msgs := f.persisted(t)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Equal(t, schema.Assistant, msgs[1].Role)
	assert.Equal(t, answer, msgs[1].Content)
}

func TestTurnGraph_DatabaseClarification(t *testing.T) {
	f := newTurnFixture(t,
		[]string{"database"},
		[]string{`{"column": null, "value": null}`},
		nil,
	)

	answer := f.invoke(t, "look something up for me")

	assert.Equal(t, nodes.SearchClarification, answer)
	assert.Zero(t, f.store.calls)
}

func TestTurnGraph_MailRecipientNotFound(t *testing.T) {
	f := newTurnFixture(t,
		[]string{"mail"},
		[]string{`{"recipient_name": "Zed", "recipient_email": null, "message_body": "lunch?"}`},
		nil,
	)

	answer := f.invoke(t, "send Zed an email about lunch")

	assert.Equal(t, "I could not find 'Zed' in the contact directory.", answer)
	assert.Empty(t, f.dispatcher.sent, "no draft or dispatch after a failed lookup")
}

func TestTurnGraph_MailEndToEnd(t *testing.T) {
	f := newTurnFixture(t,
		[]string{"mail"},
		[]string{`{"recipient_name": "Emma", "recipient_email": null, "message_body": "the demo moved to Friday"}`},
		[]string{
			"none",
			"subject: Demo moved\nbody:\nHi Emma,\n\nThe demo moved to Friday.",
		},
	)

	answer := f.invoke(t, "email Emma that the demo moved to Friday")

	assert.Equal(t, "Email sent to emma@example.com", answer)
	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, "emma@example.com", f.dispatcher.sent[0].To)
	assert.Equal(t, "Demo moved", f.dispatcher.sent[0].Subject)
	assert.Equal(t, 1, f.store.calls)
}

func TestTurnGraph_MailWithExplicitAddressSkipsDirectory(t *testing.T) {
	f := newTurnFixture(t,
		[]string{"mail"},
		[]string{`{"recipient_name": null, "recipient_email": "unknown@nowhere.test", "message_body": "saying hello"}`},
		[]string{
			"none",
			"subject: Hello\nbody:\nHello!",
		},
	)

	answer := f.invoke(t, "send an email to unknown@nowhere.test saying hello")

	assert.Equal(t, "Email sent to unknown@nowhere.test", answer)
	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, "unknown@nowhere.test", f.dispatcher.sent[0].To)
	assert.Zero(t, f.store.calls, "explicit address must not trigger a directory read")
}

func TestTurnGraph_WikipediaGroundedAnswer(t *testing.T) {
	f := newTurnFixture(t,
		[]string{"wikipedia"},
		nil,
		[]string{
			"topic: Ada Lovelace",
			"Ada Lovelace wrote the first published algorithm.",
		},
	)
	f.retriever.docs = []knowledge.Document{
		{Content: "Ada Lovelace was an English mathematician.", Source: "https://en.wikipedia.org/wiki/Ada_Lovelace"},
	}

	answer := f.invoke(t, "who was Ada Lovelace")

	assert.NotEmpty(t, answer)
	assert.Equal(t, "Ada Lovelace wrote the first published algorithm.", answer)
	assert.Equal(t, []string{"Ada Lovelace"}, f.retriever.topics)
}

func TestTurnGraph_WikipediaNoTopicDegrades(t *testing.T) {
	f := newTurnFixture(t,
		[]string{"wikipedia"},
		nil,
		[]string{
			"none",
			"I don't have specific information about that.",
		},
	)

	answer := f.invoke(t, "tell me about xyzzyqwerty123")

	assert.Equal(t, "I don't have specific information about that.", answer)
	assert.Empty(t, f.retriever.topics, "no-topic turns skip retrieval")
}

func TestTurnGraph_InvalidLabelFallsBackToWikipedia(t *testing.T) {
	f := newTurnFixture(t,
		[]string{"banana"},
		nil,
		[]string{
			"topic: Alan Turing",
			"Alan Turing broke the Enigma cipher.",
		},
	)
	f.retriever.docs = []knowledge.Document{
		{Content: "Alan Turing was an English mathematician.", Source: "https://en.wikipedia.org/wiki/Alan_Turing"},
	}

	answer := f.invoke(t, "Who was Alan Turing?")

	assert.Equal(t, "Alan Turing broke the Enigma cipher.", answer)
	assert.Equal(t, []string{"Alan Turing"}, f.retriever.topics)
	assert.Zero(t, f.store.calls)
	assert.Empty(t, f.dispatcher.sent)
}

func TestBuildGraphValidation(t *testing.T) {
	_, err := BuildGraph(context.Background(), nil)
	require.Error(t, err)

	_, err = BuildGraph(context.Background(), &GraphConfig{})
	require.Error(t, err)
}
