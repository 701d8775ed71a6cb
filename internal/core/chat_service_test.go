package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/store"
)

func newChatService(st *store.SQLiteStore, gen Generator) *ChatService {
	cache := NewFileCache(8, time.Minute, zap.NewNop())
	return NewChatService(st, gen, cache, nil, "regular-model", zap.NewNop())
}

func TestChatSendRecordsBothSides(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	gen := &fakeGenerator{textResponse: "Hi there."}
	svc := newChatService(st, gen)

	chat, err := svc.Create(p)
	require.NoError(t, err)

	reply, err := svc.Send(context.Background(), p, chat.ID, "Hello", false, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi there.", reply.Text)
	assert.False(t, reply.FromUser)

	page, err := svc.Messages(p, chat.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.True(t, page.Messages[0].FromUser)
	assert.Equal(t, "Hello", page.Messages[0].Text)
	assert.False(t, page.Messages[1].FromUser)
}

func TestChatMessagesChronologicalWithinPage(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	svc := newChatService(st, &fakeGenerator{})

	chat, err := svc.Create(p)
	require.NoError(t, err)

	for _, text := range []string{"one", "two", "three"} {
		msg := store.Message{ChatID: chat.ID, Text: text, FromUser: true}
		require.NoError(t, st.CreateMessage(&msg))
		time.Sleep(2 * time.Millisecond)
	}

	page, err := svc.Messages(p, chat.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Messages, 3)
	assert.Equal(t, "one", page.Messages[0].Text)
	assert.Equal(t, "three", page.Messages[2].Text)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 3, page.Total)
}

func TestDeleteWorkspaceChatRefused(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	ws := newTestWorkspace(t, st, p, "Guarded")
	svc := newChatService(st, &fakeGenerator{})

	chat, err := st.GetWorkspaceChat(ws.PublicID)
	require.NoError(t, err)
	require.NotNil(t, chat)

	err = svc.Delete(p, chat.ID)
	require.ErrorIs(t, err, ErrUnauthorized)

	// The chat survives.
	still, err := st.GetChatByID(chat.ID, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestDeleteStandaloneChatCascades(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	svc := newChatService(st, &fakeGenerator{})

	chat, err := svc.Create(p)
	require.NoError(t, err)
	msg := store.Message{ChatID: chat.ID, Text: "bye", FromUser: true}
	require.NoError(t, st.CreateMessage(&msg))

	require.NoError(t, svc.Delete(p, chat.ID))

	gone, err := st.GetChatByID(chat.ID, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	count, err := st.CountMessages(chat.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConversationTranscriptSkipsFileMessages(t *testing.T) {
	path := "https://cdn.example.com/f.pdf"
	messages := []store.Message{
		{Text: "hello", FromUser: true},
		{Text: "f.pdf", FromUser: true, IsFile: true, FilePath: &path},
		{Text: "hi!", FromUser: false},
	}
	transcript := conversationTranscript(messages)
	assert.Equal(t, "User: hello\nAssistant: hi!", transcript)
}
