package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *SQLiteStore) *User {
	t.Helper()
	user, err := s.CreateUser("Alice", "alice@example.com", "hash")
	require.NoError(t, err)
	return user
}

func TestUserRoundTrip(t *testing.T) {
	s := newStore(t)
	user := seedUser(t, s)

	byEmail, err := s.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := s.GetUserByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWorkspacePublicIDSetOnce(t *testing.T) {
	s := newStore(t)
	user := seedUser(t, s)

	ws, err := s.CreateWorkspace("Notes", nil, nil, user.ID)
	require.NoError(t, err)

	require.NoError(t, s.SetWorkspacePublicID(ws.ID, "first-id"))
	require.NoError(t, s.SetWorkspacePublicID(ws.ID, "second-id"))

	stored, err := s.GetWorkspaceByPublicID("first-id", user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "the first stamp must win")

	overwritten, err := s.GetWorkspaceByPublicID("second-id", user.ID)
	require.NoError(t, err)
	assert.Nil(t, overwritten)
}

func TestFileScopesAreExclusive(t *testing.T) {
	s := newStore(t)
	user := seedUser(t, s)

	wsID := "ws-1"
	chat, err := s.CreateChat(user.ID, nil)
	require.NoError(t, err)

	require.NoError(t, s.CreateFile(&File{
		Kind: FileKindPDF, Name: "ws.pdf", WorkspaceID: &wsID,
		UserID: user.ID, Path: "https://cdn.example.com/ws.pdf", Size: "1 KB",
	}))
	require.NoError(t, s.CreateFile(&File{
		Kind: FileKindPDF, Name: "chat.pdf", ChatID: &chat.ID,
		UserID: user.ID, Path: "https://cdn.example.com/chat.pdf", Size: "1 KB",
	}))

	wsFiles, err := s.ListWorkspaceFiles(wsID, FileKindPDF)
	require.NoError(t, err)
	require.Len(t, wsFiles, 1)
	assert.Equal(t, "ws.pdf", wsFiles[0].Name)

	chatFiles, err := s.ListChatFiles(chat.ID, FileKindPDF)
	require.NoError(t, err)
	require.Len(t, chatFiles, 1)
	assert.Equal(t, "chat.pdf", chatFiles[0].Name)
}

func TestUpdateFileSummaryByPath(t *testing.T) {
	s := newStore(t)
	user := seedUser(t, s)

	wsID := "ws-1"
	require.NoError(t, s.CreateFile(&File{
		Kind: FileKindPDF, Name: "a.pdf", WorkspaceID: &wsID,
		UserID: user.ID, Path: "https://cdn.example.com/a.pdf", Size: "1 KB",
	}))

	require.NoError(t, s.UpdateFileSummaryByPath("https://cdn.example.com/a.pdf", "study guide text"))

	file, err := s.GetFileByPath("https://cdn.example.com/a.pdf", wsID)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "study guide text", file.Summary)

	err = s.UpdateFileSummaryByPath("https://cdn.example.com/missing.pdf", "x")
	assert.Error(t, err, "updating a missing path must be reported")
}

func TestListMessagesPageNewestFirst(t *testing.T) {
	s := newStore(t)
	user := seedUser(t, s)
	chat, err := s.CreateChat(user.ID, nil)
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		msg := Message{ChatID: chat.ID, Text: text, FromUser: true}
		require.NoError(t, s.CreateMessage(&msg))
		time.Sleep(2 * time.Millisecond)
	}

	page, err := s.ListMessagesPage(chat.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "third", page[0].Text)
	assert.Equal(t, "second", page[1].Text)

	rest, err := s.ListMessagesPage(chat.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "first", rest[0].Text)
}

func TestQuizWithQuestionsRoundTrip(t *testing.T) {
	s := newStore(t)
	user := seedUser(t, s)

	quiz := &Quiz{
		Name: "Q", Creator: "Alice", UserID: user.ID,
		Source: "topic", SourceType: SourceTopic, Duration: 5,
	}
	questions := []Question{
		{Question: "1+1?", Options: []string{"1", "2"}, CorrectAnswer: "2", Explanation: "sum"},
		{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4", Explanation: "sum"},
	}

	parentCreated, err := s.CreateQuizWithQuestions(quiz, questions)
	require.NoError(t, err)
	assert.True(t, parentCreated)

	stored, err := s.ListQuestions(quiz.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, []string{"1", "2"}, stored[0].Options)

	require.NoError(t, s.DeleteQuizCascade(quiz.ID, user.ID))
	gone, err := s.GetQuizByID(quiz.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	none, err := s.ListQuestions(quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAttemptAnswersRoundTrip(t *testing.T) {
	s := newStore(t)

	attempt := &QuizAttempt{
		QuizID: "quiz-1", Name: "Bob", Email: "bob@example.com",
		Score: 2, Total: 3, Percentage: 66.67,
		TimeTaken: 120, TimeRemaining: "1:00",
		Answers: []string{"a", "b", "c"},
	}
	require.NoError(t, s.CreateAttempt(attempt))

	stored, err := s.GetAttemptByID(attempt.ID, "quiz-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"a", "b", "c"}, stored.Answers)

	missing, err := s.GetAttemptByEmail("quiz-1", "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestVideoUniquePerWorkspace(t *testing.T) {
	s := newStore(t)

	v := &Video{VideoID: "abc", Title: "T", WorkspaceID: "ws-1"}
	require.NoError(t, s.CreateVideo(v))

	dup := &Video{VideoID: "abc", Title: "T", WorkspaceID: "ws-1"}
	assert.Error(t, s.CreateVideo(dup))

	other := &Video{VideoID: "abc", Title: "T", WorkspaceID: "ws-2"}
	assert.NoError(t, s.CreateVideo(other))
}
