package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/store"
)

func seedQuiz(t *testing.T, st *store.SQLiteStore, userID int64) *store.Quiz {
	t.Helper()
	quiz := &store.Quiz{
		Name:       "Sample",
		Creator:    "Alice",
		UserID:     userID,
		Source:     "biology",
		SourceType: store.SourceTopic,
		Duration:   10,
	}
	questions := []store.Question{
		{Question: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a", Explanation: "e1"},
		{Question: "Q2", Options: []string{"a", "b"}, CorrectAnswer: "b", Explanation: "e2"},
		{Question: "Q3", Options: []string{"a", "b"}, CorrectAnswer: "a", Explanation: "e3"},
	}
	_, err := st.CreateQuizWithQuestions(quiz, questions)
	require.NoError(t, err)
	return quiz
}

func TestAssessScoresExactMatches(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	quiz := seedQuiz(t, st, p.ID)
	svc := NewQuizService(st, zap.NewNop())

	attempt, err := svc.Assess(quiz.ID, "Bob", "bob@example.com", []string{"a", "a", "a"}, 120, "3:00")
	require.NoError(t, err)

	assert.Equal(t, 2, attempt.Score)
	assert.Equal(t, 3, attempt.Total)
	assert.InDelta(t, 66.67, attempt.Percentage, 0.001)

	// The attempt is on record.
	stored, err := st.GetAttemptByEmail(quiz.ID, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []string{"a", "a", "a"}, stored.Answers)
}

func TestAssessRejectsWrongAnswerCount(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	quiz := seedQuiz(t, st, p.ID)
	svc := NewQuizService(st, zap.NewNop())

	_, err := svc.Assess(quiz.ID, "Bob", "bob@example.com", []string{"a"}, 60, "4:00")
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssessRejectsSecondAttemptForEmail(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	quiz := seedQuiz(t, st, p.ID)
	svc := NewQuizService(st, zap.NewNop())

	_, err := svc.Assess(quiz.ID, "Bob", "bob@example.com", []string{"a", "b", "a"}, 100, "1:40")
	require.NoError(t, err)

	_, err = svc.Assess(quiz.ID, "Bob", "bob@example.com", []string{"a", "a", "a"}, 90, "1:30")
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAssessUnknownQuiz(t *testing.T) {
	st := newTestStore(t)
	svc := NewQuizService(st, zap.NewNop())

	_, err := svc.Assess("missing", "Bob", "bob@example.com", []string{"a"}, 60, "4:00")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLeaderboardAverages(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	quiz := seedQuiz(t, st, p.ID)
	svc := NewQuizService(st, zap.NewNop())

	_, err := svc.Assess(quiz.ID, "Bob", "bob@example.com", []string{"a", "b", "a"}, 100, "1:40")
	require.NoError(t, err)
	_, err = svc.Assess(quiz.ID, "Carol", "carol@example.com", []string{"b", "a", "b"}, 90, "1:30")
	require.NoError(t, err)

	board, err := svc.Leaderboard(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, board.Attempts)
	// Scores 3 and 0, best first.
	assert.Equal(t, 3, board.Entries[0].Score)
	assert.InDelta(t, 1.5, board.AverageScore, 0.001)
	assert.InDelta(t, 50.0, board.AveragePercentage, 0.001)
}

func TestAttemptDetailBreakdown(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	quiz := seedQuiz(t, st, p.ID)
	svc := NewQuizService(st, zap.NewNop())

	attempt, err := svc.Assess(quiz.ID, "Bob", "bob@example.com", []string{"a", "a", "a"}, 120, "3:00")
	require.NoError(t, err)

	detail, err := svc.AttemptDetail(quiz.ID, attempt.ID)
	require.NoError(t, err)
	require.Len(t, detail.Breakdown, 3)
	assert.True(t, detail.Breakdown[0].Correct)
	assert.False(t, detail.Breakdown[1].Correct)
	assert.Equal(t, "b", detail.Breakdown[1].CorrectAnswer)
}

func TestDeleteQuizRequiresOwnership(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	quiz := seedQuiz(t, st, p.ID)
	svc := NewQuizService(st, zap.NewNop())

	stranger := Principal{ID: p.ID + 1}
	require.ErrorIs(t, svc.Delete(stranger, quiz.ID), ErrNotFound)

	require.NoError(t, svc.Delete(p, quiz.ID))
	_, err := svc.Get(quiz.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
