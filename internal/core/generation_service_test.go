package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/store"
	"github.com/studypilot/studypilot/internal/tasks"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestRunner(t *testing.T) *tasks.Runner {
	t.Helper()
	return tasks.NewRunner(2, 32, 5*time.Second, zap.NewNop())
}

func newTestPrincipal(t *testing.T, st *store.SQLiteStore) Principal {
	t.Helper()
	user, err := st.CreateUser("Alice", "alice@example.com", "hash")
	require.NoError(t, err)
	return Principal{ID: user.ID, Name: user.Name, Email: user.Email}
}

func newTestWorkspace(t *testing.T, st *store.SQLiteStore, p Principal, name string) *store.Workspace {
	t.Helper()
	svc := NewWorkspaceService(st, uuid.New(), zap.NewNop())
	ws, err := svc.Create(p, name, nil, nil)
	require.NoError(t, err)
	return ws
}

// fakeGenerator returns canned responses and records what it was asked.
type fakeGenerator struct {
	mu           sync.Mutex
	textResponse string
	jsonResponse string
	models       []string
	partCounts   []int
}

func (f *fakeGenerator) GenerateText(_ context.Context, model string, parts []Part) (string, error) {
	f.record(model, parts)
	return f.textResponse, nil
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, model string, parts []Part, _ *genai.Schema) (string, error) {
	f.record(model, parts)
	return f.jsonResponse, nil
}

func (f *fakeGenerator) record(model string, parts []Part) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, model)
	f.partCounts = append(f.partCounts, len(parts))
}

func newGenerationService(st *store.SQLiteStore, gen Generator, runner *tasks.Runner) *GenerationService {
	cache := NewFileCache(8, time.Minute, zap.NewNop())
	return NewGenerationService(st, gen, cache, runner, "thinking-model", "regular-model", zap.NewNop())
}

const quizJSON = `[
	{"question": "What is the powerhouse of the cell?", "options": ["Nucleus", "Mitochondria", "Ribosome", "Golgi"], "correct_answer": "Mitochondria", "explanation": "Mitochondria produce ATP."},
	{"question": "What does DNA stand for?", "options": ["A", "B", "C", "Deoxyribonucleic acid"], "correct_answer": "Deoxyribonucleic acid", "explanation": "Standard abbreviation."},
	{"question": "Which organelle performs photosynthesis?", "options": ["Chloroplast", "Vacuole", "Lysosome", "Nucleus"], "correct_answer": "Chloroplast", "explanation": "Chloroplasts contain chlorophyll."},
	{"question": "What is the basic unit of life?", "options": ["Atom", "Cell", "Tissue", "Organ"], "correct_answer": "Cell", "explanation": "Cell theory."},
	{"question": "What molecule carries energy?", "options": ["ATP", "DNA", "RNA", "H2O"], "correct_answer": "ATP", "explanation": "Adenosine triphosphate."}
]`

func TestGenerateQuizFromWorkspace(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	ws := newTestWorkspace(t, st, p, "Biology 101")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	require.NoError(t, st.CreateFile(&store.File{
		Kind:        store.FileKindPDF,
		Name:        "cells.pdf",
		WorkspaceID: &ws.PublicID,
		UserID:      p.ID,
		Path:        srv.URL + "/cells.pdf",
		Size:        "1.00 KB",
	}))

	gen := &fakeGenerator{jsonResponse: quizJSON}
	runner := newTestRunner(t)
	svc := newGenerationService(st, gen, runner)

	detail, err := svc.GenerateQuiz(context.Background(), p, QuizRequest{
		WorkspaceID: ws.PublicID,
		Difficulty:  "medium",
		Size:        5,
		Duration:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, store.SourceWorkspace, detail.SourceType)
	assert.Equal(t, "Biology 101", detail.Source)
	assert.Equal(t, p.Name, detail.Creator)
	require.Len(t, detail.Questions, 5)

	// Persisted quiz and questions match what was returned.
	stored, err := st.GetQuizByID(detail.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	questions, err := st.ListQuestions(detail.ID)
	require.NoError(t, err)
	assert.Len(t, questions, 5)
	assert.Equal(t, "Mitochondria", questions[0].CorrectAnswer)

	// The workspace chat gets a pointer to the new quiz.
	runner.Close()
	chat, err := st.GetWorkspaceChat(ws.PublicID)
	require.NoError(t, err)
	require.NotNil(t, chat)
	messages, err := st.ListMessagesPage(chat.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.NotNil(t, messages[0].QuizID)
	assert.Equal(t, detail.ID, *messages[0].QuizID)
}

func TestGenerateQuizClampsOversizedOutput(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)

	gen := &fakeGenerator{jsonResponse: quizJSON}
	runner := newTestRunner(t)
	defer runner.Close()
	svc := newGenerationService(st, gen, runner)

	// Model returned 5 items but only 3 were requested.
	detail, err := svc.GenerateQuiz(context.Background(), p, QuizRequest{Topic: "biology", Size: 3})
	require.NoError(t, err)
	assert.Len(t, detail.Questions, 3)
	assert.Equal(t, store.SourceTopic, detail.SourceType)
}

func TestGenerateQuizAcceptsShortOutput(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)

	gen := &fakeGenerator{jsonResponse: quizJSON}
	runner := newTestRunner(t)
	defer runner.Close()
	svc := newGenerationService(st, gen, runner)

	// Model returned 5 items against a request for 10; the short quiz is
	// kept rather than rejected.
	detail, err := svc.GenerateQuiz(context.Background(), p, QuizRequest{Topic: "biology", Size: 10})
	require.NoError(t, err)
	assert.Len(t, detail.Questions, 5)
}

func TestGenerateQuizMalformedOutput(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)

	gen := &fakeGenerator{jsonResponse: `{"not": "a list"}`}
	runner := newTestRunner(t)
	defer runner.Close()
	svc := newGenerationService(st, gen, runner)

	_, err := svc.GenerateQuiz(context.Background(), p, QuizRequest{Topic: "biology", Size: 5})
	require.ErrorIs(t, err, ErrGenerationParse)

	// Nothing was persisted.
	quizzes, err := st.ListQuizzesByUser(p.ID)
	require.NoError(t, err)
	assert.Empty(t, quizzes)
}

func TestAskQuestionPersistsConversationPairs(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	ws := newTestWorkspace(t, st, p, "History")

	gen := &fakeGenerator{textResponse: "The answer."}
	runner := newTestRunner(t)
	svc := newGenerationService(st, gen, runner)

	answer, err := svc.AskQuestion(context.Background(), p, ws.PublicID, "First question?", "")
	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer)

	_, err = svc.AskQuestion(context.Background(), p, ws.PublicID, "Second question?", "")
	require.NoError(t, err)

	// Two calls produce two question/answer pairs once background
	// persistence drains.
	runner.Close()
	chat, err := st.GetWorkspaceChat(ws.PublicID)
	require.NoError(t, err)
	require.NotNil(t, chat)

	count, err := st.CountMessages(chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	messages, err := st.ListMessagesPage(chat.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	// Newest first: the final message is the model's answer.
	assert.False(t, messages[0].FromUser)
	assert.True(t, messages[1].FromUser)

	assert.Equal(t, []string{"thinking-model", "thinking-model"}, gen.models)
}

func TestGenerateFlashcardsFromTopic(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)

	gen := &fakeGenerator{jsonResponse: `[
		{"question": "Define inertia", "answer": "Resistance to change in motion", "explanation": "Newton's first law"},
		{"question": "Unit of force?", "answer": "Newton", "explanation": "SI unit"}
	]`}
	runner := newTestRunner(t)
	defer runner.Close()
	svc := newGenerationService(st, gen, runner)

	detail, err := svc.GenerateFlashcards(context.Background(), p, FlashcardRequest{Topic: "physics", Size: 2})
	require.NoError(t, err)
	require.Len(t, detail.Cards, 2)

	cards, err := st.ListFlashcards(detail.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestGenerateFlashcardsClampsOversizedOutput(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)

	// Model returned 4 cards but only 2 were requested.
	gen := &fakeGenerator{jsonResponse: `[
		{"question": "Define inertia", "answer": "Resistance to change in motion", "explanation": "Newton's first law"},
		{"question": "Unit of force?", "answer": "Newton", "explanation": "SI unit"},
		{"question": "Unit of energy?", "answer": "Joule", "explanation": "SI unit"},
		{"question": "Unit of power?", "answer": "Watt", "explanation": "SI unit"}
	]`}
	runner := newTestRunner(t)
	defer runner.Close()
	svc := newGenerationService(st, gen, runner)

	detail, err := svc.GenerateFlashcards(context.Background(), p, FlashcardRequest{Topic: "physics", Size: 2})
	require.NoError(t, err)
	require.Len(t, detail.Cards, 2)
	assert.Equal(t, "Define inertia", detail.Cards[0].Question)

	// Persisted cards are clamped too.
	cards, err := st.ListFlashcards(detail.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestSuggestQuestionsUsesStoredSummary(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)
	ws := newTestWorkspace(t, st, p, "Chem")

	file := &store.File{
		Kind:        store.FileKindPDF,
		Name:        "acids.pdf",
		WorkspaceID: &ws.PublicID,
		UserID:      p.ID,
		Path:        "https://cdn.example.com/acids.pdf",
		Size:        "2.00 KB",
	}
	require.NoError(t, st.CreateFile(file))
	require.NoError(t, st.UpdateFileSummaryByPath(file.Path, "Acids donate protons."))

	gen := &fakeGenerator{jsonResponse: `["Q1?", "Q2?", "Q3?"]`}
	runner := newTestRunner(t)
	defer runner.Close()
	svc := newGenerationService(st, gen, runner)

	questions, err := svc.SuggestQuestions(context.Background(), p, ws.PublicID, file.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?", "Q2?", "Q3?"}, questions)

	// The summary path sends a single text part, no file bytes.
	assert.Equal(t, []int{1}, gen.partCounts)
	assert.Equal(t, []string{"regular-model"}, gen.models)
}

func TestRandomFacts(t *testing.T) {
	st := newTestStore(t)
	gen := &fakeGenerator{jsonResponse: `["f1","f2","f3","f4","f5","f6","f7","f8"]`}
	runner := newTestRunner(t)
	defer runner.Close()
	svc := newGenerationService(st, gen, runner)

	facts, err := svc.RandomFacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, facts, 8)
}

func TestAskQuestionRequiresWorkspace(t *testing.T) {
	st := newTestStore(t)
	p := newTestPrincipal(t, st)

	gen := &fakeGenerator{textResponse: "answer"}
	runner := newTestRunner(t)
	defer runner.Close()
	svc := newGenerationService(st, gen, runner)

	_, err := svc.AskQuestion(context.Background(), p, "missing-workspace", "question?", "")
	require.ErrorIs(t, err, ErrNotFound)
}
