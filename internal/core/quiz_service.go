package core

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/store"
)

// QuizService serves stored quizzes and scores attempts against them.
// Taking a quiz needs no account, so read and assess paths carry no
// principal; mutation paths do.
type QuizService struct {
	store *store.SQLiteStore
	log   *zap.Logger
}

func NewQuizService(st *store.SQLiteStore, log *zap.Logger) *QuizService {
	return &QuizService{store: st, log: log}
}

// QuizDetail is a quiz with its questions.
type QuizDetail struct {
	store.Quiz
	Questions []store.Question `json:"questions"`
}

func (s *QuizService) Get(quizID string) (*QuizDetail, error) {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	questions, err := s.store.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}
	return &QuizDetail{Quiz: *quiz, Questions: questions}, nil
}

func (s *QuizService) WorkspaceQuizzes(p Principal, workspaceID string) ([]store.Quiz, error) {
	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}
	return s.store.ListQuizzesByWorkspace(workspaceID)
}

func (s *QuizService) UserQuizzes(p Principal) ([]store.Quiz, error) {
	return s.store.ListQuizzesByUser(p.ID)
}

func (s *QuizService) Delete(p Principal, quizID string) error {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return err
	}
	if quiz == nil || quiz.UserID != p.ID {
		return fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}
	return s.store.DeleteQuizCascade(quizID, p.ID)
}

// Assess scores a submission against a quiz. Answers are compared exactly,
// position by position, and the submission must answer every question. One
// attempt per email; the recorded attempt is immutable.
func (s *QuizService) Assess(quizID, name, email string, answers []string, timeTaken int, timeRemaining string) (*store.QuizAttempt, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}

	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}

	existing, err := s.store.GetAttemptByEmail(quizID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s already attempted this quiz", ErrAlreadyExists, email)
	}

	questions, err := s.store.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: expected %d answers, got %d", ErrValidation, len(questions), len(answers))
	}

	score := 0
	for i, q := range questions {
		if answers[i] == q.CorrectAnswer {
			score++
		}
	}

	percentage := 0.0
	if len(questions) > 0 {
		percentage = math.Round(float64(score)/float64(len(questions))*100*100) / 100
	}

	attempt := &store.QuizAttempt{
		QuizID:        quizID,
		Name:          name,
		Email:         email,
		Score:         score,
		Total:         len(questions),
		Percentage:    percentage,
		TimeTaken:     timeTaken,
		TimeRemaining: timeRemaining,
		Answers:       answers,
	}
	if err := s.store.CreateAttempt(attempt); err != nil {
		return nil, err
	}

	s.log.Info("quiz assessed",
		zap.String("quiz_id", quizID),
		zap.Int("score", score),
		zap.Int("total", len(questions)))
	return attempt, nil
}

// Leaderboard aggregates all attempts for a quiz, best score first.
type Leaderboard struct {
	Entries           []store.QuizAttempt `json:"entries"`
	Attempts          int                 `json:"total_attempts"`
	AverageScore      float64             `json:"average_score"`
	AveragePercentage float64             `json:"average_percentage"`
}

func (s *QuizService) Leaderboard(quizID string) (*Leaderboard, error) {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}

	entries, err := s.store.ListAttemptsByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	board := &Leaderboard{Entries: entries, Attempts: len(entries)}
	if len(entries) > 0 {
		var scoreSum, pctSum float64
		for _, e := range entries {
			scoreSum += float64(e.Score)
			pctSum += e.Percentage
		}
		board.AverageScore = math.Round(scoreSum/float64(len(entries))*100) / 100
		board.AveragePercentage = math.Round(pctSum/float64(len(entries))*100) / 100
	}
	return board, nil
}

// QuestionResult pairs one question with the answer a participant gave.
type QuestionResult struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	GivenAnswer   string `json:"given_answer"`
	Correct       bool   `json:"correct"`
}

// AttemptDetail is a recorded attempt with its per-question breakdown.
type AttemptDetail struct {
	store.QuizAttempt
	Breakdown []QuestionResult `json:"breakdown"`
}

// AttemptDetail returns one attempt with each answer judged against its
// question.
func (s *QuizService) AttemptDetail(quizID, entryID string) (*AttemptDetail, error) {
	attempt, err := s.store.GetAttemptByID(entryID, quizID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, fmt.Errorf("%w: attempt %s", ErrNotFound, entryID)
	}

	questions, err := s.store.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	detail := &AttemptDetail{QuizAttempt: *attempt}
	for i, q := range questions {
		given := ""
		if i < len(attempt.Answers) {
			given = attempt.Answers[i]
		}
		detail.Breakdown = append(detail.Breakdown, QuestionResult{
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			GivenAnswer:   given,
			Correct:       given == q.CorrectAnswer,
		})
	}
	return detail, nil
}

func (s *QuizService) DeleteAttempt(p Principal, quizID, entryID string) error {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return err
	}
	if quiz == nil || quiz.UserID != p.ID {
		return fmt.Errorf("%w: quiz %s", ErrNotFound, quizID)
	}

	attempt, err := s.store.GetAttemptByID(entryID, quizID)
	if err != nil {
		return err
	}
	if attempt == nil {
		return fmt.Errorf("%w: attempt %s", ErrNotFound, entryID)
	}
	return s.store.DeleteAttempt(entryID, quizID)
}
