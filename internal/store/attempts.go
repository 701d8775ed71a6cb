package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const attemptColumns = "id, quiz_id, name, email, score, total, percentage, time_taken, time_remaining, answers, created_at"

func (s *SQLiteStore) CreateAttempt(a *QuizAttempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()

	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt answers: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO quiz_attempts (id, quiz_id, name, email, score, total, percentage, time_taken, time_remaining, answers, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.QuizID, a.Name, a.Email, a.Score, a.Total, a.Percentage, a.TimeTaken, a.TimeRemaining, string(answers), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz attempt: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanAttempt(scan func(dest ...any) error) (*QuizAttempt, error) {
	var a QuizAttempt
	var answers string
	err := scan(&a.ID, &a.QuizID, &a.Name, &a.Email, &a.Score, &a.Total, &a.Percentage, &a.TimeTaken, &a.TimeRemaining, &answers, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attempt answers: %w", err)
	}
	return &a, nil
}

// ListAttemptsByQuiz returns all scoring runs for a quiz, best score first.
func (s *SQLiteStore) ListAttemptsByQuiz(quizID string) ([]QuizAttempt, error) {
	rows, err := s.db.Query("SELECT "+attemptColumns+" FROM quiz_attempts WHERE quiz_id = ? ORDER BY score DESC", quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []QuizAttempt
	for rows.Next() {
		a, err := s.scanAttempt(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt row: %w", err)
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

func (s *SQLiteStore) GetAttemptByEmail(quizID, email string) (*QuizAttempt, error) {
	a, err := s.scanAttempt(s.db.QueryRow("SELECT "+attemptColumns+" FROM quiz_attempts WHERE quiz_id = ? AND email = ?", quizID, email).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get quiz attempt: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) GetAttemptByID(entryID, quizID string) (*QuizAttempt, error) {
	a, err := s.scanAttempt(s.db.QueryRow("SELECT "+attemptColumns+" FROM quiz_attempts WHERE id = ? AND quiz_id = ?", entryID, quizID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz attempt: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) DeleteAttempt(entryID, quizID string) error {
	_, err := s.db.Exec("DELETE FROM quiz_attempts WHERE id = ? AND quiz_id = ?", entryID, quizID)
	if err != nil {
		return fmt.Errorf("failed to delete quiz attempt: %w", err)
	}
	return nil
}
