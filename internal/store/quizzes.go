package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateQuizWithQuestions inserts the quiz and all its questions in one
// transaction. The returned bool reports whether the parent insert itself
// succeeded, so callers can distinguish a failed parent from children failing
// after the parent was written.
func (s *SQLiteStore) CreateQuizWithQuestions(quiz *Quiz, questions []Question) (bool, error) {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	quiz.CreatedAt = time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin quiz insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO quizzes (id, name, creator, user_id, workspace_id, file_id, source, source_type, duration, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		quiz.ID, quiz.Name, quiz.Creator, quiz.UserID, quiz.WorkspaceID, quiz.FileID, quiz.Source, quiz.SourceType, quiz.Duration, quiz.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert quiz: %w", err)
	}

	for i := range questions {
		questions[i].QuizID = quiz.ID
		options, err := json.Marshal(questions[i].Options)
		if err != nil {
			return true, fmt.Errorf("failed to marshal question options: %w", err)
		}
		res, err := tx.Exec(
			"INSERT INTO questions (quiz_id, question, options, correct_answer, explanation) VALUES (?, ?, ?, ?, ?)",
			quiz.ID, questions[i].Question, string(options), questions[i].CorrectAnswer, questions[i].Explanation,
		)
		if err != nil {
			return true, fmt.Errorf("failed to insert question: %w", err)
		}
		questions[i].ID, _ = res.LastInsertId()
	}

	if err := tx.Commit(); err != nil {
		return true, fmt.Errorf("failed to commit quiz insert: %w", err)
	}
	return true, nil
}

const quizColumns = "id, name, creator, user_id, workspace_id, file_id, source, source_type, duration, created_at"

func (s *SQLiteStore) scanQuiz(scan func(dest ...any) error) (*Quiz, error) {
	var quiz Quiz
	var workspaceID, fileID sql.NullString
	err := scan(&quiz.ID, &quiz.Name, &quiz.Creator, &quiz.UserID, &workspaceID, &fileID, &quiz.Source, &quiz.SourceType, &quiz.Duration, &quiz.CreatedAt)
	if err != nil {
		return nil, err
	}
	if workspaceID.Valid {
		quiz.WorkspaceID = &workspaceID.String
	}
	if fileID.Valid {
		quiz.FileID = &fileID.String
	}
	return &quiz, nil
}

func (s *SQLiteStore) GetQuizByID(quizID string) (*Quiz, error) {
	quiz, err := s.scanQuiz(s.db.QueryRow("SELECT "+quizColumns+" FROM quizzes WHERE id = ?", quizID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *SQLiteStore) ListQuizzesByWorkspace(workspaceID string) ([]Quiz, error) {
	return s.queryQuizzes("SELECT "+quizColumns+" FROM quizzes WHERE workspace_id = ? ORDER BY created_at DESC", workspaceID)
}

func (s *SQLiteStore) ListQuizzesByUser(userID int64) ([]Quiz, error) {
	return s.queryQuizzes("SELECT "+quizColumns+" FROM quizzes WHERE user_id = ? ORDER BY created_at DESC", userID)
}

func (s *SQLiteStore) queryQuizzes(query string, args ...any) ([]Quiz, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []Quiz
	for rows.Next() {
		quiz, err := s.scanQuiz(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz row: %w", err)
		}
		quizzes = append(quizzes, *quiz)
	}
	return quizzes, rows.Err()
}

func (s *SQLiteStore) ListQuestions(quizID string) ([]Question, error) {
	rows, err := s.db.Query("SELECT id, quiz_id, question, options, correct_answer, explanation FROM questions WHERE quiz_id = ? ORDER BY id ASC", quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		var options string
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Question, &options, &q.CorrectAnswer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal question options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// DeleteQuizCascade removes a quiz with its questions and attempts.
func (s *SQLiteStore) DeleteQuizCascade(quizID string, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin quiz delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM questions WHERE quiz_id = ?", quizID); err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM quiz_attempts WHERE quiz_id = ?", quizID); err != nil {
		return fmt.Errorf("failed to delete quiz attempts: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM quizzes WHERE id = ? AND user_id = ?", quizID, userID); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz delete: %w", err)
	}
	return nil
}
