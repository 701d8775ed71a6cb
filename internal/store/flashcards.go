package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateFlashcardSetWithCards inserts the set and all its cards in one
// transaction. The returned bool reports whether the parent insert succeeded,
// mirroring CreateQuizWithQuestions.
func (s *SQLiteStore) CreateFlashcardSetWithCards(set *FlashcardSet, cards []Flashcard) (bool, error) {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	set.CreatedAt = time.Now()

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin flashcard set insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO flashcard_sets (id, user_id, workspace_id, created_at) VALUES (?, ?, ?, ?)",
		set.ID, set.UserID, set.WorkspaceID, set.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert flashcard set: %w", err)
	}

	for i := range cards {
		cards[i].SetID = set.ID
		if cards[i].ID == "" {
			cards[i].ID = uuid.NewString()
		}
		_, err := tx.Exec(
			"INSERT INTO flashcards (id, set_id, question, answer, explanation) VALUES (?, ?, ?, ?, ?)",
			cards[i].ID, set.ID, cards[i].Question, cards[i].Answer, cards[i].Explanation,
		)
		if err != nil {
			return true, fmt.Errorf("failed to insert flashcard: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return true, fmt.Errorf("failed to commit flashcard set insert: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) GetFlashcardSet(setID string) (*FlashcardSet, error) {
	var set FlashcardSet
	var workspaceID sql.NullString
	err := s.db.QueryRow("SELECT id, user_id, workspace_id, created_at FROM flashcard_sets WHERE id = ?", setID).
		Scan(&set.ID, &set.UserID, &workspaceID, &set.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get flashcard set: %w", err)
	}
	if workspaceID.Valid {
		set.WorkspaceID = &workspaceID.String
	}
	return &set, nil
}

func (s *SQLiteStore) ListFlashcardSetsByWorkspace(workspaceID string) ([]FlashcardSet, error) {
	return s.queryFlashcardSets("SELECT id, user_id, workspace_id, created_at FROM flashcard_sets WHERE workspace_id = ? ORDER BY created_at DESC", workspaceID)
}

func (s *SQLiteStore) ListFlashcardSetsByUser(userID int64) ([]FlashcardSet, error) {
	return s.queryFlashcardSets("SELECT id, user_id, workspace_id, created_at FROM flashcard_sets WHERE user_id = ? ORDER BY created_at DESC", userID)
}

func (s *SQLiteStore) queryFlashcardSets(query string, args ...any) ([]FlashcardSet, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcard sets: %w", err)
	}
	defer rows.Close()

	var sets []FlashcardSet
	for rows.Next() {
		var set FlashcardSet
		var workspaceID sql.NullString
		if err := rows.Scan(&set.ID, &set.UserID, &workspaceID, &set.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flashcard set row: %w", err)
		}
		if workspaceID.Valid {
			set.WorkspaceID = &workspaceID.String
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func (s *SQLiteStore) ListFlashcards(setID string) ([]Flashcard, error) {
	rows, err := s.db.Query("SELECT id, set_id, question, answer, explanation FROM flashcards WHERE set_id = ? ORDER BY rowid ASC", setID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}
	defer rows.Close()

	var cards []Flashcard
	for rows.Next() {
		var c Flashcard
		if err := rows.Scan(&c.ID, &c.SetID, &c.Question, &c.Answer, &c.Explanation); err != nil {
			return nil, fmt.Errorf("failed to scan flashcard row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// DeleteFlashcardSetCascade removes a set together with its cards.
func (s *SQLiteStore) DeleteFlashcardSetCascade(setID string, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin flashcard set delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM flashcards WHERE set_id = ?", setID); err != nil {
		return fmt.Errorf("failed to delete flashcards: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM flashcard_sets WHERE id = ? AND user_id = ?", setID, userID); err != nil {
		return fmt.Errorf("failed to delete flashcard set: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit flashcard set delete: %w", err)
	}
	return nil
}
