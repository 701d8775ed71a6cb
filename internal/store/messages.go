package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const messageColumns = "id, chat_id, text, from_user, is_file, file_path, file_size, flashcard_set_id, quiz_id, created_at"

func (s *SQLiteStore) CreateMessage(msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now()

	_, err := s.db.Exec(
		"INSERT INTO messages (id, chat_id, text, from_user, is_file, file_path, file_size, flashcard_set_id, quiz_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		msg.ID, msg.ChatID, msg.Text, msg.FromUser, msg.IsFile, msg.FilePath, msg.FileSize, msg.FlashcardSetID, msg.QuizID, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanMessages(rows *sql.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		var msg Message
		var filePath, fileSize, flashcardSetID, quizID sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Text, &msg.FromUser, &msg.IsFile, &filePath, &fileSize, &flashcardSetID, &quizID, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if filePath.Valid {
			msg.FilePath = &filePath.String
		}
		if fileSize.Valid {
			msg.FileSize = &fileSize.String
		}
		if flashcardSetID.Valid {
			msg.FlashcardSetID = &flashcardSetID.String
		}
		if quizID.Valid {
			msg.QuizID = &quizID.String
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListMessagesPage returns one page of messages, newest first. Callers reverse
// the slice before delivery so clients see chronological order.
func (s *SQLiteStore) ListMessagesPage(chatID string, limit, offset int) ([]Message, error) {
	rows, err := s.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE chat_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		chatID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()
	return s.scanMessages(rows)
}

func (s *SQLiteStore) CountMessages(chatID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
