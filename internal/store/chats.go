package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateChat(userID int64, workspaceID *string) (*Chat, error) {
	chatID := uuid.NewString()
	now := time.Now()
	_, err := s.db.Exec(
		"INSERT INTO chats (id, user_id, workspace_id, title, created_at) VALUES (?, ?, ?, NULL, ?)",
		chatID, userID, workspaceID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat: %w", err)
	}
	return &Chat{ID: chatID, UserID: userID, WorkspaceID: workspaceID, CreatedAt: now}, nil
}

func (s *SQLiteStore) scanChat(row *sql.Row) (*Chat, error) {
	var chat Chat
	var workspaceID, title sql.NullString
	err := row.Scan(&chat.ID, &chat.UserID, &workspaceID, &title, &chat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if workspaceID.Valid {
		chat.WorkspaceID = &workspaceID.String
	}
	if title.Valid {
		chat.Title = &title.String
	}
	return &chat, nil
}

func (s *SQLiteStore) GetChatByID(chatID string, userID int64) (*Chat, error) {
	return s.scanChat(s.db.QueryRow(
		"SELECT id, user_id, workspace_id, title, created_at FROM chats WHERE id = ? AND user_id = ?",
		chatID, userID,
	))
}

// GetWorkspaceChat returns the conversation bound to a workspace, keyed by the
// workspace's public id.
func (s *SQLiteStore) GetWorkspaceChat(workspaceID string) (*Chat, error) {
	return s.scanChat(s.db.QueryRow(
		"SELECT id, user_id, workspace_id, title, created_at FROM chats WHERE workspace_id = ?",
		workspaceID,
	))
}

func (s *SQLiteStore) ListStandaloneChats(userID int64) ([]Chat, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, workspace_id, title, created_at FROM chats WHERE user_id = ? AND workspace_id IS NULL ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		var workspaceID, title sql.NullString
		if err := rows.Scan(&chat.ID, &chat.UserID, &workspaceID, &title, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		if title.Valid {
			chat.Title = &title.String
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// DeleteChatCascade removes a chat and its messages and attachments in one
// transaction. Callers are responsible for refusing workspace-bound chats.
func (s *SQLiteStore) DeleteChatCascade(chatID string, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin chat delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("failed to delete chat files: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM chats WHERE id = ? AND user_id = ?", chatID, userID); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chat delete: %w", err)
	}
	return nil
}
