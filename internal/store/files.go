package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const fileColumns = "id, kind, name, workspace_id, chat_id, user_id, path, summary, size, created_at"

func (s *SQLiteStore) CreateFile(f *File) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now()

	_, err := s.db.Exec(
		"INSERT INTO files (id, kind, name, workspace_id, chat_id, user_id, path, summary, size, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		f.ID, f.Kind, f.Name, f.WorkspaceID, f.ChatID, f.UserID, f.Path, f.Summary, f.Size, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanFile(scan func(dest ...any) error) (*File, error) {
	var f File
	var workspaceID, chatID sql.NullString
	err := scan(&f.ID, &f.Kind, &f.Name, &workspaceID, &chatID, &f.UserID, &f.Path, &f.Summary, &f.Size, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	if workspaceID.Valid {
		f.WorkspaceID = &workspaceID.String
	}
	if chatID.Valid {
		f.ChatID = &chatID.String
	}
	return &f, nil
}

func (s *SQLiteStore) queryFiles(query string, args ...any) ([]File, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		f, err := s.scanFile(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

// ListWorkspaceFiles returns the persistent corpus of a workspace: files
// scoped to the workspace and not attached to any chat.
func (s *SQLiteStore) ListWorkspaceFiles(workspaceID string, kind FileKind) ([]File, error) {
	return s.queryFiles(
		"SELECT "+fileColumns+" FROM files WHERE workspace_id = ? AND chat_id IS NULL AND kind = ? ORDER BY created_at ASC",
		workspaceID, kind,
	)
}

// ListChatFiles returns per-conversation attachments for a standalone chat.
func (s *SQLiteStore) ListChatFiles(chatID string, kind FileKind) ([]File, error) {
	return s.queryFiles(
		"SELECT "+fileColumns+" FROM files WHERE chat_id = ? AND workspace_id IS NULL AND kind = ? ORDER BY created_at ASC",
		chatID, kind,
	)
}

func (s *SQLiteStore) GetFileByID(id string) (*File, error) {
	f, err := s.scanFile(s.db.QueryRow("SELECT "+fileColumns+" FROM files WHERE id = ?", id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

func (s *SQLiteStore) GetFileByPath(path, workspaceID string) (*File, error) {
	f, err := s.scanFile(s.db.QueryRow("SELECT "+fileColumns+" FROM files WHERE path = ? AND workspace_id = ?", path, workspaceID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get file by path: %w", err)
	}
	return f, nil
}

// UpdateFileSummaryByPath stores the derived study-guide text produced by the
// background content analysis for the file at the given storage path.
func (s *SQLiteStore) UpdateFileSummaryByPath(path, summary string) error {
	res, err := s.db.Exec("UPDATE files SET summary = ? WHERE path = ?", summary, path)
	if err != nil {
		return fmt.Errorf("failed to update file summary: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("no file found at path %q, summary not updated", path)
	}
	return nil
}

func (s *SQLiteStore) DeleteFileByPath(path, workspaceID string) error {
	_, err := s.db.Exec("DELETE FROM files WHERE path = ? AND workspace_id = ?", path, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SearchFiles(userID int64, query string) ([]File, error) {
	pattern := "%" + query + "%"
	return s.queryFiles(
		"SELECT "+fileColumns+" FROM files WHERE user_id = ? AND (name LIKE ? OR summary LIKE ?)",
		userID, pattern, pattern,
	)
}
