package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *SQLiteStore) CreateWorkspace(name string, description, tag *string, userID int64) (*Workspace, error) {
	now := time.Now()
	res, err := s.db.Exec(
		"INSERT INTO workspaces (name, description, tag, user_id, created_at) VALUES (?, ?, ?, ?, ?)",
		name, description, tag, userID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert workspace: %w", err)
	}
	id, _ := res.LastInsertId()
	return &Workspace{ID: id, Name: name, Description: description, Tag: tag, UserID: userID, CreatedAt: now}, nil
}

// SetWorkspacePublicID stamps the derived external identifier onto a freshly
// created workspace. It is set exactly once and never changes afterwards.
func (s *SQLiteStore) SetWorkspacePublicID(id int64, publicID string) error {
	_, err := s.db.Exec("UPDATE workspaces SET public_id = ? WHERE id = ? AND public_id = ''", publicID, id)
	if err != nil {
		return fmt.Errorf("failed to set workspace public id: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CountUntitledWorkspaces(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM workspaces WHERE name LIKE 'Untitled-%' AND user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count untitled workspaces: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) GetWorkspaceByName(name string, userID int64) (*Workspace, error) {
	return s.scanWorkspace(s.db.QueryRow(
		"SELECT id, public_id, name, description, tag, user_id, created_at FROM workspaces WHERE name = ? AND user_id = ?",
		name, userID,
	))
}

func (s *SQLiteStore) GetWorkspaceByPublicID(publicID string, userID int64) (*Workspace, error) {
	return s.scanWorkspace(s.db.QueryRow(
		"SELECT id, public_id, name, description, tag, user_id, created_at FROM workspaces WHERE public_id = ? AND user_id = ?",
		publicID, userID,
	))
}

func (s *SQLiteStore) scanWorkspace(row *sql.Row) (*Workspace, error) {
	var ws Workspace
	var description, tag sql.NullString
	err := row.Scan(&ws.ID, &ws.PublicID, &ws.Name, &description, &tag, &ws.UserID, &ws.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query workspace: %w", err)
	}
	if description.Valid {
		ws.Description = &description.String
	}
	if tag.Valid {
		ws.Tag = &tag.String
	}
	return &ws, nil
}

func (s *SQLiteStore) ListWorkspaces(userID int64) ([]Workspace, error) {
	rows, err := s.db.Query(
		"SELECT id, public_id, name, description, tag, user_id, created_at FROM workspaces WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []Workspace
	for rows.Next() {
		var ws Workspace
		var description, tag sql.NullString
		if err := rows.Scan(&ws.ID, &ws.PublicID, &ws.Name, &description, &tag, &ws.UserID, &ws.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace row: %w", err)
		}
		if description.Valid {
			ws.Description = &description.String
		}
		if tag.Valid {
			ws.Tag = &tag.String
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

// DeleteWorkspaceCascade removes a workspace together with its files, videos,
// bound chat and that chat's messages, in one transaction.
func (s *SQLiteStore) DeleteWorkspaceCascade(publicID string, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin workspace delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM files WHERE workspace_id = ?", publicID); err != nil {
		return fmt.Errorf("failed to delete workspace files: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM videos WHERE workspace_id = ?", publicID); err != nil {
		return fmt.Errorf("failed to delete workspace videos: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id IN (SELECT id FROM chats WHERE workspace_id = ?)", publicID); err != nil {
		return fmt.Errorf("failed to delete workspace chat messages: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM chats WHERE workspace_id = ?", publicID); err != nil {
		return fmt.Errorf("failed to delete workspace chat: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM workspaces WHERE public_id = ? AND user_id = ?", publicID, userID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit workspace delete: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SearchWorkspaces(userID int64, query string) ([]Workspace, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(
		"SELECT id, public_id, name, description, tag, user_id, created_at FROM workspaces WHERE user_id = ? AND (name LIKE ? OR description LIKE ?)",
		userID, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []Workspace
	for rows.Next() {
		var ws Workspace
		var description, tag sql.NullString
		if err := rows.Scan(&ws.ID, &ws.PublicID, &ws.Name, &description, &tag, &ws.UserID, &ws.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace row: %w", err)
		}
		if description.Valid {
			ws.Description = &description.String
		}
		if tag.Valid {
			ws.Tag = &tag.String
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}
