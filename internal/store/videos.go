package store

import (
	"database/sql"
	"fmt"
	"time"
)

const videoColumns = "id, video_id, title, description, channel_title, thumbnail_url, view_count, like_count, comment_count, duration, workspace_id, created_at"

func (s *SQLiteStore) CreateVideo(v *Video) error {
	v.CreatedAt = time.Now()
	res, err := s.db.Exec(
		"INSERT INTO videos (video_id, title, description, channel_title, thumbnail_url, view_count, like_count, comment_count, duration, workspace_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		v.VideoID, v.Title, v.Description, v.ChannelTitle, v.ThumbnailURL, v.ViewCount, v.LikeCount, v.CommentCount, v.Duration, v.WorkspaceID, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	v.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) GetVideo(videoID, workspaceID string) (*Video, error) {
	var v Video
	err := s.db.QueryRow("SELECT "+videoColumns+" FROM videos WHERE video_id = ? AND workspace_id = ?", videoID, workspaceID).
		Scan(&v.ID, &v.VideoID, &v.Title, &v.Description, &v.ChannelTitle, &v.ThumbnailURL, &v.ViewCount, &v.LikeCount, &v.CommentCount, &v.Duration, &v.WorkspaceID, &v.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query video: %w", err)
	}
	return &v, nil
}

func (s *SQLiteStore) ListVideos(workspaceID string) ([]Video, error) {
	rows, err := s.db.Query("SELECT "+videoColumns+" FROM videos WHERE workspace_id = ? ORDER BY created_at ASC", workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.VideoID, &v.Title, &v.Description, &v.ChannelTitle, &v.ThumbnailURL, &v.ViewCount, &v.LikeCount, &v.CommentCount, &v.Duration, &v.WorkspaceID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *SQLiteStore) DeleteVideo(videoID, workspaceID string) error {
	_, err := s.db.Exec("DELETE FROM videos WHERE video_id = ? AND workspace_id = ?", videoID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}
