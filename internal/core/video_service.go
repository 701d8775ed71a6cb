package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/store"
)

// VideoMetadata is what the metadata provider returns for one video.
type VideoMetadata struct {
	VideoID      string
	Title        string
	Description  string
	ChannelTitle string
	ThumbnailURL string
	ViewCount    uint64
	LikeCount    uint64
	CommentCount uint64
	Duration     string
}

// VideoMetadataFetcher resolves a video id to its public metadata.
type VideoMetadataFetcher interface {
	VideoMetadata(ctx context.Context, videoID string) (*VideoMetadata, error)
}

// VideoService attaches YouTube videos to workspaces. Only the metadata is
// stored; video descriptions later feed generation prompts as background
// context.
type VideoService struct {
	store   *store.SQLiteStore
	fetcher VideoMetadataFetcher
	log     *zap.Logger
}

func NewVideoService(st *store.SQLiteStore, fetcher VideoMetadataFetcher, log *zap.Logger) *VideoService {
	return &VideoService{store: st, fetcher: fetcher, log: log}
}

// Add fetches metadata for a video and stores it in the workspace. Adding
// the same video twice returns the existing record.
func (s *VideoService) Add(ctx context.Context, p Principal, workspaceID, videoID string) (*store.Video, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id is required", ErrValidation)
	}
	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}

	existing, err := s.store.GetVideo(videoID, workspaceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	meta, err := s.fetcher.VideoMetadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	video := &store.Video{
		VideoID:      meta.VideoID,
		Title:        meta.Title,
		Description:  meta.Description,
		ChannelTitle: meta.ChannelTitle,
		ThumbnailURL: meta.ThumbnailURL,
		ViewCount:    meta.ViewCount,
		LikeCount:    meta.LikeCount,
		CommentCount: meta.CommentCount,
		Duration:     meta.Duration,
		WorkspaceID:  workspaceID,
	}
	if err := s.store.CreateVideo(video); err != nil {
		return nil, err
	}

	s.log.Info("video added",
		zap.String("workspace_id", workspaceID),
		zap.String("video_id", videoID))
	return video, nil
}

func (s *VideoService) List(p Principal, workspaceID string) ([]store.Video, error) {
	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}
	return s.store.ListVideos(workspaceID)
}
