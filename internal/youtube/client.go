package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/studypilot/studypilot/internal/core"
)

// Client fetches video metadata from the YouTube Data API.
type Client struct {
	svc *yt.Service
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func (c *Client) VideoMetadata(ctx context.Context, videoID string) (*core.VideoMetadata, error) {
	resp, err := c.svc.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: youtube lookup for %s: %v", core.ErrUpstreamFetch, videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: youtube video %s", core.ErrNotFound, videoID)
	}

	item := resp.Items[0]
	meta := &core.VideoMetadata{
		VideoID:      videoID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
		Duration:     item.ContentDetails.Duration,
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		meta.ThumbnailURL = item.Snippet.Thumbnails.High.Url
	}
	if item.Statistics != nil {
		meta.ViewCount = item.Statistics.ViewCount
		meta.LikeCount = item.Statistics.LikeCount
		meta.CommentCount = item.Statistics.CommentCount
	}
	return meta, nil
}
