package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studypilot/studypilot/internal/store"
	"github.com/studypilot/studypilot/internal/tasks"
)

const maxUploadBatch = 10

// BlobUploader stores raw upload bytes and returns a public URL. Delete
// takes a URL previously returned by Upload.
type BlobUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Upload is one incoming file from a multipart request.
type Upload struct {
	Name        string
	ContentType string
	Size        string
	Data        []byte
}

// FileService stores workspace documents and images. Uploads go to blob
// storage concurrently; after each upload a background task generates a
// study-guide summary of the content so later operations can work from the
// digest instead of refetching the bytes.
type FileService struct {
	store        *store.SQLiteStore
	uploader     BlobUploader
	gen          Generator
	runner       *tasks.Runner
	regularModel string
	log          *zap.Logger
}

func NewFileService(st *store.SQLiteStore, uploader BlobUploader, gen Generator, runner *tasks.Runner, regularModel string, log *zap.Logger) *FileService {
	return &FileService{
		store:        st,
		uploader:     uploader,
		gen:          gen,
		runner:       runner,
		regularModel: regularModel,
		log:          log,
	}
}

// AddWorkspaceFiles uploads up to maxUploadBatch files into a workspace and
// records them. Uploads run concurrently; if any one fails the whole batch
// fails. Summaries are generated in the background after the request
// returns.
func (s *FileService) AddWorkspaceFiles(ctx context.Context, p Principal, workspaceID string, kind store.FileKind, uploads []Upload) ([]store.File, error) {
	if err := validateUploads(kind, uploads); err != nil {
		return nil, err
	}
	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}
	return s.addFiles(ctx, p, kind, uploads, &workspaceID, nil)
}

// AddChatFiles attaches uploads to a standalone chat.
func (s *FileService) AddChatFiles(ctx context.Context, p Principal, chatID string, kind store.FileKind, uploads []Upload) ([]store.File, error) {
	if err := validateUploads(kind, uploads); err != nil {
		return nil, err
	}
	chat, err := s.store.GetChatByID(chatID, p.ID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("%w: chat %s", ErrNotFound, chatID)
	}
	return s.addFiles(ctx, p, kind, uploads, nil, &chatID)
}

func validateUploads(kind store.FileKind, uploads []Upload) error {
	if kind != store.FileKindPDF && kind != store.FileKindImage {
		return fmt.Errorf("%w: unknown file kind %q", ErrValidation, kind)
	}
	if len(uploads) == 0 {
		return fmt.Errorf("%w: no files provided", ErrValidation)
	}
	if len(uploads) > maxUploadBatch {
		return fmt.Errorf("%w: at most %d files per upload, got %d", ErrValidation, maxUploadBatch, len(uploads))
	}
	for _, u := range uploads {
		if u.Name == "" || len(u.Data) == 0 {
			return fmt.Errorf("%w: every file needs a name and content", ErrValidation)
		}
	}
	return nil
}

func (s *FileService) addFiles(ctx context.Context, p Principal, kind store.FileKind, uploads []Upload, workspaceID, chatID *string) ([]store.File, error) {
	scope := "chats"
	scopeID := ""
	if workspaceID != nil {
		scope = "workspaces"
		scopeID = *workspaceID
	} else {
		scopeID = *chatID
	}

	files := make([]store.File, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range uploads {
		g.Go(func() error {
			key := fmt.Sprintf("%s/%s/%s-%s", scope, scopeID, uuid.NewString(), uploadKeyName(u.Name))
			url, err := s.uploader.Upload(gctx, key, u.Data, u.ContentType)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", u.Name, err)
			}
			files[i] = store.File{
				Kind:        kind,
				Name:        u.Name,
				WorkspaceID: workspaceID,
				ChatID:      chatID,
				UserID:      p.ID,
				Path:        url,
				Size:        u.Size,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range files {
		if err := s.store.CreateFile(&files[i]); err != nil {
			return nil, err
		}
		s.submitSummary(files[i].Path, uploads[i].ContentType, uploads[i].Data)
	}

	s.log.Info("files added",
		zap.String("scope", scope),
		zap.String("scope_id", scopeID),
		zap.String("kind", string(kind)),
		zap.Int("count", len(files)))
	return files, nil
}

// submitSummary schedules the background content analysis for one upload.
// Failures are logged by the runner; the file simply keeps an empty summary.
func (s *FileService) submitSummary(path, contentType string, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	s.runner.Submit("file-summary", func(ctx context.Context) error {
		parts := BuildParts(StudyGuideInstruction, PromptSources{
			Files: []EncodedFile{{MIMEType: contentType, Data: encoded}},
		})
		summary, err := s.gen.GenerateText(ctx, s.regularModel, parts)
		if err != nil {
			return fmt.Errorf("summarizing %s: %w", path, err)
		}
		return s.store.UpdateFileSummaryByPath(path, summary)
	})
}

// DeleteWorkspaceFile removes a file row and, best effort, its blob.
func (s *FileService) DeleteWorkspaceFile(ctx context.Context, p Principal, workspaceID, path string) error {
	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return err
	}
	if ws == nil {
		return fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}

	file, err := s.store.GetFileByPath(path, workspaceID)
	if err != nil {
		return err
	}
	if file == nil {
		return fmt.Errorf("%w: file at %s", ErrNotFound, path)
	}

	if err := s.store.DeleteFileByPath(path, workspaceID); err != nil {
		return err
	}
	if err := s.uploader.Delete(ctx, path); err != nil {
		s.log.Warn("failed to delete blob, row removed", zap.String("path", path), zap.Error(err))
	}
	return nil
}

// DeleteVideo removes a video from a workspace.
func (s *FileService) DeleteVideo(p Principal, workspaceID, videoID string) error {
	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return err
	}
	if ws == nil {
		return fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}

	video, err := s.store.GetVideo(videoID, workspaceID)
	if err != nil {
		return err
	}
	if video == nil {
		return fmt.Errorf("%w: video %s", ErrNotFound, videoID)
	}
	return s.store.DeleteVideo(videoID, workspaceID)
}

// GetFile returns one file the principal owns.
func (s *FileService) GetFile(p Principal, fileID string) (*store.File, error) {
	file, err := s.store.GetFileByID(fileID)
	if err != nil {
		return nil, err
	}
	if file == nil || file.UserID != p.ID {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}
	return file, nil
}

// uploadKeyName strips directories from a client-supplied filename.
func uploadKeyName(name string) string {
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		return name[i+1:]
	}
	return name
}
