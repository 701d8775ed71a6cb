package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/store"
)

// WorkspaceService manages study workspaces: named containers for files,
// videos and the generated artifacts derived from them. Each workspace owns
// exactly one chat, created with it and deleted with it.
type WorkspaceService struct {
	store     *store.SQLiteStore
	namespace uuid.UUID
	log       *zap.Logger
}

func NewWorkspaceService(st *store.SQLiteStore, namespace uuid.UUID, log *zap.Logger) *WorkspaceService {
	return &WorkspaceService{store: st, namespace: namespace, log: log}
}

// WorkspaceDetail is a workspace with all its contents resolved.
type WorkspaceDetail struct {
	store.Workspace
	PDFs          []store.File         `json:"pdf_files"`
	Images        []store.File         `json:"image_files"`
	Videos        []store.Video        `json:"videos"`
	Quizzes       []store.Quiz         `json:"quizzes"`
	FlashcardSets []store.FlashcardSet `json:"flashcard_sets"`
	Chat          *store.Chat          `json:"chat,omitempty"`
}

// Create makes a workspace for the principal. An empty name gets a generated
// "Untitled-N" name; an explicit duplicate name is rejected. The external
// identifier is derived deterministically from the row id so it is stable
// and non-enumerable.
func (s *WorkspaceService) Create(p Principal, name string, description, tag *string) (*store.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		count, err := s.store.CountUntitledWorkspaces(p.ID)
		if err != nil {
			return nil, err
		}
		name = fmt.Sprintf("Untitled-%d", count+1)
	} else {
		existing, err := s.store.GetWorkspaceByName(name, p.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: workspace %q", ErrAlreadyExists, name)
		}
	}

	ws, err := s.store.CreateWorkspace(name, description, tag, p.ID)
	if err != nil {
		return nil, err
	}

	publicID := uuid.NewSHA1(s.namespace, []byte(strconv.FormatInt(ws.ID, 10))).String()
	if err := s.store.SetWorkspacePublicID(ws.ID, publicID); err != nil {
		return nil, err
	}
	ws.PublicID = publicID

	if _, err := s.store.CreateChat(p.ID, &publicID); err != nil {
		return nil, fmt.Errorf("failed to create workspace chat: %w", err)
	}

	s.log.Info("workspace created",
		zap.Int64("user_id", p.ID),
		zap.String("workspace_id", publicID),
		zap.String("name", name))
	return ws, nil
}

// Get resolves a workspace with its files, videos, quizzes, flashcard sets
// and chat.
func (s *WorkspaceService) Get(p Principal, publicID string) (*WorkspaceDetail, error) {
	ws, err := s.store.GetWorkspaceByPublicID(publicID, p.ID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, publicID)
	}

	detail := &WorkspaceDetail{Workspace: *ws}

	if detail.PDFs, err = s.store.ListWorkspaceFiles(publicID, store.FileKindPDF); err != nil {
		return nil, err
	}
	if detail.Images, err = s.store.ListWorkspaceFiles(publicID, store.FileKindImage); err != nil {
		return nil, err
	}
	if detail.Videos, err = s.store.ListVideos(publicID); err != nil {
		return nil, err
	}
	if detail.Quizzes, err = s.store.ListQuizzesByWorkspace(publicID); err != nil {
		return nil, err
	}
	if detail.FlashcardSets, err = s.store.ListFlashcardSetsByWorkspace(publicID); err != nil {
		return nil, err
	}
	if detail.Chat, err = s.store.GetWorkspaceChat(publicID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *WorkspaceService) List(p Principal) ([]store.Workspace, error) {
	return s.store.ListWorkspaces(p.ID)
}

// Delete removes a workspace and everything scoped to it.
func (s *WorkspaceService) Delete(p Principal, publicID string) error {
	ws, err := s.store.GetWorkspaceByPublicID(publicID, p.ID)
	if err != nil {
		return err
	}
	if ws == nil {
		return fmt.Errorf("%w: workspace %s", ErrNotFound, publicID)
	}
	if err := s.store.DeleteWorkspaceCascade(publicID, p.ID); err != nil {
		return err
	}
	s.log.Info("workspace deleted", zap.Int64("user_id", p.ID), zap.String("workspace_id", publicID))
	return nil
}

// SearchResults groups substring matches across the principal's content.
type SearchResults struct {
	Workspaces []store.Workspace `json:"workspaces"`
	Files      []store.File      `json:"files"`
}

// Search finds workspaces and files whose names or text match the query.
func (s *WorkspaceService) Search(p Principal, query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrValidation)
	}

	workspaces, err := s.store.SearchWorkspaces(p.ID, query)
	if err != nil {
		return nil, err
	}
	files, err := s.store.SearchFiles(p.ID, query)
	if err != nil {
		return nil, err
	}
	return &SearchResults{Workspaces: workspaces, Files: files}, nil
}
