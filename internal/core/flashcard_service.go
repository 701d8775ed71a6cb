package core

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/store"
)

// FlashcardService serves stored flashcard sets.
type FlashcardService struct {
	store *store.SQLiteStore
	log   *zap.Logger
}

func NewFlashcardService(st *store.SQLiteStore, log *zap.Logger) *FlashcardService {
	return &FlashcardService{store: st, log: log}
}

func (s *FlashcardService) Get(p Principal, setID string) (*FlashcardSetDetail, error) {
	set, err := s.store.GetFlashcardSet(setID)
	if err != nil {
		return nil, err
	}
	if set == nil || set.UserID != p.ID {
		return nil, fmt.Errorf("%w: flashcard set %s", ErrNotFound, setID)
	}
	cards, err := s.store.ListFlashcards(setID)
	if err != nil {
		return nil, err
	}
	return &FlashcardSetDetail{FlashcardSet: *set, Cards: cards}, nil
}

func (s *FlashcardService) WorkspaceSets(p Principal, workspaceID string) ([]store.FlashcardSet, error) {
	ws, err := s.store.GetWorkspaceByPublicID(workspaceID, p.ID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: workspace %s", ErrNotFound, workspaceID)
	}
	return s.store.ListFlashcardSetsByWorkspace(workspaceID)
}

func (s *FlashcardService) UserSets(p Principal) ([]store.FlashcardSet, error) {
	return s.store.ListFlashcardSetsByUser(p.ID)
}

func (s *FlashcardService) Delete(p Principal, setID string) error {
	set, err := s.store.GetFlashcardSet(setID)
	if err != nil {
		return err
	}
	if set == nil || set.UserID != p.ID {
		return fmt.Errorf("%w: flashcard set %s", ErrNotFound, setID)
	}
	if err := s.store.DeleteFlashcardSetCascade(setID, p.ID); err != nil {
		return err
	}
	s.log.Info("flashcard set deleted", zap.String("set_id", setID))
	return nil
}
