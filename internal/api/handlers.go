package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/store"
)

// APIHandler holds the services every endpoint dispatches to.
type APIHandler struct {
	store      *store.SQLiteStore
	users      *core.UserService
	workspaces *core.WorkspaceService
	files      *core.FileService
	videos     *core.VideoService
	chats      *core.ChatService
	generation *core.GenerationService
	quizzes    *core.QuizService
	flashcards *core.FlashcardService
	log        *zap.Logger
}

func NewAPIHandler(
	st *store.SQLiteStore,
	users *core.UserService,
	workspaces *core.WorkspaceService,
	files *core.FileService,
	videos *core.VideoService,
	chats *core.ChatService,
	generation *core.GenerationService,
	quizzes *core.QuizService,
	flashcards *core.FlashcardService,
	log *zap.Logger,
) *APIHandler {
	return &APIHandler{
		store:      st,
		users:      users,
		workspaces: workspaces,
		files:      files,
		videos:     videos,
		chats:      chats,
		generation: generation,
		quizzes:    quizzes,
		flashcards: flashcards,
		log:        log,
	}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *store.User `json:"user"`
	Token string      `json:"token"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, token, err := h.users.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, AuthResponse{User: user, Token: token})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, token, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, AuthResponse{User: user, Token: token})
}
