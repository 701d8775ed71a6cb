package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetQuizHandler is public: quiz links can be shared with participants who
// have no account.
func (h *APIHandler) GetQuizHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.quizzes.Get(chi.URLParam(r, "quizID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *APIHandler) ListUserQuizzesHandler(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.UserQuizzes(principalFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quizzes)
}

func (h *APIHandler) ListWorkspaceQuizzesHandler(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.WorkspaceQuizzes(principalFrom(r), chi.URLParam(r, "workspaceID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quizzes)
}

func (h *APIHandler) DeleteQuizHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.Delete(principalFrom(r), chi.URLParam(r, "quizID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AssessQuizRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Answers       []string `json:"answers"`
	TimeTaken     int      `json:"time_taken"`
	TimeRemaining string   `json:"time_remaining"`
}

// AssessQuizHandler is public: anyone with the quiz link can submit answers.
func (h *APIHandler) AssessQuizHandler(w http.ResponseWriter, r *http.Request) {
	var req AssessQuizRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	attempt, err := h.quizzes.Assess(chi.URLParam(r, "quizID"), req.Name, req.Email, req.Answers, req.TimeTaken, req.TimeRemaining)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, attempt)
}

func (h *APIHandler) QuizLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	board, err := h.quizzes.Leaderboard(chi.URLParam(r, "quizID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, board)
}

func (h *APIHandler) QuizAttemptHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.quizzes.AttemptDetail(chi.URLParam(r, "quizID"), chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *APIHandler) DeleteQuizAttemptHandler(w http.ResponseWriter, r *http.Request) {
	err := h.quizzes.DeleteAttempt(principalFrom(r), chi.URLParam(r, "quizID"), chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) GetFlashcardSetHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.flashcards.Get(principalFrom(r), chi.URLParam(r, "setID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *APIHandler) ListUserFlashcardSetsHandler(w http.ResponseWriter, r *http.Request) {
	sets, err := h.flashcards.UserSets(principalFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sets)
}

func (h *APIHandler) ListWorkspaceFlashcardSetsHandler(w http.ResponseWriter, r *http.Request) {
	sets, err := h.flashcards.WorkspaceSets(principalFrom(r), chi.URLParam(r, "workspaceID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sets)
}

func (h *APIHandler) DeleteFlashcardSetHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.flashcards.Delete(principalFrom(r), chi.URLParam(r, "setID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
