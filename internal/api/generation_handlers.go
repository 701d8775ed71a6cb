package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/studypilot/studypilot/internal/core"
)

type AskQuestionRequest struct {
	Question string `json:"question"`
	FileURL  string `json:"file_url,omitempty"`
}

func (h *APIHandler) AskQuestionHandler(w http.ResponseWriter, r *http.Request) {
	var req AskQuestionRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	answer, err := h.generation.AskQuestion(r.Context(), principalFrom(r), chi.URLParam(r, "workspaceID"), req.Question, req.FileURL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

type GenerateQuizRequest struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	FileURL     string `json:"file_url,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Name        string `json:"name,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Size        int    `json:"size"`
	Duration    int    `json:"duration"`
}

func (h *APIHandler) GenerateQuizHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateQuizRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	detail, err := h.generation.GenerateQuiz(r.Context(), principalFrom(r), core.QuizRequest{
		WorkspaceID: req.WorkspaceID,
		FileURL:     req.FileURL,
		Topic:       req.Topic,
		Name:        req.Name,
		Difficulty:  req.Difficulty,
		Size:        req.Size,
		Duration:    req.Duration,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, detail)
}

type GenerateFlashcardsRequest struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Context     string `json:"context,omitempty"`
	Size        int    `json:"size"`
}

func (h *APIHandler) GenerateFlashcardsHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateFlashcardsRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	detail, err := h.generation.GenerateFlashcards(r.Context(), principalFrom(r), core.FlashcardRequest{
		WorkspaceID: req.WorkspaceID,
		Topic:       req.Topic,
		Context:     req.Context,
		Size:        req.Size,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, detail)
}

// GenerateSummaryHandler takes multipart file uploads and returns either a
// summary or, with new_material=true, a rewritten standalone lesson.
func (h *APIHandler) GenerateSummaryHandler(w http.ResponseWriter, r *http.Request) {
	uploads, err := readUploads(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	newMaterial, _ := strconv.ParseBool(r.FormValue("new_material"))

	text, err := h.generation.GenerateSummary(r.Context(), principalFrom(r), uploads, newMaterial)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *APIHandler) GenerateMaterialHandler(w http.ResponseWriter, r *http.Request) {
	uploads, err := readUploads(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pages, _ := strconv.Atoi(r.FormValue("pages"))

	result, err := h.generation.GenerateMaterial(r.Context(), principalFrom(r), core.MaterialRequest{
		Topic:       r.FormValue("topic"),
		Pages:       pages,
		UserMessage: r.FormValue("message"),
		Uploads:     uploads,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) SuggestQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	questions, err := h.generation.SuggestQuestions(r.Context(), principalFrom(r), chi.URLParam(r, "workspaceID"), r.URL.Query().Get("file_url"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"questions": questions})
}

func (h *APIHandler) RandomFactsHandler(w http.ResponseWriter, r *http.Request) {
	facts, err := h.generation.RandomFacts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"facts": facts})
}

func (h *APIHandler) RandomQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	questions, err := h.generation.RandomQuestions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"questions": questions})
}
