package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type CreateWorkspaceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Tag         *string `json:"tag,omitempty"`
}

func (h *APIHandler) CreateWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if r.Body != http.NoBody {
		if err := decodeBody(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	ws, err := h.workspaces.Create(principalFrom(r), req.Name, req.Description, req.Tag)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, ws)
}

func (h *APIHandler) ListWorkspacesHandler(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.workspaces.List(principalFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, workspaces)
}

func (h *APIHandler) GetWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.workspaces.Get(principalFrom(r), chi.URLParam(r, "workspaceID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *APIHandler) DeleteWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.workspaces.Delete(principalFrom(r), chi.URLParam(r, "workspaceID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	results, err := h.workspaces.Search(principalFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}
