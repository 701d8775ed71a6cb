package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studypilot/studypilot/internal/core"
)

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chats.Create(principalFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, chat)
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.ListStandalone(principalFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, chats)
}

func (h *APIHandler) ChatMessagesHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	messages, err := h.chats.Messages(principalFrom(r), chi.URLParam(r, "chatID"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messages)
}

func (h *APIHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.chats.Delete(principalFrom(r), chi.URLParam(r, "chatID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SendMessageRequest struct {
	Text   string `json:"text"`
	Strict bool   `json:"strict_mode"`
}

// SendMessageHandler accepts either a JSON body or a multipart form with
// file attachments alongside the text.
func (h *APIHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var text string
	var strict bool
	var uploads []core.Upload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		uploads, err = readUploads(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		text = r.FormValue("text")
		strict, _ = strconv.ParseBool(r.FormValue("strict_mode"))
	} else {
		var req SendMessageRequest
		if err := decodeBody(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
		text, strict = req.Text, req.Strict
	}

	reply, err := h.chats.Send(r.Context(), principalFrom(r), chi.URLParam(r, "chatID"), text, strict, uploads)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}
