package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/store"
)

const maxMultipartMemory = 64 << 20 // 64 MiB

// readUploads extracts the "files" parts of a multipart request.
func readUploads(r *http.Request) ([]core.Upload, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, errors.Join(core.ErrValidation, err)
	}
	headers := r.MultipartForm.File["files"]

	uploads := make([]core.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, core.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        formatSize(fh.Size),
			Data:        data,
		})
	}
	return uploads, nil
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func (h *APIHandler) UploadWorkspaceFilesHandler(w http.ResponseWriter, r *http.Request) {
	uploads, err := readUploads(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	kind := store.FileKind(r.FormValue("kind"))

	files, err := h.files.AddWorkspaceFiles(r.Context(), principalFrom(r), chi.URLParam(r, "workspaceID"), kind, uploads)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, files)
}

type DeleteFileRequest struct {
	Path string `json:"file_path"`
}

func (h *APIHandler) DeleteWorkspaceFileHandler(w http.ResponseWriter, r *http.Request) {
	var req DeleteFileRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	err := h.files.DeleteWorkspaceFile(r.Context(), principalFrom(r), chi.URLParam(r, "workspaceID"), req.Path)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) GetFileHandler(w http.ResponseWriter, r *http.Request) {
	file, err := h.files.GetFile(principalFrom(r), chi.URLParam(r, "fileID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, file)
}

type AddVideoRequest struct {
	VideoID string `json:"video_id"`
}

func (h *APIHandler) AddVideoHandler(w http.ResponseWriter, r *http.Request) {
	var req AddVideoRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	video, err := h.videos.Add(r.Context(), principalFrom(r), chi.URLParam(r, "workspaceID"), req.VideoID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, video)
}

func (h *APIHandler) DeleteVideoHandler(w http.ResponseWriter, r *http.Request) {
	err := h.files.DeleteVideo(principalFrom(r), chi.URLParam(r, "workspaceID"), chi.URLParam(r, "videoID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
