package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/fieldnotes-dev/fieldnotes/shared/logger"
)

// ServeMedia streams a stored attachment. The path is relative to the
// media root; traversal is neutralized inside the storage layer.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		http.Error(w, "Attachment path is required", http.StatusBadRequest)
		return
	}

	file, err := h.media.Read(path)
	if err != nil {
		http.Error(w, "Attachment not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	if contentType := mime.TypeByExtension(filepath.Ext(path)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	if _, err := io.Copy(w, file); err != nil {
		logger.Log.Warn("media stream interrupted", "path", path, "error", err)
	}
}
