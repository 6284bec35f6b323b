package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"orderflow-backend/internal/storage"
	"orderflow-backend/pkg/utils"
)

// UploadHandler stores uploaded files (check images and similar
// attachments) in object storage and returns their public URL.
type UploadHandler struct {
	Storage *storage.Client
}

func NewUploadHandler(client *storage.Client) *UploadHandler {
	return &UploadHandler{Storage: client}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		http.Error(w, "Object storage is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("uploads/%d%s", time.Now().UnixNano(), filepath.Ext(header.Filename))
	url, err := h.Storage.Upload(r.Context(), key, contentType, file)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
