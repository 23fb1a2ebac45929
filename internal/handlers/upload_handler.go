// File: internal/handlers/upload_handler.go
package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxUploadBytes bounds a single image or voice upload.
const maxUploadBytes = 20 << 20 // 20 MiB

var allowedUploadExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".ogg": true, ".oga": true, ".mp3": true, ".wav": true, ".m4a": true, ".flac": true,
}

// UploadHandler writes client media to the upload directory. The AI core
// reads these files by path; it never manages their upload lifecycle.
type UploadHandler struct {
	UploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{UploadDir: uploadDir}
}

// Upload accepts a multipart "file" field and returns the stored path.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, "File too large or malformed form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		writeError(w, "Unsupported file type", http.StatusUnsupportedMediaType)
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		writeError(w, "Could not store file", http.StatusInternalServerError)
		return
	}

	name := uuid.NewString() + ext
	path := filepath.Join(h.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		writeError(w, "Could not store file", http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		writeError(w, "Could not store file", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"path": path,
		"name": name,
	})
}
