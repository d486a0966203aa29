package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

const (
	maxUploadFiles  = 10
	maxUploadMemory = 32 << 20
)

// UploadImages handles POST /api/upload. Each part of the "files" field is
// stored under a random name and served from /uploads/<name>.
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		twincore.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		twincore.Error(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(files) > maxUploadFiles {
		twincore.Error(w, http.StatusBadRequest, "Too many files")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			twincore.Error(w, http.StatusBadRequest, "Invalid file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			twincore.Error(w, http.StatusBadRequest, "Invalid file")
			return
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		h.store.Uploads.Set(name, store.Upload{Name: name, ContentType: contentType, Data: data})
		urls = append(urls, "/uploads/"+name)
	}

	h.logger.Debug("stored uploads", zap.Int("count", len(urls)))
	twincore.JSON(w, http.StatusOK, map[string]any{
		"message": "Files uploaded successfully",
		"urls":    urls,
	})
}

// ServeUpload handles GET /uploads/{name}.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	up, ok := h.store.Uploads.Get(chi.URLParam(r, "name"))
	if !ok {
		twincore.Error(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", up.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(up.Data)
}
