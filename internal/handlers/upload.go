package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"recettes/internal/uploader"
)

const (
	// maxUploadSize is the maximum allowed image upload size (5 MB).
	maxUploadSize = 5 << 20

	// uploadField is the multipart form field carrying the image.
	uploadField = "recipeImage"
)

// Upload handles recipe image uploads to the configured asset backend.
type Upload struct {
	assets uploader.Uploader // nil when no upload backend is configured
}

// NewUpload creates a new Upload handler group.
func NewUpload(assets uploader.Uploader) *Upload {
	return &Upload{assets: assets}
}

// Image accepts a multipart image upload and returns the public URL of the
// stored asset. Auth required.
func (h *Upload) Image(w http.ResponseWriter, r *http.Request) {
	if h.assets == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Image uploads are not configured.")
		return
	}

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "Upload failed: the image must be smaller than 5 MB.")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Invalid upload request.")
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No image file provided.")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeMessage(w, http.StatusRequestEntityTooLarge, "Upload failed: the image must be smaller than 5 MB.")
		return
	}

	// Detect content type by sniffing the first 512 bytes — the client's
	// declared MIME type is not trusted.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		slog.Error("upload read failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to read the uploaded file.")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !strings.HasPrefix(contentType, "image/") {
		writeMessage(w, http.StatusBadRequest, "Unsupported file type. Please upload an image.")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		slog.Error("upload seek failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to process the uploaded file.")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("upload read failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to read the uploaded file.")
		return
	}

	imageURL, err := h.assets.Upload(r.Context(), header.Filename, contentType, data)
	if err != nil {
		slog.Error("asset upload failed", "error", err, "filename", header.Filename)
		writeMessage(w, http.StatusInternalServerError, "Failed to upload the image.")
		return
	}

	slog.Info("image uploaded", "filename", header.Filename, "url", imageURL)
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
