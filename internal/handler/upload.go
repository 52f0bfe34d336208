package handler

import (
	"net/http"

	apperrors "github.com/startdash-dev/startdash/internal/errors"
)

// multipart form parsing buffers up to this much in memory, the rest spills
// to temp files
const multipartMemory = 1 << 20

func (h *Handler) UploadBackground(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Upload.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, r, apperrors.Validation("request too large or not multipart"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperrors.Validation("no file uploaded"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, r, apperrors.Validation("empty filename"))
		return
	}

	url, err := h.backgrounds.Upload(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
