package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pkordes/trails-api/internal/domain"
)

const (
	coverFormField   = "file"
	coverNotFound    = "Cover photo not found"
	multipartMemory = 1 << 20
)

// UploadCover handles PUT /trails/{id}/cover.
// The image is sent as the "file" field of a multipart/form-data body.
func (s *Server) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, err := trailID(r)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err, trailNotFound)
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: body must be multipart/form-data with a %q field", domain.ErrValidation, coverFormField), trailNotFound)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, _, err := r.FormFile(coverFormField)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %s is required", domain.ErrValidation, coverFormField), trailNotFound)
		return
	}
	defer file.Close()

	updated, err := s.covers.Upload(r.Context(), id, file)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GetCover handles GET /trails/{id}/cover and streams the stored image.
func (s *Server) GetCover(w http.ResponseWriter, r *http.Request) {
	id, err := trailID(r)
	if err != nil {
		s.writeError(w, r, err, coverNotFound)
		return
	}

	rc, contentType, err := s.covers.Open(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, coverNotFound)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.log.WarnContext(r.Context(), "cover stream interrupted", "trail_id", id, "error", err)
	}
}
