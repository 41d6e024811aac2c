package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pkordes/trails-api/internal/domain"
)

const (
	trailNotFound = "Trail not found"
	noTrailsMatch = "No trails match the given condition"
)

// ListTrails handles GET /trails.
// Supports ?difficulty= (exact match), ?sortBy= (field name) and ?count= (limit).
func (s *Server) ListTrails(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	q, err := domain.NewListQuery(params.Difficulty, params.SortBy, params.Count)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	trails, err := s.trails.List(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}
	if trails == nil {
		trails = []domain.Trail{}
	}
	writeJSON(w, http.StatusOK, trails)
}

// GetTrail handles GET /trails/{id}.
func (s *Server) GetTrail(w http.ResponseWriter, r *http.Request) {
	id, err := trailID(r)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	trail, err := s.trails.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trail)
}

// CreateTrail handles POST /trails. The body must carry a full record.
func (s *Server) CreateTrail(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeTrailFields(r)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	created, err := s.trails.Create(r.Context(), fields)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTrail handles PUT /trails/{id}. Only the keys present in the body are
// changed; the response is the full updated record.
func (s *Server) UpdateTrail(w http.ResponseWriter, r *http.Request) {
	id, err := trailID(r)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	fields, err := decodeTrailFields(r)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	updated, err := s.trails.Update(r.Context(), id, fields)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrail handles DELETE /trails/{id}.
func (s *Server) DeleteTrail(w http.ResponseWriter, r *http.Request) {
	id, err := trailID(r)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	if err := s.trails.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchDeleteTrails handles DELETE /trails. The admin token has already been
// checked by middleware.RequireAdminToken when this runs.
func (s *Server) BatchDeleteTrails(w http.ResponseWriter, r *http.Request) {
	difficulty, err := difficultyFilter(r)
	if err != nil {
		s.writeError(w, r, err, noTrailsMatch)
		return
	}

	n, err := s.trails.BatchDelete(r.Context(), difficulty)
	if err != nil {
		s.writeError(w, r, err, noTrailsMatch)
		return
	}
	s.log.InfoContext(r.Context(), "batch deleted trails", "count", n, "difficulty", difficulty)
	w.WriteHeader(http.StatusNoContent)
}

// --- body decoding ----------------------------------------------------------

// decodeTrailFields reads a JSON object and records which trail keys it holds.
// Values of the wrong JSON type, and null for anything but cover_photo, are
// reported as domain.TypeMismatchError. Unknown keys are ignored.
func decodeTrailFields(r *http.Request) (domain.TrailFields, error) {
	var f domain.TrailFields
	if r.Body == nil {
		return f, fmt.Errorf("%w: request body is required", domain.ErrValidation)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return f, err
		}
		return f, fmt.Errorf("%w: request body must be a JSON object", domain.ErrValidation)
	}
	if raw == nil {
		return f, fmt.Errorf("%w: request body must be a JSON object", domain.ErrValidation)
	}

	var err error
	if f.Name, err = field[string](raw, "name", "a string"); err != nil {
		return f, err
	}
	if f.Location, err = field[string](raw, "location", "a string"); err != nil {
		return f, err
	}
	if f.Difficulty, err = field[string](raw, "difficulty", "a string"); err != nil {
		return f, err
	}
	if f.Length, err = field[float64](raw, "length", "a number"); err != nil {
		return f, err
	}
	if f.Duration, err = field[int](raw, "duration", "an integer"); err != nil {
		return f, err
	}
	if f.ElevationGain, err = field[int](raw, "elevation_gain", "an integer"); err != nil {
		return f, err
	}
	if f.Type, err = field[string](raw, "type", "a string"); err != nil {
		return f, err
	}

	if v, ok := raw["cover_photo"]; ok {
		if isNull(v) {
			f.ClearCoverPhoto = true
		} else if f.CoverPhoto, err = field[string](raw, "cover_photo", "a string or null"); err != nil {
			return f, err
		}
	}
	return f, nil
}

// field decodes raw[key] into a T. It returns nil when the key is absent.
func field[T any](raw map[string]json.RawMessage, key, expected string) (*T, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	if isNull(v) {
		return nil, &domain.TypeMismatchError{Field: key, Expected: expected}
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		return nil, &domain.TypeMismatchError{Field: key, Expected: expected}
	}
	return &out, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
