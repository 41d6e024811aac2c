package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/pkordes/trails-api/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "name", "location", "difficulty", "length",
	"duration", "elevation_gain", "type", "cover_photo",
}

// ExportTrails handles GET /trails/export.
// It returns every trail ordered by id. Use ?format=csv to receive CSV;
// default is JSON. ?difficulty= narrows the export the same way it narrows
// the listing; sorting and limits do not apply.
func (s *Server) ExportTrails(w http.ResponseWriter, r *http.Request) {
	difficulty, err := difficultyFilter(r)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}
	var format *string
	if err := bindFormat(r, &format); err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}
	wantCSV := format != nil && *format == "csv"
	if format != nil && *format != "" && *format != "json" && !wantCSV {
		writeDetail(w, http.StatusBadRequest, "invalid format "+strconv.Quote(*format)+": allowed values: csv, json")
		return
	}

	q := domain.ListQuery{Difficulty: difficulty}
	trails, err := s.trails.List(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err, trailNotFound)
		return
	}

	if !wantCSV {
		if trails == nil {
			trails = []domain.Trail{}
		}
		writeJSON(w, http.StatusOK, trails)
		return
	}

	body := buildCSV(trails)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trails.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	body.WriteTo(w)
}

// buildCSV encodes trails as CSV with a header row.
func buildCSV(trails []domain.Trail) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, t := range trails {
		//nolint:errcheck
		w.Write(trailToCSVRecord(t))
	}
	w.Flush()
	return &buf
}

// trailToCSVRecord flattens a trail into one CSV row.
// A nil cover photo is written as an empty string.
func trailToCSVRecord(t domain.Trail) []string {
	cover := ""
	if t.CoverPhoto != nil {
		cover = *t.CoverPhoto
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Name,
		t.Location,
		t.Difficulty,
		strconv.FormatFloat(t.Length, 'f', -1, 64),
		strconv.Itoa(t.Duration),
		strconv.Itoa(t.ElevationGain),
		t.Type,
		cover,
	}
}
