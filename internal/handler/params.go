package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trails-api/internal/domain"
)

// listTrailsParams holds the optional query parameters of GET /trails.
type listTrailsParams struct {
	Difficulty *string
	SortBy     *string
	Count      *int
}

// trailID binds the {id} path parameter.
// A non-integer id is reported as a domain.TypeMismatchError.
func trailID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, &domain.TypeMismatchError{Field: "id", Expected: "an integer"}
	}
	return id, nil
}

// bindListParams binds the query parameters of GET /trails.
func bindListParams(r *http.Request) (listTrailsParams, error) {
	var p listTrailsParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "difficulty", q, &p.Difficulty); err != nil {
		return p, &domain.TypeMismatchError{Field: "difficulty", Expected: "a string"}
	}
	if err := runtime.BindQueryParameter("form", true, false, "sortBy", q, &p.SortBy); err != nil {
		return p, &domain.TypeMismatchError{Field: "sortBy", Expected: "a string"}
	}
	if err := runtime.BindQueryParameter("form", true, false, "count", q, &p.Count); err != nil {
		return p, &domain.TypeMismatchError{Field: "count", Expected: "an integer"}
	}
	return p, nil
}

// difficultyFilter binds the optional ?difficulty= of DELETE /trails and
// GET /trails/export. An empty value means no filter.
func difficultyFilter(r *http.Request) (*string, error) {
	var d *string
	if err := runtime.BindQueryParameter("form", true, false, "difficulty", r.URL.Query(), &d); err != nil {
		return nil, &domain.TypeMismatchError{Field: "difficulty", Expected: "a string"}
	}
	if d != nil && *d == "" {
		return nil, nil
	}
	return d, nil
}

// bindFormat binds the optional ?format= of GET /trails/export.
func bindFormat(r *http.Request, dst **string) error {
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), dst); err != nil {
		return &domain.TypeMismatchError{Field: "format", Expected: "a string"}
	}
	return nil
}
