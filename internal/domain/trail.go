// Package domain contains the core data types and input rules for the Trails API.
// It is imported by every other internal package (repo, service, handler) and
// depends on nothing inside the module.
package domain

import (
	"fmt"
	"strings"
)

// Trail is a single hiking trail record.
// ID is assigned by the store on creation and never reused.
type Trail struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Difficulty    string  `json:"difficulty"`
	Length        float64 `json:"length"`         // kilometers
	Duration      int     `json:"duration"`       // minutes
	ElevationGain int     `json:"elevation_gain"` // meters
	Type          string  `json:"type"`
	CoverPhoto    *string `json:"cover_photo"`
}

// TrailFields is the set of fields a client supplied in a create or update
// request. A nil pointer means the key was absent. ClearCoverPhoto is set when
// the client sent an explicit null for cover_photo.
type TrailFields struct {
	Name            *string
	Location        *string
	Difficulty      *string
	Length          *float64
	Duration        *int
	ElevationGain   *int
	Type            *string
	CoverPhoto      *string
	ClearCoverPhoto bool
}

// Normalize validates the fields that are present and canonicalizes the
// enum-like ones. Absent fields are left untouched.
func (f TrailFields) Normalize() (TrailFields, error) {
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		return f, fmt.Errorf("%w: name must not be blank", ErrValidation)
	}
	if f.Location != nil && strings.TrimSpace(*f.Location) == "" {
		return f, fmt.Errorf("%w: location must not be blank", ErrValidation)
	}
	if f.Difficulty != nil {
		d, err := NormalizeDifficulty(*f.Difficulty)
		if err != nil {
			return f, err
		}
		f.Difficulty = &d
	}
	if f.Type != nil {
		t, err := NormalizeType(*f.Type)
		if err != nil {
			return f, err
		}
		f.Type = &t
	}
	if f.Length != nil && *f.Length <= 0 {
		return f, fmt.Errorf("%w: length must be greater than 0", ErrValidation)
	}
	if f.Duration != nil && *f.Duration <= 0 {
		return f, fmt.Errorf("%w: duration must be greater than 0", ErrValidation)
	}
	return f, nil
}

// Complete checks that every required field is present and builds the Trail.
// Used on the create path, where a full record is required.
func (f TrailFields) Complete() (Trail, error) {
	var missing []string
	if f.Name == nil {
		missing = append(missing, "name")
	}
	if f.Location == nil {
		missing = append(missing, "location")
	}
	if f.Difficulty == nil {
		missing = append(missing, "difficulty")
	}
	if f.Length == nil {
		missing = append(missing, "length")
	}
	if f.Duration == nil {
		missing = append(missing, "duration")
	}
	if f.ElevationGain == nil {
		missing = append(missing, "elevation_gain")
	}
	if f.Type == nil {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return Trail{}, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return f.Apply(Trail{}), nil
}

// Apply returns t with every supplied field overwritten.
// Applying the same fields twice yields the same Trail.
func (f TrailFields) Apply(t Trail) Trail {
	if f.Name != nil {
		t.Name = *f.Name
	}
	if f.Location != nil {
		t.Location = *f.Location
	}
	if f.Difficulty != nil {
		t.Difficulty = *f.Difficulty
	}
	if f.Length != nil {
		t.Length = *f.Length
	}
	if f.Duration != nil {
		t.Duration = *f.Duration
	}
	if f.ElevationGain != nil {
		t.ElevationGain = *f.ElevationGain
	}
	if f.Type != nil {
		t.Type = *f.Type
	}
	switch {
	case f.ClearCoverPhoto:
		t.CoverPhoto = nil
	case f.CoverPhoto != nil:
		cp := *f.CoverPhoto
		t.CoverPhoto = &cp
	}
	return t
}
