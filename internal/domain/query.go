package domain

import "fmt"

// SortField names a trail attribute that listings may be ordered by.
type SortField string

// Sortable trail attributes. The values are the JSON field names clients use.
const (
	SortByID            SortField = "id"
	SortByName          SortField = "name"
	SortByLocation      SortField = "location"
	SortByDifficulty    SortField = "difficulty"
	SortByLength        SortField = "length"
	SortByDuration      SortField = "duration"
	SortByElevationGain SortField = "elevation_gain"
	SortByType          SortField = "type"
	SortByCoverPhoto    SortField = "cover_photo"
)

var sortFields = map[string]SortField{
	string(SortByID):            SortByID,
	string(SortByName):          SortByName,
	string(SortByLocation):      SortByLocation,
	string(SortByDifficulty):    SortByDifficulty,
	string(SortByLength):        SortByLength,
	string(SortByDuration):      SortByDuration,
	string(SortByElevationGain): SortByElevationGain,
	string(SortByType):          SortByType,
	string(SortByCoverPhoto):    SortByCoverPhoto,
}

// ParseSortField returns the SortField for name, or ErrInvalidField when name
// is not a trail attribute. Matching is exact.
func ParseSortField(name string) (SortField, error) {
	f, ok := sortFields[name]
	if !ok {
		return "", fmt.Errorf("%w: invalid sortBy parameter %q", ErrInvalidField, name)
	}
	return f, nil
}

// ListQuery carries the filter, sort and limit of a trail listing from the
// HTTP layer to the repo layer.
type ListQuery struct {
	// Difficulty filters by exact match when non-nil.
	Difficulty *string
	// SortBy orders ascending by the field when non-empty; ties break on id.
	SortBy SortField
	// Limit truncates the result when greater than zero. Zero means no limit.
	Limit int
}

// NewListQuery builds a ListQuery from optional HTTP query params.
// An empty difficulty or sortBy is treated as absent, and a count of zero or
// less means "no limit".
func NewListQuery(difficulty, sortBy *string, count *int) (ListQuery, error) {
	var q ListQuery
	if difficulty != nil && *difficulty != "" {
		d := *difficulty
		q.Difficulty = &d
	}
	if sortBy != nil && *sortBy != "" {
		f, err := ParseSortField(*sortBy)
		if err != nil {
			return ListQuery{}, err
		}
		q.SortBy = f
	}
	if count != nil && *count > 0 {
		q.Limit = *count
	}
	return q, nil
}
