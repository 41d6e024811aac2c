package domain

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical difficulty values.
const (
	DifficultyEasy     = "Easy"
	DifficultyModerate = "Moderate"
	DifficultyHard     = "Hard"
)

// Canonical trail type values.
const (
	TypeCircular     = "Circular"
	TypeOutAndBack   = "Out-and-back"
	TypePointToPoint = "Point To Point"
)

// enumTable maps lower-case spellings to canonical values.
// keys keeps the table order so error messages are stable.
type enumTable struct {
	field     string
	keys      []string
	canonical map[string]string
}

func newEnumTable(field string, pairs ...[2]string) enumTable {
	t := enumTable{field: field, canonical: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		t.keys = append(t.keys, p[0])
		t.canonical[p[0]] = p[1]
	}
	return t
}

var (
	difficulties = newEnumTable("difficulty",
		[2]string{"easy", DifficultyEasy},
		[2]string{"moderate", DifficultyModerate},
		[2]string{"hard", DifficultyHard},
	)
	trailTypes = newEnumTable("type",
		[2]string{"circular", TypeCircular},
		[2]string{"out-and-back", TypeOutAndBack},
		[2]string{"point to point", TypePointToPoint},
	)
)

// lower folds s to lower case. A cases.Caser is stateful and must not be
// shared between goroutines, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func (t enumTable) normalize(raw string) (string, error) {
	if v, ok := t.canonical[lower(raw)]; ok {
		return v, nil
	}
	accepted := make([]string, len(t.keys))
	copy(accepted, t.keys)
	return "", &InvalidEnumValueError{Field: t.field, Value: raw, Accepted: accepted}
}

// NormalizeDifficulty returns the canonical casing of a difficulty,
// matching the input case-insensitively.
// Returns *InvalidEnumValueError when the input is not a known difficulty.
func NormalizeDifficulty(raw string) (string, error) {
	return difficulties.normalize(raw)
}

// NormalizeType returns the canonical casing of a trail type,
// matching the input case-insensitively.
// Returns *InvalidEnumValueError when the input is not a known type.
func NormalizeType(raw string) (string, error) {
	return trailTypes.normalize(raw)
}
