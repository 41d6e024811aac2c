package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trails-api/internal/domain"
)

// seedTrails are loaded into an empty table by Seed.
var seedTrails = []domain.Trail{
	{
		Name:          "Sunny Trail",
		Location:      "Mountain View",
		Difficulty:    domain.DifficultyEasy,
		Length:        3.5,
		Duration:      60,
		ElevationGain: 200,
		Type:          domain.TypeCircular,
	},
	{
		Name:          "Rocky Path",
		Location:      "Boulder",
		Difficulty:    domain.DifficultyHard,
		Length:        5.0,
		Duration:      120,
		ElevationGain: 500,
		Type:          domain.TypeOutAndBack,
	},
	{
		Name:          "Forest Run",
		Location:      "Redwood",
		Difficulty:    domain.DifficultyModerate,
		Length:        4.2,
		Duration:      90,
		ElevationGain: 300,
		Type:          domain.TypePointToPoint,
	},
}

// Seed inserts the fixture trails when the table is empty and returns how many
// were inserted. A table that already holds rows is left alone. The fixtures
// go in as one unit, so a failed run leaves the table empty for the next one.
func (s *TrailService) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.TrailService.Seed: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	created, err := s.repo.CreateMany(ctx, seedTrails)
	if err != nil {
		return 0, fmt.Errorf("service.TrailService.Seed: %w", err)
	}
	return len(created), nil
}
