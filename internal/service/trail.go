// Package service contains the business logic for the Trails API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/trails-api/internal/domain"
	"github.com/pkordes/trails-api/internal/repo"
	"github.com/pkordes/trails-api/internal/storage"
)

// TrailService implements business logic for Trail operations.
type TrailService struct {
	repo   repo.TrailRepo
	covers storage.Storage
}

// NewTrailService constructs a TrailService backed by the provided TrailRepo.
// covers is where uploaded cover photos live; deleting a trail removes its
// stored cover from there. It may be nil when no cover storage is configured.
func NewTrailService(r repo.TrailRepo, covers storage.Storage) *TrailService {
	return &TrailService{repo: r, covers: covers}
}

// Create validates a full record, canonicalizes its enum fields, and persists it.
func (s *TrailService) Create(ctx context.Context, fields domain.TrailFields) (domain.Trail, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Create: %w", err)
	}
	trail, err := fields.Complete()
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Create: %w", err)
	}
	// A new trail has no cover directory yet, so no stored key can be its own.
	if trail.CoverPhoto != nil && strings.HasPrefix(*trail.CoverPhoto, coverPrefix) {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Create: %w: cover_photo %q is reserved for uploaded covers", domain.ErrValidation, *trail.CoverPhoto)
	}

	created, err := s.repo.Create(ctx, trail)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trail by id.
func (s *TrailService) GetByID(ctx context.Context, id int64) (domain.Trail, error) {
	trail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.GetByID: %w", err)
	}
	return trail, nil
}

// List returns the trails selected by q.
func (s *TrailService) List(ctx context.Context, q domain.ListQuery) ([]domain.Trail, error) {
	trails, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service.TrailService.List: %w", err)
	}
	return trails, nil
}

// Update validates only the supplied fields and applies them to the trail.
// Nothing is written when validation fails.
func (s *TrailService) Update(ctx context.Context, id int64, fields domain.TrailFields) (domain.Trail, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Update: %w", err)
	}
	if c := fields.CoverPhoto; c != nil && strings.HasPrefix(*c, coverPrefix) && !ownedCover(id, c) {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Update: %w: cover_photo %q belongs to another trail", domain.ErrValidation, *c)
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trail by id, then its stored cover photo.
func (s *TrailService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("service.TrailService.Delete: %w", err)
	}
	s.dropCover(ctx, deleted)
	return nil
}

// BatchDelete removes every trail with the given difficulty (all trails when
// nil) and returns how many were removed. Callers must authorize first.
// Stored covers of the removed trails are deleted afterwards.
func (s *TrailService) BatchDelete(ctx context.Context, difficulty *string) (int64, error) {
	deleted, err := s.repo.DeleteMatching(ctx, difficulty)
	if err != nil {
		return 0, fmt.Errorf("service.TrailService.BatchDelete: %w", err)
	}
	for _, t := range deleted {
		s.dropCover(ctx, t)
	}
	return int64(len(deleted)), nil
}

func (s *TrailService) dropCover(ctx context.Context, t domain.Trail) {
	if s.covers == nil || !ownedCover(t.ID, t.CoverPhoto) {
		return
	}
	removeCover(ctx, s.covers, t.ID, *t.CoverPhoto)
}
