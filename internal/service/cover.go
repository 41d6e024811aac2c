package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trails-api/internal/domain"
	"github.com/pkordes/trails-api/internal/repo"
	"github.com/pkordes/trails-api/internal/storage"
)

// coverPrefix marks cover_photo values that point into our own storage.
// Each trail's objects live below coverPrefix + "<id>/"; a trail only ever
// serves or removes objects inside its own directory.
const coverPrefix = "covers/"

// coverDir is the key prefix reserved for the covers of trail id.
func coverDir(id int64) string {
	return fmt.Sprintf("%s%d/", coverPrefix, id)
}

// ownedCover reports whether key is a stored cover belonging to trail id.
func ownedCover(id int64, key *string) bool {
	return key != nil && strings.HasPrefix(*key, coverDir(id))
}

// imageExtensions maps the sniffed content type to the stored file extension.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// CoverService stores and serves trail cover photos.
type CoverService struct {
	trails repo.TrailRepo
	store  storage.Storage
}

// NewCoverService constructs a CoverService.
func NewCoverService(trails repo.TrailRepo, store storage.Storage) *CoverService {
	return &CoverService{trails: trails, store: store}
}

// Upload stores body as the cover photo of trail id and records its key on
// the trail. The content type is sniffed from the first bytes; anything that
// is not a supported image is rejected with domain.ErrValidation.
func (s *CoverService) Upload(ctx context.Context, id int64, body io.Reader) (domain.Trail, error) {
	current, err := s.trails.GetByID(ctx, id)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.CoverService.Upload: %w", err)
	}

	br := bufio.NewReaderSize(body, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return domain.Trail{}, fmt.Errorf("service.CoverService.Upload: read: %w", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return domain.Trail{}, fmt.Errorf("service.CoverService.Upload: %w: unsupported cover photo type %s", domain.ErrValidation, contentType)
	}

	key := coverDir(id) + uuid.NewString() + ext
	if err := s.store.Save(ctx, key, br, contentType); err != nil {
		return domain.Trail{}, fmt.Errorf("service.CoverService.Upload: %w", err)
	}

	updated, err := s.trails.Update(ctx, id, domain.TrailFields{CoverPhoto: &key})
	if err != nil {
		// The trail vanished between the read and the write; drop the orphan.
		_ = s.store.Delete(ctx, key)
		return domain.Trail{}, fmt.Errorf("service.CoverService.Upload: %w", err)
	}

	if prev := current.CoverPhoto; ownedCover(id, prev) && *prev != key {
		removeCover(ctx, s.store, id, *prev)
	}
	return updated, nil
}

// Open returns the stored cover photo of trail id and its content type.
// Returns domain.ErrNotFound when the trail or its cover does not exist.
func (s *CoverService) Open(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	trail, err := s.trails.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("service.CoverService.Open: %w", err)
	}
	if !ownedCover(id, trail.CoverPhoto) {
		return nil, "", fmt.Errorf("service.CoverService.Open: %w", domain.ErrNotFound)
	}

	rc, err := s.store.Open(ctx, *trail.CoverPhoto)
	if err != nil {
		return nil, "", fmt.Errorf("service.CoverService.Open: %w", err)
	}
	return rc, contentTypeForKey(*trail.CoverPhoto), nil
}

// removeCover deletes a stored cover best-effort. The row change it follows
// has already committed, so a failure is only logged.
func removeCover(ctx context.Context, store storage.Storage, id int64, key string) {
	if err := store.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to delete cover photo", "trail_id", id, "key", key, "error", err)
	}
}

func contentTypeForKey(key string) string {
	for ct, ext := range imageExtensions {
		if strings.HasSuffix(key, ext) {
			return ct
		}
	}
	return "application/octet-stream"
}
