package service_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trails-api/internal/domain"
	"github.com/pkordes/trails-api/internal/service"
	"github.com/pkordes/trails-api/internal/storage"
)

// memStorage is an in-memory storage.Storage.
type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage { return &memStorage{objects: map[string][]byte{}} }

func (m *memStorage) Save(_ context.Context, key string, r io.Reader, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("mem: %w", domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

var _ storage.Storage = (*memStorage)(nil)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

// trailStore keeps one trail in memory behind the mock repo.
func trailStore(trail domain.Trail) *mockTrailRepo {
	return &mockTrailRepo{
		getByID: func(_ context.Context, id int64) (domain.Trail, error) {
			if id != trail.ID {
				return domain.Trail{}, domain.ErrNotFound
			}
			return trail, nil
		},
		update: func(_ context.Context, id int64, f domain.TrailFields) (domain.Trail, error) {
			if id != trail.ID {
				return domain.Trail{}, domain.ErrNotFound
			}
			trail = f.Apply(trail)
			return trail, nil
		},
	}
}

func TestCoverService_Upload_StoresAndRecordsKey(t *testing.T) {
	store := newMemStorage()
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 4}), store)

	got, err := svc.Upload(context.Background(), 4, bytes.NewReader(pngBytes))

	require.NoError(t, err)
	require.NotNil(t, got.CoverPhoto)
	assert.True(t, strings.HasPrefix(*got.CoverPhoto, "covers/4/"))
	assert.True(t, strings.HasSuffix(*got.CoverPhoto, ".png"))
	assert.Equal(t, pngBytes, store.objects[*got.CoverPhoto])
}

func TestCoverService_Upload_ReplacesPreviousCover(t *testing.T) {
	store := newMemStorage()
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 4}), store)

	first, err := svc.Upload(context.Background(), 4, bytes.NewReader(pngBytes))
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), 4, bytes.NewReader(pngBytes))
	require.NoError(t, err)

	assert.NotEqual(t, *first.CoverPhoto, *second.CoverPhoto)
	assert.NotContains(t, store.objects, *first.CoverPhoto)
	assert.Contains(t, store.objects, *second.CoverPhoto)
}

func TestCoverService_Upload_RejectsNonImage(t *testing.T) {
	store := newMemStorage()
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 4}), store)

	_, err := svc.Upload(context.Background(), 4, strings.NewReader("just some text"))

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, store.objects)
}

func TestCoverService_Upload_TrailNotFound(t *testing.T) {
	store := newMemStorage()
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 4}), store)

	_, err := svc.Upload(context.Background(), 5, bytes.NewReader(pngBytes))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.objects)
}

func TestCoverService_Open(t *testing.T) {
	store := newMemStorage()
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 4}), store)
	_, err := svc.Upload(context.Background(), 4, bytes.NewReader(pngBytes))
	require.NoError(t, err)

	rc, contentType, err := svc.Open(context.Background(), 4)

	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", contentType)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, b)
}

func TestCoverService_Open_NoCover(t *testing.T) {
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 4}), newMemStorage())

	_, _, err := svc.Open(context.Background(), 4)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCoverService_Open_ExternalReferenceNotServed(t *testing.T) {
	external := "https://example.com/photo.jpg"
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 4, CoverPhoto: &external}), newMemStorage())

	_, _, err := svc.Open(context.Background(), 4)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// A cover_photo that names another trail's directory is never served and
// never deleted on behalf of this trail.
func TestCoverService_Upload_KeepsOtherTrailsCover(t *testing.T) {
	store := newMemStorage()
	victim := "covers/2/victim.png"
	store.objects[victim] = pngBytes
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 1, CoverPhoto: &victim}), store)

	got, err := svc.Upload(context.Background(), 1, bytes.NewReader(pngBytes))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(*got.CoverPhoto, "covers/1/"))
	assert.Contains(t, store.objects, victim, "trail 2's stored cover must survive an upload to trail 1")
}

func TestCoverService_Open_OtherTrailsKeyNotServed(t *testing.T) {
	store := newMemStorage()
	victim := "covers/2/victim.png"
	store.objects[victim] = pngBytes
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 1, CoverPhoto: &victim}), store)

	_, _, err := svc.Open(context.Background(), 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Trail 1 must not claim covers/12/... just because "covers/1" is a prefix of it.
func TestCoverService_Upload_SiblingIDPrefixNotOwned(t *testing.T) {
	store := newMemStorage()
	sibling := "covers/12/x.png"
	store.objects[sibling] = pngBytes
	svc := service.NewCoverService(trailStore(domain.Trail{ID: 1, CoverPhoto: &sibling}), store)

	_, err := svc.Upload(context.Background(), 1, bytes.NewReader(pngBytes))

	require.NoError(t, err)
	assert.Contains(t, store.objects, sibling)
}

func TestTrailService_Update_RejectsOtherTrailsCoverKey(t *testing.T) {
	store := newMemStorage()
	store.objects["covers/2/victim.png"] = pngBytes
	r := trailStore(domain.Trail{ID: 1})
	trails := service.NewTrailService(r, store)

	_, err := trails.Update(context.Background(), 1, domain.TrailFields{CoverPhoto: ptr("covers/2/victim.png")})
	require.ErrorIs(t, err, domain.ErrValidation)

	covers := service.NewCoverService(r, store)
	_, err = covers.Upload(context.Background(), 1, bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Contains(t, store.objects, "covers/2/victim.png")
}

func TestTrailService_Update_AcceptsOwnCoverKeyAndExternalURL(t *testing.T) {
	trails := service.NewTrailService(trailStore(domain.Trail{ID: 1}), nil)

	got, err := trails.Update(context.Background(), 1, domain.TrailFields{CoverPhoto: ptr("covers/1/mine.png")})
	require.NoError(t, err)
	assert.Equal(t, "covers/1/mine.png", *got.CoverPhoto)

	got, err = trails.Update(context.Background(), 1, domain.TrailFields{CoverPhoto: ptr("https://example.com/p.jpg")})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/p.jpg", *got.CoverPhoto)
}

func TestTrailService_Create_RejectsStoredCoverKey(t *testing.T) {
	f := validFields()
	f.CoverPhoto = ptr("covers/2/victim.png")
	svc := service.NewTrailService(&mockTrailRepo{
		create: func(_ context.Context, _ domain.Trail) (domain.Trail, error) {
			t.Fatal("repo must not be called")
			return domain.Trail{}, nil
		},
	}, nil)

	_, err := svc.Create(context.Background(), f)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
