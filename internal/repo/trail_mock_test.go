package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trails-api/internal/domain"
	"github.com/pkordes/trails-api/internal/repo"
)

// These tests drive the repo against pgxmock, so they run without a database
// and pin down the SQL shape the query builder produces.

var trailCols = []string{"id", "name", "location", "difficulty", "length", "duration", "elevation_gain", "type", "cover_photo"}

func newMockRepo(t *testing.T) (repo.TrailRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return repo.NewTrailRepo(mock), mock
}

func trailRow(id int64, difficulty string, length float64) []any {
	return []any{id, "Test Trail", "Test Location", difficulty, length, 45, 150, domain.TypeCircular, "covers/photo.jpg"}
}

func TestTrailRepoMock_List_NoParamsOrdersByID(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name, .* FROM trails ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(trailCols).
			AddRow(trailRow(1, domain.DifficultyEasy, 3)...).
			AddRow(trailRow(2, domain.DifficultyHard, 5)...))

	got, err := r.List(context.Background(), domain.ListQuery{})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.EqualValues(t, 1, got[0].ID)
	require.NotNil(t, got[0].CoverPhoto)
	assert.Equal(t, "covers/photo.jpg", *got[0].CoverPhoto)
}

func TestTrailRepoMock_List_FilterSortLimit(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM trails WHERE difficulty = .* ORDER BY elevation_gain, id LIMIT`).
		WillReturnRows(pgxmock.NewRows(trailCols).AddRow(trailRow(4, domain.DifficultyModerate, 2)...))

	d := domain.DifficultyModerate
	got, err := r.List(context.Background(), domain.ListQuery{Difficulty: &d, SortBy: domain.SortByElevationGain, Limit: 1})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.DifficultyModerate, got[0].Difficulty)
}

func TestTrailRepoMock_List_EmptyIsNotNil(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM trails`).WillReturnRows(pgxmock.NewRows(trailCols))

	got, err := r.List(context.Background(), domain.ListQuery{})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTrailRepoMock_List_UnknownSortField(t *testing.T) {
	r, _ := newMockRepo(t)

	// No query is expected: the builder rejects the field first.
	_, err := r.List(context.Background(), domain.ListQuery{SortBy: domain.SortField("password")})

	assert.ErrorIs(t, err, domain.ErrInvalidField)
}

func TestTrailRepoMock_GetByID_NotFound(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM trails WHERE id =`).WillReturnError(pgx.ErrNoRows)

	_, err := r.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrailRepoMock_Create(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO trails`).
		WillReturnRows(pgxmock.NewRows(trailCols).AddRow(trailRow(10, domain.DifficultyEasy, 3.5)...))

	got, err := r.Create(context.Background(), domain.Trail{Name: "Test Trail"})

	require.NoError(t, err)
	assert.EqualValues(t, 10, got.ID)
}

func TestTrailRepoMock_Update_CommitsOneUnitOfWork(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM trails WHERE id = .* FOR UPDATE`).
		WillReturnRows(pgxmock.NewRows(trailCols).AddRow(trailRow(3, domain.DifficultyEasy, 3)...))
	mock.ExpectQuery(`UPDATE trails`).
		WillReturnRows(pgxmock.NewRows(trailCols).AddRow(trailRow(3, domain.DifficultyHard, 3)...))
	mock.ExpectCommit()

	hard := domain.DifficultyHard
	got, err := r.Update(context.Background(), 3, domain.TrailFields{Difficulty: &hard})

	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyHard, got.Difficulty)
}

func TestTrailRepoMock_Update_NotFoundRollsBack(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.Update(context.Background(), 3, domain.TrailFields{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrailRepoMock_CreateMany_OneTransaction(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO trails`).
		WillReturnRows(pgxmock.NewRows(trailCols).AddRow(trailRow(1, domain.DifficultyEasy, 3)...))
	mock.ExpectQuery(`INSERT INTO trails`).
		WillReturnRows(pgxmock.NewRows(trailCols).AddRow(trailRow(2, domain.DifficultyHard, 5)...))
	mock.ExpectCommit()

	got, err := r.CreateMany(context.Background(), []domain.Trail{{Name: "a"}, {Name: "b"}})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.EqualValues(t, 1, got[0].ID)
	assert.EqualValues(t, 2, got[1].ID)
}

func TestTrailRepoMock_CreateMany_FailureRollsBack(t *testing.T) {
	r, mock := newMockRepo(t)

	boom := errors.New("check constraint violated")
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO trails`).
		WillReturnRows(pgxmock.NewRows(trailCols).AddRow(trailRow(1, domain.DifficultyEasy, 3)...))
	mock.ExpectQuery(`INSERT INTO trails`).WillReturnError(boom)
	mock.ExpectRollback()

	_, err := r.CreateMany(context.Background(), []domain.Trail{{Name: "a"}, {Name: "b"}})

	assert.ErrorIs(t, err, boom)
}

func TestTrailRepoMock_Delete_ReturnsRemovedRow(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`DELETE FROM trails WHERE id = .* RETURNING`).
		WillReturnRows(pgxmock.NewRows(trailCols).AddRow(trailRow(5, domain.DifficultyEasy, 3)...))
	mock.ExpectQuery(`DELETE FROM trails WHERE id = .* RETURNING`).WillReturnError(pgx.ErrNoRows)

	deleted, err := r.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.EqualValues(t, 5, deleted.ID)
	require.NotNil(t, deleted.CoverPhoto)

	_, err = r.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrailRepoMock_DeleteMatching(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`DELETE FROM trails WHERE difficulty = .* RETURNING`).
		WillReturnRows(pgxmock.NewRows(trailCols).
			AddRow(trailRow(1, domain.DifficultyModerate, 3)...).
			AddRow(trailRow(2, domain.DifficultyModerate, 4)...))
	mock.ExpectQuery(`DELETE FROM trails WHERE difficulty = .* RETURNING`).
		WillReturnRows(pgxmock.NewRows(trailCols))

	d := domain.DifficultyModerate
	deleted, err := r.DeleteMatching(context.Background(), &d)
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	_, err = r.DeleteMatching(context.Background(), &d)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrailRepoMock_DeleteMatching_PropagatesError(t *testing.T) {
	r, mock := newMockRepo(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`DELETE FROM trails`).WillReturnError(boom)

	_, err := r.DeleteMatching(context.Background(), nil)

	assert.ErrorIs(t, err, boom)
}

func TestTrailRepoMock_Count(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM trails`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := r.Count(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
