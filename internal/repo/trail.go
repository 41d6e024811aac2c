// Package repo contains all database access logic for the Trails API.
// Each resource has an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trails-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Tx, and pgxmock.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. Begin on a
// pgx.Tx opens a savepoint, so Update works the same inside a test transaction.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TrailRepo defines the persistence operations for Trails.
// The service layer depends on this interface, not the Postgres implementation.
type TrailRepo interface {
	// Create inserts a new trail and returns it with its DB-assigned id.
	Create(ctx context.Context, trail domain.Trail) (domain.Trail, error)

	// GetByID retrieves a single trail by primary key.
	// Returns domain.ErrNotFound if no trail with that id exists.
	GetByID(ctx context.Context, id int64) (domain.Trail, error)

	// List returns trails matching q. The result is never nil.
	List(ctx context.Context, q domain.ListQuery) ([]domain.Trail, error)

	// Update applies the supplied fields to an existing trail in one
	// transaction and returns the full updated record.
	// Returns domain.ErrNotFound if no trail with that id exists.
	Update(ctx context.Context, id int64, fields domain.TrailFields) (domain.Trail, error)

	// CreateMany inserts all trails in one transaction. Either every row is
	// stored or none is.
	CreateMany(ctx context.Context, trails []domain.Trail) ([]domain.Trail, error)

	// Delete removes a trail by id and returns the removed record.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) (domain.Trail, error)

	// DeleteMatching removes every trail with the given difficulty, or every
	// trail when difficulty is nil, in a single statement.
	// Returns the removed records, or domain.ErrNotFound when nothing matched.
	DeleteMatching(ctx context.Context, difficulty *string) ([]domain.Trail, error)

	// Count returns the number of stored trails.
	Count(ctx context.Context) (int64, error)
}

// sortColumns maps each sortable field to its column. Only these literals are
// ever interpolated into ORDER BY.
var sortColumns = map[domain.SortField]string{
	domain.SortByID:            "id",
	domain.SortByName:          "name",
	domain.SortByLocation:      "location",
	domain.SortByDifficulty:    "difficulty",
	domain.SortByLength:        "length",
	domain.SortByDuration:      "duration",
	domain.SortByElevationGain: "elevation_gain",
	domain.SortByType:          "type",
	domain.SortByCoverPhoto:    "cover_photo",
}

const trailColumns = `id, name, location, difficulty, length, duration, elevation_gain, type, cover_photo`

// pgTrailRepo is the Postgres implementation of TrailRepo.
type pgTrailRepo struct {
	db db
}

// NewTrailRepo constructs a TrailRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx or a pgxmock pool.
func NewTrailRepo(db db) TrailRepo {
	return &pgTrailRepo{db: db}
}

const insertTrail = `
	INSERT INTO trails (name, location, difficulty, length, duration, elevation_gain, type, cover_photo)
	VALUES (@name, @location, @difficulty, @length, @duration, @elevation_gain, @type, @cover_photo)
	RETURNING ` + trailColumns

// Create inserts a new trail row and returns the full persisted record.
func (r *pgTrailRepo) Create(ctx context.Context, trail domain.Trail) (domain.Trail, error) {
	result, err := scanTrail(r.db.QueryRow(ctx, insertTrail, trailArgs(trail)))
	if err != nil {
		return domain.Trail{}, fmt.Errorf("repo.TrailRepo.Create: %w", err)
	}
	return result, nil
}

// CreateMany inserts trails inside one transaction and returns them in input
// order with their assigned ids.
func (r *pgTrailRepo) CreateMany(ctx context.Context, trails []domain.Trail) ([]domain.Trail, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.TrailRepo.CreateMany: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out := make([]domain.Trail, 0, len(trails))
	for _, t := range trails {
		created, err := scanTrail(tx.QueryRow(ctx, insertTrail, trailArgs(t)))
		if err != nil {
			return nil, fmt.Errorf("repo.TrailRepo.CreateMany: %w", err)
		}
		out = append(out, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repo.TrailRepo.CreateMany: commit: %w", err)
	}
	return out, nil
}

// GetByID retrieves a trail by primary key.
func (r *pgTrailRepo) GetByID(ctx context.Context, id int64) (domain.Trail, error) {
	const q = `SELECT ` + trailColumns + ` FROM trails WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrail(row)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("repo.TrailRepo.GetByID: %w", err)
	}
	return result, nil
}

// List builds the filter/sort/limit query from q.
// Without a sort field rows come back in id order.
func (r *pgTrailRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Trail, error) {
	sql, args, err := buildListQuery(q)
	if err != nil {
		return nil, fmt.Errorf("repo.TrailRepo.List: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TrailRepo.List: %w", err)
	}
	defer rows.Close()

	trails := []domain.Trail{}
	for rows.Next() {
		t, err := scanTrail(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TrailRepo.List: scan: %w", err)
		}
		trails = append(trails, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TrailRepo.List: rows: %w", err)
	}

	return trails, nil
}

// buildListQuery renders the SELECT for q. Values travel as named args; the
// ORDER BY column comes from sortColumns only.
func buildListQuery(q domain.ListQuery) (string, pgx.NamedArgs, error) {
	var b strings.Builder
	args := pgx.NamedArgs{}

	b.WriteString(`SELECT ` + trailColumns + ` FROM trails`)
	if q.Difficulty != nil {
		b.WriteString(` WHERE difficulty = @difficulty`)
		args["difficulty"] = *q.Difficulty
	}

	if q.SortBy != "" {
		col, ok := sortColumns[q.SortBy]
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", domain.ErrInvalidField, q.SortBy)
		}
		b.WriteString(` ORDER BY ` + col)
		if col != "id" {
			b.WriteString(`, id`)
		}
	} else {
		b.WriteString(` ORDER BY id`)
	}

	if q.Limit > 0 {
		b.WriteString(` LIMIT @limit`)
		args["limit"] = q.Limit
	}
	return b.String(), args, nil
}

// Update locks the row, applies only the supplied fields, and writes the full
// record back. The deferred rollback releases the transaction on every path;
// after a successful commit it is a no-op.
func (r *pgTrailRepo) Update(ctx context.Context, id int64, fields domain.TrailFields) (domain.Trail, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("repo.TrailRepo.Update: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sel = `SELECT ` + trailColumns + ` FROM trails WHERE id = @id FOR UPDATE`
	current, err := scanTrail(tx.QueryRow(ctx, sel, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trail{}, fmt.Errorf("repo.TrailRepo.Update: %w", err)
	}

	next := fields.Apply(current)

	const upd = `
		UPDATE trails
		SET name           = @name,
		    location       = @location,
		    difficulty     = @difficulty,
		    length         = @length,
		    duration       = @duration,
		    elevation_gain = @elevation_gain,
		    type           = @type,
		    cover_photo    = @cover_photo
		WHERE id = @id
		RETURNING ` + trailColumns

	args := trailArgs(next)
	args["id"] = id
	updated, err := scanTrail(tx.QueryRow(ctx, upd, args))
	if err != nil {
		return domain.Trail{}, fmt.Errorf("repo.TrailRepo.Update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Trail{}, fmt.Errorf("repo.TrailRepo.Update: commit: %w", err)
	}
	return updated, nil
}

// Delete removes a trail by primary key and returns the row as it was.
func (r *pgTrailRepo) Delete(ctx context.Context, id int64) (domain.Trail, error) {
	const q = `DELETE FROM trails WHERE id = @id RETURNING ` + trailColumns

	deleted, err := scanTrail(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trail{}, fmt.Errorf("repo.TrailRepo.Delete: %w", err)
	}
	return deleted, nil
}

// DeleteMatching removes all selected rows in one statement, so either every
// match is removed or none is.
func (r *pgTrailRepo) DeleteMatching(ctx context.Context, difficulty *string) ([]domain.Trail, error) {
	q := `DELETE FROM trails`
	args := pgx.NamedArgs{}
	if difficulty != nil {
		q += ` WHERE difficulty = @difficulty`
		args["difficulty"] = *difficulty
	}
	q += ` RETURNING ` + trailColumns

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TrailRepo.DeleteMatching: %w", err)
	}
	defer rows.Close()

	var deleted []domain.Trail
	for rows.Next() {
		t, err := scanTrail(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TrailRepo.DeleteMatching: scan: %w", err)
		}
		deleted = append(deleted, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TrailRepo.DeleteMatching: %w", err)
	}
	if len(deleted) == 0 {
		return nil, fmt.Errorf("repo.TrailRepo.DeleteMatching: %w", domain.ErrNotFound)
	}
	return deleted, nil
}

// Count returns the number of rows in trails.
func (r *pgTrailRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trails`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TrailRepo.Count: %w", err)
	}
	return n, nil
}

// trailArgs returns the named args for every mutable column of t.
func trailArgs(t domain.Trail) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":           t.Name,
		"location":       t.Location,
		"difficulty":     t.Difficulty,
		"length":         t.Length,
		"duration":       t.Duration,
		"elevation_gain": t.ElevationGain,
		"type":           t.Type,
		"cover_photo":    t.CoverPhoto, // nil becomes NULL
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrail to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrail maps a single database row into a domain.Trail.
// It handles the nullable cover_photo conversion.
func scanTrail(s scanner) (domain.Trail, error) {
	var (
		t     domain.Trail
		cover pgtype.Text
	)

	err := s.Scan(&t.ID, &t.Name, &t.Location, &t.Difficulty, &t.Length,
		&t.Duration, &t.ElevationGain, &t.Type, &cover)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trail{}, domain.ErrNotFound
		}
		return domain.Trail{}, err
	}

	if cover.Valid {
		cp := cover.String
		t.CoverPhoto = &cp
	}
	return t, nil
}
