package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

var _ ports.ResultStore = (*Store)(nil)

const runColumns = `id, model_name, space_code, space_name,
	transmittance, grid_size, plane_height, sky_lux, nx, ny,
	min_lux, max_lux, mean_lux, median_lux,
	df_share, target_df, passed,
	engine_name, engine_version, error, started_at, finished_at`

// SaveRun inserts a run and its points in one transaction. A missing ID
// is generated; the final ID is returned.
func (s *Store) SaveRun(ctx context.Context, rec domain.RunRecord, points []domain.RunPoint) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", s.opErr("resultstore.save", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ModelName, rec.SpaceCode, rec.SpaceName,
		rec.Params.Transmittance, rec.Params.GridSize, rec.Params.PlaneHeight, rec.Params.SkyLux,
		rec.NX, rec.NY,
		rec.Stats.Min, rec.Stats.Max, rec.Stats.Mean, rec.Stats.Median,
		rec.DFShare, rec.TargetDF, boolToInt(rec.Passed),
		rec.Engine.Name, rec.Engine.Version, rec.Error,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", s.opErr("resultstore.save", err)
	}

	if len(points) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_points (run_id, idx, x, y, lux) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return "", s.opErr("resultstore.save", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.ExecContext(ctx, rec.ID, p.Idx, p.X, p.Y, p.Lux); err != nil {
				return "", s.opErr("resultstore.save", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", s.opErr("resultstore.save", err)
	}
	return rec.ID, nil
}

// GetRun retrieves a run by ID. Unique ID prefixes match too, so short
// IDs from listings work.
func (s *Store) GetRun(ctx context.Context, id string) (domain.RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.RunRecord{}, s.opErr("resultstore.get", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? LIMIT 2`, id+"%")
	if err != nil {
		return domain.RunRecord{}, s.opErr("resultstore.get", err)
	}
	defer rows.Close()

	var matches []domain.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return domain.RunRecord{}, s.opErr("resultstore.get", err)
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.RunRecord{}, s.opErr("resultstore.get", err)
	}

	if len(matches) != 1 {
		return domain.RunRecord{}, &domain.OpError{
			Op:   "resultstore.get",
			Kind: domain.KindNotFound,
			Path: s.path,
			Err:  fmt.Errorf("run %q: %w", id, domain.ErrNotFound),
		}
	}
	return matches[0], nil
}

// ListRuns returns runs most recent first, optionally filtered by space.
func (s *Store) ListRuns(ctx context.Context, f domain.RunFilter) ([]domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if f.SpaceCode != "" {
		query += ` WHERE space_code = ? COLLATE NOCASE`
		args = append(args, f.SpaceCode)
	}
	query += ` ORDER BY started_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.opErr("resultstore.list", err)
	}
	defer rows.Close()

	var out []domain.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, s.opErr("resultstore.list", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.opErr("resultstore.list", err)
	}
	return out, nil
}

// GetPoints returns the per-sensor readings of a run in grid order.
func (s *Store) GetPoints(ctx context.Context, id string) ([]domain.RunPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, x, y, lux FROM run_points WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, s.opErr("resultstore.points", err)
	}
	defer rows.Close()

	var out []domain.RunPoint
	for rows.Next() {
		var p domain.RunPoint
		if err := rows.Scan(&p.Idx, &p.X, &p.Y, &p.Lux); err != nil {
			return nil, s.opErr("resultstore.points", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.opErr("resultstore.points", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (domain.RunRecord, error) {
	var rec domain.RunRecord
	var passed int
	var startedAt, finished string

	err := row.Scan(
		&rec.ID, &rec.ModelName, &rec.SpaceCode, &rec.SpaceName,
		&rec.Params.Transmittance, &rec.Params.GridSize, &rec.Params.PlaneHeight, &rec.Params.SkyLux,
		&rec.NX, &rec.NY,
		&rec.Stats.Min, &rec.Stats.Max, &rec.Stats.Mean, &rec.Stats.Median,
		&rec.DFShare, &rec.TargetDF, &passed,
		&rec.Engine.Name, &rec.Engine.Version, &rec.Error,
		&startedAt, &finished,
	)
	if err != nil {
		return domain.RunRecord{}, err
	}

	rec.Passed = passed != 0
	if t, perr := time.Parse(time.RFC3339Nano, startedAt); perr == nil {
		rec.StartedAt = t
	}
	if t, perr := time.Parse(time.RFC3339Nano, finished); perr == nil {
		rec.FinishedAt = t
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) opErr(op string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindExecution,
		Path: s.path,
		Err:  err,
	}
}
