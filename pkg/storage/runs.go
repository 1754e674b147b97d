package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/backuptools/resticsetup/pkg/provision"
)

const (
	runInsertQuery = `
		INSERT INTO runs (
			restic_version, script_path,
			status, failed_stage,
			started_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	runUpdateQuery = `
		UPDATE runs SET
			restic_version = ?, script_path = ?,
			status = ?, failed_stage = ?,
			started_at = ?, finished_at = ?
		WHERE id = ?
	`

	runSelectLatest = `
		SELECT
			id,
			restic_version, script_path,
			status, failed_stage,
			started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT 1
	`
)

// RunRepository keeps the audit trail of provisioning runs.
type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

func (r *RunRepository) Create(ctx context.Context, run provision.Run) (provision.Run, error) {
	stmt, err := r.db.PrepareContext(ctx, runInsertQuery)
	if err != nil {
		return run, err
	}

	res, err := stmt.ExecContext(
		ctx,
		run.ResticVersion, run.ScriptPath,
		run.Status, run.FailedStage,
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return run, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return run, err
	}

	run.Id = id

	return run, nil
}

func (r *RunRepository) Update(ctx context.Context, run provision.Run) error {
	stmt, err := r.db.PrepareContext(ctx, runUpdateQuery)
	if err != nil {
		return err
	}

	_, err = stmt.ExecContext(
		ctx,
		run.ResticVersion, run.ScriptPath,
		run.Status, run.FailedStage,
		run.StartedAt, run.FinishedAt,
		run.Id,
	)

	return err
}

func (r *RunRepository) FindLatest(ctx context.Context) (provision.Run, error) {
	var run provision.Run

	row := r.db.QueryRowContext(ctx, runSelectLatest)

	err := row.Scan(
		&run.Id,
		&run.ResticVersion, &run.ScriptPath,
		&run.Status, &run.FailedStage,
		&run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return run, err
	}

	return run, nil
}

// NopRunRepository is used when the audit database cannot be opened:
// provisioning proceeds without a trail.
type NopRunRepository struct{}

func (NopRunRepository) Create(ctx context.Context, run provision.Run) (provision.Run, error) {
	return run, nil
}

func (NopRunRepository) Update(ctx context.Context, run provision.Run) error {
	return nil
}

func (NopRunRepository) FindLatest(ctx context.Context) (provision.Run, error) {
	return provision.Run{}, errors.New("audit trail is not recorded")
}
