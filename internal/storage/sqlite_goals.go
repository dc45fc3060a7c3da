package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

const goalColumns = `id, name, description, frequency, created_at, updated_at, archived_at`

// CreateGoal inserts a goal. A zero UpdatedAt is stored as CreatedAt.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, in Goal) error {
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = in.CreatedAt
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Description, in.Frequency, mustTime(in.CreatedAt), mustTime(in.UpdatedAt), nullTime(in.ArchivedAt),
	)
	return err
}

// UpdateGoal applies patch and stamps updated_at. An empty patch still bumps
// the timestamp.
func (r *SQLiteRepository) UpdateGoal(ctx context.Context, id string, patch GoalPatch, at time.Time) (Goal, error) {
	var out Goal
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		sets := []string{"updated_at = ?"}
		args := []any{mustTime(at)}
		if patch.Name != nil {
			sets = append(sets, "name = ?")
			args = append(args, *patch.Name)
		}
		if patch.Description != nil {
			sets = append(sets, "description = ?")
			args = append(args, *patch.Description)
		}
		if patch.Frequency != nil {
			sets = append(sets, "frequency = ?")
			args = append(args, *patch.Frequency)
		}
		args = append(args, id)
		res, err := tx.ExecContext(ctx, `UPDATE goals SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		out, err = scanGoal(tx.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return Goal{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (Goal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Goal{}, ErrNotFound
		}
		return Goal{}, err
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, filter GoalListFilter) ([]Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	args := make([]any, 0, 2)
	if !filter.IncludeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY created_at ASC, name ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ArchiveGoal(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE goals SET archived_at = ? WHERE id = ?`, mustTime(at), id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM goal_progress WHERE goal_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return checkRowsAffected(res)
	})
}

// RecordProgress stores one entry per goal and date; a second write for the
// same date replaces the first.
func (r *SQLiteRepository) RecordProgress(ctx context.Context, in Progress) error {
	var value any
	if in.Value != nil {
		value = *in.Value
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goal_progress (goal_id, date, completed, auto_detected, value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (goal_id, date) DO UPDATE SET
			completed = excluded.completed,
			auto_detected = excluded.auto_detected,
			value = excluded.value`,
		in.GoalID, in.Date, boolInt(in.Completed), boolInt(in.AutoDetected), value,
	)
	return err
}

func (r *SQLiteRepository) DeleteProgress(ctx context.Context, goalID string, date model.Date) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goal_progress WHERE goal_id = ? AND date = ?`, goalID, date)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ProgressRange returns a goal's entries with start <= date <= end, oldest
// first. ISO dates compare correctly as text.
func (r *SQLiteRepository) ProgressRange(ctx context.Context, goalID string, start, end model.Date) ([]model.GoalProgress, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT goal_id, date, completed, auto_detected, value
		FROM goal_progress
		WHERE goal_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, goalID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.GoalProgress, 0)
	for rows.Next() {
		var p Progress
		var completed, auto int
		var value sql.NullInt64
		if err := rows.Scan(&p.GoalID, &p.Date, &completed, &auto, &value); err != nil {
			return nil, err
		}
		p.Completed = completed == 1
		p.AutoDetected = auto == 1
		if value.Valid {
			v := int(value.Int64)
			p.Value = &v
		}
		out = append(out, p.toModel())
	}
	return out, rows.Err()
}

func scanGoal(s scanner) (Goal, error) {
	var out Goal
	var created, updated string
	var archived sql.NullString
	if err := s.Scan(&out.ID, &out.Name, &out.Description, &out.Frequency, &created, &updated, &archived); err != nil {
		return Goal{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Goal{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Goal{}, err
	}
	archivedAt, err := parseNullableTime(archived)
	if err != nil {
		return Goal{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	out.ArchivedAt = archivedAt
	return out, nil
}
