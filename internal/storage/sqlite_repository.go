package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/tasktrack/internal/model"
	"go.uber.org/zap"
)

// Times keep their UTC offset so a completion stamped late in the evening
// still falls on the same local day after a reload.
const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	log *zap.Logger
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	// One connection keeps PRAGMAs and transactions on the same handle.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db, log: zap.NewNop()}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) SetLogger(l *zap.Logger) {
	if l != nil {
		r.log = l
	}
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const taskColumns = `id, title, description, status, priority, due_date, due_time, project, parent_task_id, position, created_at, updated_at, completed_at`

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return insertTask(ctx, tx, in)
	})
}

func insertTask(ctx context.Context, q querier, in Task) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, in.Status, in.Priority, in.DueDate, in.DueTime, in.Project, in.ParentTaskID,
		in.Position, mustTime(in.CreatedAt), mustTime(in.UpdatedAt), nullTime(in.CompletedAt),
	)
	if err != nil {
		return err
	}
	return writeTaskChildren(ctx, q, in)
}

func writeTaskChildren(ctx context.Context, q querier, in Task) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, in.ID); err != nil {
		return err
	}
	for _, tag := range in.Tags {
		if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO task_tags (task_id, tag) VALUES (?, ?)`, in.ID, tag); err != nil {
			return err
		}
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM task_recurrences WHERE task_id = ?`, in.ID); err != nil {
		return err
	}
	if rec := in.Recurrence; rec != nil {
		_, err := q.ExecContext(ctx, `
			INSERT INTO task_recurrences (task_id, rule_type, interval_value, days_of_week, day_of_month, end_date)
			VALUES (?, ?, ?, ?, ?, ?)`,
			in.ID, rec.RuleType, rec.IntervalValue, rec.DaysOfWeek, rec.DayOfMonth, rec.EndDate,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	out := []Task{task}
	if err := attachChildren(ctx, r.db, out, `WHERE task_id = ?`, id); err != nil {
		return Task{}, err
	}
	return out[0], nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks
			SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, due_time = ?, project = ?,
				parent_task_id = ?, position = ?, updated_at = ?, completed_at = ?
			WHERE id = ?`,
			in.Title, in.Description, in.Status, in.Priority, in.DueDate, in.DueTime, in.Project,
			in.ParentTaskID, in.Position, mustTime(in.UpdatedAt), nullTime(in.CompletedAt), in.ID,
		)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		return writeTaskChildren(ctx, tx, in)
	})
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteTaskChildren(ctx, tx, `WHERE task_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return checkRowsAffected(res)
	})
}

func deleteTaskChildren(ctx context.Context, q querier, where string, args ...any) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM task_tags `+where, args...); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, `DELETE FROM task_recurrences `+where, args...)
	return err
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	return listTasks(ctx, r.db, filter)
}

func listTasks(ctx context.Context, q querier, filter TaskListFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Project != "" {
		clauses = append(clauses, "project = ?")
		args = append(args, filter.Project)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY position ASC, created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, scanErr
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	if err := attachChildren(ctx, q, out, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// attachChildren loads tags and recurrences for tasks in two queries.
func attachChildren(ctx context.Context, q querier, tasks []Task, where string, args ...any) error {
	if len(tasks) == 0 {
		return nil
	}
	index := make(map[string]int, len(tasks))
	for i := range tasks {
		index[tasks[i].ID] = i
		tasks[i].Tags = []string{}
	}

	tagRows, err := q.QueryContext(ctx, `SELECT task_id, tag FROM task_tags `+where+` ORDER BY tag ASC`, args...)
	if err != nil {
		return err
	}
	for tagRows.Next() {
		var taskID, tag string
		if err := tagRows.Scan(&taskID, &tag); err != nil {
			_ = tagRows.Close()
			return err
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Tags = append(tasks[i].Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		_ = tagRows.Close()
		return err
	}
	_ = tagRows.Close()

	recRows, err := q.QueryContext(ctx, `
		SELECT task_id, rule_type, interval_value, days_of_week, day_of_month, end_date
		FROM task_recurrences `+where, args...)
	if err != nil {
		return err
	}
	defer recRows.Close()
	for recRows.Next() {
		var rec RecurrenceRule
		if err := recRows.Scan(&rec.TaskID, &rec.RuleType, &rec.IntervalValue, &rec.DaysOfWeek, &rec.DayOfMonth, &rec.EndDate); err != nil {
			return err
		}
		if i, ok := index[rec.TaskID]; ok {
			rc := rec
			tasks[i].Recurrence = &rc
		}
	}
	return recRows.Err()
}

// Load returns the persisted tasks in collection order plus the app state.
func (r *SQLiteRepository) Load(ctx context.Context) (Snapshot, error) {
	rows, err := r.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		return Snapshot{}, fmt.Errorf("load tasks: %w", err)
	}
	state, err := r.LoadAppState(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load app state: %w", err)
	}
	out := Snapshot{Tasks: make([]model.Task, 0, len(rows)), AppState: state}
	for _, row := range rows {
		out.Tasks = append(out.Tasks, row.toModel())
	}
	return out, nil
}

// SaveTasks replaces the stored collection with tasks in one transaction.
func (r *SQLiteRepository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteTaskChildren(ctx, tx, ""); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return err
		}
		for i, t := range tasks {
			if err := insertTask(ctx, tx, taskFromModel(t, i)); err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Debug("tasks saved", zap.Int("count", len(tasks)))
	return nil
}

func (r *SQLiteRepository) LoadAppState(ctx context.Context) (AppState, error) {
	state := DefaultAppState()
	var enabled int
	err := r.db.QueryRowContext(ctx, `
		SELECT current_view, notifications_enabled, last_reminder_date FROM app_state WHERE id = 1`,
	).Scan(&state.CurrentView, &enabled, &state.LastReminderDate)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultAppState(), nil
	}
	if err != nil {
		return AppState{}, err
	}
	state.NotificationsEnabled = enabled == 1
	return state, nil
}

func (r *SQLiteRepository) SaveAppState(ctx context.Context, state AppState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_state (id, current_view, notifications_enabled, last_reminder_date)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			current_view = excluded.current_view,
			notifications_enabled = excluded.notifications_enabled,
			last_reminder_date = excluded.last_reminder_date`,
		state.CurrentView, boolInt(state.NotificationsEnabled), state.LastReminderDate,
	)
	return err
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	clause := ""
	if limit > 0 {
		clause += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			clause += " LIMIT -1"
		}
		clause += " OFFSET ?"
		*args = append(*args, offset)
	}
	return clause
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var created, updated string
	var completed sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Status, &out.Priority, &out.DueDate, &out.DueTime,
		&out.Project, &out.ParentTaskID, &out.Position, &created, &updated, &completed); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Task{}, err
	}
	completedAt, err := parseNullableTime(completed)
	if err != nil {
		return Task{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	out.CompletedAt = completedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
