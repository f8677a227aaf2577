package repository

import (
	"context"
	"errors"
	"fmt"

	"task_manager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusFilter narrows a listing by completion state.
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusPending StatusFilter = "pending"
	StatusDone    StatusFilter = "done"
)

// TaskFilter describes an optional narrowing of a user's task listing. Every
// predicate is combined with the mandatory owner-id equality and bound as a
// query parameter.
type TaskFilter struct {
	Search   string       // case-insensitive substring match on task text
	Status   StatusFilter // zero value means all
	Category string       // "" or "all" means all
}

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, task, category, is_done, due_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.UserID, t.Text, t.Category, t.IsDone, t.DueDate,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByOwner loads a task only when it belongs to userID. A missing row and
// a row owned by someone else both come back as (nil, nil).
func (r *TaskRepository) GetByOwner(ctx context.Context, id, userID int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, task, category, is_done, due_date, created_at
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	var t domain.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Text, &t.Category, &t.IsDone, &t.DueDate, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks
		 SET task = $1, category = $2, due_date = $3
		 WHERE id = $4 AND user_id = $5`,
		t.Text, t.Category, t.DueDate, t.ID, t.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotAuthorized
	}
	return nil
}

func (r *TaskRepository) SetDone(ctx context.Context, id, userID int64, done bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET is_done = $1 WHERE id = $2 AND user_id = $3`,
		done, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotAuthorized
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotAuthorized
	}
	return nil
}

// List returns the user's tasks, newest first, narrowed by the filter.
func (r *TaskRepository) List(ctx context.Context, userID int64, f TaskFilter) ([]*domain.Task, error) {
	sql := `SELECT id, user_id, task, category, is_done, due_date, created_at
	        FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		sql += fmt.Sprintf(" AND task ILIKE $%d", len(args))
	}

	switch f.Status {
	case StatusDone:
		sql += " AND is_done = true"
	case StatusPending:
		sql += " AND is_done = false"
	}

	if f.Category != "" && f.Category != "all" {
		args = append(args, f.Category)
		sql += fmt.Sprintf(" AND category = $%d", len(args))
	}

	sql += " ORDER BY id DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.Category, &t.IsDone, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

// CountSummary returns the user's overall task counts regardless of filter.
func (r *TaskRepository) CountSummary(ctx context.Context, userID int64) (total, done int64, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_done)
		 FROM tasks WHERE user_id = $1`,
		userID,
	).Scan(&total, &done)
	return total, done, err
}
