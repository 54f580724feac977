package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/internal/domain/repository"
	"github.com/oksasatya/tasky/pkg/apperr"
)

const taskColumns = `id, title, description, due_date, priority, status, user_id, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Status,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, "task not found")
		}
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, due_date, priority, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, t.Title, t.Description, t.DueDate, t.Priority, t.Status, t.UserID)
	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// List returns tasks matching f. Priority sorting uses the natural low<medium<high
// order rather than the alphabetical one.
func (r *TaskRepository) List(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	var where []string
	var args []any

	add := func(expr string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(expr, len(args)))
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Priority != "" {
		add("priority = $%d", f.Priority)
	}
	if f.DueDate != "" {
		add("due_date::date = $%d::date", f.DueDate)
	}

	q := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}

	var order []string
	if dir, ok := sortDir(f.SortByPriority); ok {
		order = append(order, `array_position(ARRAY['low','medium','high'], priority) `+dir)
	}
	if dir, ok := sortDir(f.SortByStatus); ok {
		order = append(order, `status `+dir)
	}
	order = append(order, `created_at DESC`)
	q += ` ORDER BY ` + strings.Join(order, ", ")

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		t := &entity.Task{}
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Status,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func sortDir(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "asc":
		return "ASC", true
	case "desc":
		return "DESC", true
	}
	return "", false
}

// Update applies the non-nil fields of upd in one statement.
func (r *TaskRepository) Update(ctx context.Context, id string, upd repository.TaskUpdate) (*entity.Task, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}
	if upd.Title != nil {
		add("title = $%d", *upd.Title)
	}
	if upd.Description != nil {
		add("description = $%d", *upd.Description)
	}
	if upd.DueDate != nil {
		add("due_date = $%d", *upd.DueDate)
	}
	if upd.Priority != nil {
		add("priority = $%d", *upd.Priority)
	}
	if upd.Status != nil {
		add("status = $%d", *upd.Status)
	}

	q := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + taskColumns
	return scanTask(r.pool.QueryRow(ctx, q, args...))
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperr.E(apperr.NotFound, "task not found")
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
