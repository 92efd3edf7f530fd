package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/tarefas-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
)

type TaskRepo struct { // Репозиторий поверх pgx, SQL написан вручную
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

const taskColumns = `id, titulo, descricao, data, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t      model.Task
		status int
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &status); err != nil {
		return t, err
	}
	t.Status = model.Status(status)
	t.DueDate = t.DueDate.UTC()
	return t, nil
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tarefas (titulo, descricao, data, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns,
		t.Title, t.Description, t.DueDate.UTC(), int(t.Status),
	))
	if err != nil {
		return t, r.mapError("create task", err)
	}
	return created, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tarefas
		WHERE id = $1
	`, id))
	if err != nil {
		return t, r.mapError("get task", err)
	}
	return t, nil
}

func (r *TaskRepo) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tarefas
		WHERE ($1::text IS NULL OR strpos(titulo, $1) > 0)
		  AND ($2::timestamp IS NULL OR (data >= $2 AND data < $3::timestamp))
		  AND ($4::int IS NULL OR status = $4)
		ORDER BY id
	`

	var dayStart, dayEnd *time.Time
	if filter.DueOn != nil {
		start, end := model.DayRange(*filter.DueOn)
		dayStart, dayEnd = &start, &end
	}

	var status *int
	if filter.Status != nil {
		s := int(*filter.Status)
		status = &s
	}

	rows, err := r.pool.Query(ctx, query, filter.TitleContains, dayStart, dayEnd, status)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update перезаписывает только titulo, descricao и data. Статус не меняется.
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tarefas
		SET titulo = $2, descricao = $3, data = $4
		WHERE id = $1
		RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, t.DueDate.UTC(),
	))
	if err != nil {
		return t, r.mapError("update task", err)
	}
	return updated, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tarefas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (%s): %w", op, pgErr.Message, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
