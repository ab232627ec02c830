package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskchat/models"
)

// PostgresTaskStore implements TaskStore on top of a *sql.DB.
type PostgresTaskStore struct {
	db *sql.DB
}

// NewPostgresTaskStore creates a task store backed by Postgres.
func NewPostgresTaskStore(db *sql.DB) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

const taskColumns = "id, user_id, title, description, completed, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *PostgresTaskStore) Create(ctx context.Context, userID, title, description string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"INSERT INTO tasks (user_id, title, description) VALUES ($1, $2, $3) RETURNING "+taskColumns,
		userID, title, description)
	task, err := scanTask(row)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *PostgresTaskStore) List(ctx context.Context, userID, status, sort string) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = $1"
	switch status {
	case StatusPending:
		query += " AND completed = FALSE"
	case StatusCompleted:
		query += " AND completed = TRUE"
	}
	switch sort {
	case "title":
		query += " ORDER BY title ASC"
	default:
		query += " ORDER BY created_at DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PostgresTaskStore) Get(ctx context.Context, userID string, id int64) (models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *PostgresTaskStore) Update(ctx context.Context, userID string, id int64, upd TaskUpdate) (models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			completed = COALESCE($5, completed),
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns,
		id, userID, upd.Title, upd.Description, upd.Completed)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *PostgresTaskStore) Delete(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
