// Package tasks provides PostgreSQL-backed task persistence. Every statement
// is filtered by the owning user.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB, *sql.Conn or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t    models.Task
		desc sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	return &t, nil
}

// one scans a single-row result, mapping "no row" to common.ErrorNotFound.
func one(row *sql.Row) (*models.Task, error) {
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ownerID, title string, description *string) (*models.Task, error) {
	query := `INSERT INTO tasks (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING ` + taskColumns

	return one(r.db.QueryRowContext(ctx, query, ownerID, title, description))
}

// ListByOwner returns the owner's tasks newest first. No tasks is an empty
// slice, not nil.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id, ownerID string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE id = $1 AND user_id = $2`

	return one(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// Update applies only the fields present in patch. An empty patch is a plain read.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error) {
	query, args, ok := buildUpdate(id, ownerID, patch)
	if !ok {
		return r.FindByID(ctx, id, ownerID)
	}

	return one(r.db.QueryRowContext(ctx, query, args...))
}

// Delete removes the task and returns it as it was.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) (*models.Task, error) {
	query := `DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	return one(r.db.QueryRowContext(ctx, query, id, ownerID))
}
