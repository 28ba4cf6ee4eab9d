package tasks

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository is the owner-scoped task store. Every method takes the owner id;
// a row that exists under another owner behaves exactly like a missing one
// (common.ErrorNotFound).
type Repository interface {
	Create(ctx context.Context, ownerID, title string, description *string) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	FindByID(ctx context.Context, id, ownerID string) (*models.Task, error)
	Update(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id, ownerID string) (*models.Task, error)
}
