package httpapi

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Authenticator resolves a bearer token to the identity it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

type UserService interface {
	Authenticator
	Register(ctx context.Context, email, password string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

// TaskService operations all take the owner id of the authenticated caller.
type TaskService interface {
	Create(ctx context.Context, ownerID, title string, description *string) (*models.Task, error)
	List(ctx context.Context, ownerID string) ([]*models.Task, error)
	Get(ctx context.Context, id, ownerID string) (*models.Task, error)
	Update(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id, ownerID string) (*models.Task, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
