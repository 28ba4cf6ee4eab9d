package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// TaskService runs task operations on behalf of an authenticated owner. The
// owner id always comes from the caller's verified identity.
type TaskService struct {
	pool        *dbx.Pool
	repomanager repomanager.RepositoryManager
}

func NewTaskService(pool *dbx.Pool, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{pool: pool, repomanager: m}
}

// ValidTitle reports whether title, already trimmed, can be stored.
func ValidTitle(title string) bool {
	return title != "" && utf8.RuneCountInString(title) <= models.TitleMaxLength
}

func (s *TaskService) Create(ctx context.Context, ownerID, title string, description *string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if !ValidTitle(title) {
		return nil, common.ErrorValidation
	}
	description = trimmed(description)

	return dbx.Do(ctx, s.pool, func(ctx context.Context, conn dbx.DBTX) (*models.Task, error) {
		t, err := s.repomanager.Tasks(conn).Create(ctx, ownerID, title, description)
		if err != nil {
			return nil, fmt.Errorf("error creating task: %w", err)
		}
		return t, nil
	})
}

// List returns the owner's tasks newest first.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]*models.Task, error) {
	return dbx.Do(ctx, s.pool, func(ctx context.Context, conn dbx.DBTX) ([]*models.Task, error) {
		return s.repomanager.Tasks(conn).ListByOwner(ctx, ownerID)
	})
}

func (s *TaskService) Get(ctx context.Context, id, ownerID string) (*models.Task, error) {
	return dbx.Do(ctx, s.pool, func(ctx context.Context, conn dbx.DBTX) (*models.Task, error) {
		return s.repomanager.Tasks(conn).FindByID(ctx, id, ownerID)
	})
}

func (s *TaskService) Update(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if !ValidTitle(title) {
			return nil, common.ErrorValidation
		}
		patch.Title = &title
	}
	patch.Description = trimmed(patch.Description)

	return dbx.Do(ctx, s.pool, func(ctx context.Context, conn dbx.DBTX) (*models.Task, error) {
		return s.repomanager.Tasks(conn).Update(ctx, id, ownerID, patch)
	})
}

func (s *TaskService) Delete(ctx context.Context, id, ownerID string) (*models.Task, error) {
	return dbx.Do(ctx, s.pool, func(ctx context.Context, conn dbx.DBTX) (*models.Task, error) {
		return s.repomanager.Tasks(conn).Delete(ctx, id, ownerID)
	})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
