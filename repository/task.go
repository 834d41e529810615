package repository

import (
	"context"

	"github.com/taskflow/backend/domain"
)

// TaskFilter narrows task listings. Status is "active", "completed" or empty
// for all.
type TaskFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}

// TitleMatch selects a task by case-insensitive title substring within one
// user's tasks. When ExcludeCompleted is set, already-completed tasks are
// left out of the match pool.
type TitleMatch struct {
	UserID           string
	Substring        string
	ExcludeCompleted bool
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns tasks newest-created first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	// ListRecent returns up to limit tasks for the user, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	// CompleteByTitleMatch marks the first task matching the title substring
	// as completed and returns it. The match is deterministic for a given
	// store state: newest created wins.
	CompleteByTitleMatch(ctx context.Context, match TitleMatch) (*domain.Task, error)
	Delete(ctx context.Context, userID, id string) error
}
