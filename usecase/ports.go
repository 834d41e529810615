package usecase

import (
	"context"

	"github.com/taskflow/backend/domain"
)

// Buffered operation kinds, mirrored by the buffer store.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the write-behind buffer so use cases stay
// storage-agnostic.
type OperationBuffer interface {
	BufferUser(ctx context.Context, operation string, user *domain.User) error
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
}

// Enhancer is the external enrichment collaborator: it rewrites a task title
// into a richer title, description and step list. Implementations may fail
// or time out; callers substitute domain.FallbackEnhancement and proceed.
type Enhancer interface {
	Enhance(ctx context.Context, title string) (*domain.Enhancement, error)
}
