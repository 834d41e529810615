package repository

import (
	"context"

	"github.com/taskflow/backend/domain"
)

// UserRepository is the user directory: accounts are registered via Upsert,
// resolved by email on login, and enumerable for admin tooling. It replaces
// any ambient account index; callers always go through an injected instance.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}
