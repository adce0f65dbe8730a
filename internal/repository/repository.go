package repository

import (
	"context"

	"github.com/mkhalal/c-playground/internal/model"
)

// UserRepository is the persistence contract for the account directory.
// Implementations translate storage-level failures into apperror sentinels.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
