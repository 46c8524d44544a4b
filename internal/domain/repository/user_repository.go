package repository

import (
	"context"

	"github.com/stray2stay/api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error

	// AddRescued adjusts the poster's rescue counter by delta. The stored
	// value is clamped at zero so an out-of-order delete cannot drive it
	// negative.
	AddRescued(ctx context.Context, id string, delta int) error
}
