package repository

import (
	"context"

	"github.com/stray2stay/api/internal/domain/entity"
)

// AdoptionRepository owns the formal adoption request records.
type AdoptionRepository interface {
	// Create inserts a pending request; ErrDuplicate when an active
	// (pending or approved) request already exists for the pair.
	Create(ctx context.Context, a *entity.Adoption) error
	GetByID(ctx context.Context, id string) (*entity.Adoption, error)
	Update(ctx context.Context, a *entity.Adoption) error

	// FindActive returns the pending/approved request for the pair, or
	// ErrNotFound.
	FindActive(ctx context.Context, animalID, adopterID string) (*entity.Adoption, error)

	// ListForUser returns requests where the user is adopter or poster,
	// newest first.
	ListForUser(ctx context.Context, userID string) ([]entity.Adoption, error)
}
