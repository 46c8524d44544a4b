package repository

import (
	"context"
	"time"

	"github.com/stray2stay/api/internal/domain/entity"
)

// ListFilter narrows the animal catalog. Nil pointers leave the dimension
// unconstrained; unknown enum values simply match nothing.
type ListFilter struct {
	Type        string
	Status      string
	Urgent      *bool
	NeedsFoster *bool
}

// MapFilter is the reduced filter for the map projection.
type MapFilter struct {
	Type   string
	Status string
}

// MapPin is the reduced payload returned for map display density.
type MapPin struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Name        string          `json:"name"`
	Location    entity.Location `json:"location"`
	Photos      []string        `json:"photos"`
	Urgent      bool            `json:"urgent"`
	NeedsFoster bool            `json:"needsFoster"`
}

// AnimalRepository owns animal rows, their interest rows, and the
// transactional adoption confirmation that touches animals and users
// together.
type AnimalRepository interface {
	Create(ctx context.Context, a *entity.Animal) error
	GetByID(ctx context.Context, id string) (*entity.Animal, error)
	Update(ctx context.Context, a *entity.Animal) error
	Delete(ctx context.Context, id string) error

	// List returns one page ordered urgent first, then newest first,
	// plus the total row count for the filter.
	List(ctx context.Context, f ListFilter, offset, limit int) ([]entity.Animal, int, error)
	ListByPoster(ctx context.Context, posterID string, offset, limit int) ([]entity.Animal, int, error)
	ListAdoptedBy(ctx context.Context, adopterID string, offset, limit int) ([]entity.Animal, int, error)

	// AddInterest inserts an interest row; ErrDuplicate when the user has
	// already expressed interest in this animal.
	AddInterest(ctx context.Context, in *entity.Interest) error
	ListInterests(ctx context.Context, animalID string) ([]entity.Interest, error)

	// ConfirmAdoption is the single authoritative adoption commit: in one
	// transaction it marks the animal adopted, records the adopter and date,
	// and increments the adopter's adopted counter. ErrAlreadyAdopted when
	// the animal is no longer available, so concurrent confirmation paths
	// cannot double-apply.
	ConfirmAdoption(ctx context.Context, animalID, adopterID string, when time.Time) error

	MapPins(ctx context.Context, f MapFilter, limit int) ([]MapPin, error)
}
