package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stray2stay/api/internal/domain/entity"
	repo "github.com/stray2stay/api/internal/domain/repository"
	"github.com/stray2stay/api/pkg/mailer"
	mailtpl "github.com/stray2stay/api/pkg/mailer/templates"
)

var (
	ErrAdoptionNotFound  = errors.New("adoption not found")
	ErrSelfAdoption      = errors.New("cannot adopt your own listing")
	ErrDuplicateRequest  = errors.New("adoption request already exists")
	ErrNotRequestPoster  = errors.New("only the poster may update this request")
	ErrUnknownStatus     = errors.New("unknown adoption status")
	ErrInvalidTransition = errors.New("invalid adoption status transition")
)

// AdoptionService owns the formal request lifecycle: creation with ordered
// precondition checks, poster-issued status transitions, and the completed
// transition's cross-update of the animal via the shared confirmation
// commit.
type AdoptionService struct {
	Adoptions repo.AdoptionRepository
	Animals   repo.AnimalRepository
	Users     repo.UserRepository
	Notifier  Notifier
	Logger    *logrus.Logger
}

func NewAdoptionService(adoptions repo.AdoptionRepository, animals repo.AnimalRepository,
	users repo.UserRepository, notifier Notifier, logger *logrus.Logger) *AdoptionService {
	return &AdoptionService{Adoptions: adoptions, Animals: animals, Users: users, Notifier: notifier, Logger: logger}
}

// RequestAdoption creates a pending request. Preconditions are checked in
// order, first failure wins: animal exists, not already adopted, not the
// caller's own listing, no active duplicate. The partial unique index on
// (animal, adopter) backstops the duplicate check under concurrency.
func (s *AdoptionService) RequestAdoption(ctx context.Context, adopterID, animalID, message, contactInfo string) (*entity.Adoption, error) {
	animal, err := s.Animals.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, err
	}
	if animal.Adopted() {
		return nil, ErrAlreadyAdopted
	}
	if animal.PosterID == adopterID {
		return nil, ErrSelfAdoption
	}
	if _, err := s.Adoptions.FindActive(ctx, animalID, adopterID); err == nil {
		return nil, ErrDuplicateRequest
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	adoption := &entity.Adoption{
		AnimalID:       animalID,
		AdopterID:      adopterID,
		PosterID:       animal.PosterID,
		AdopterMessage: message,
		AdopterContact: contactInfo,
	}
	if err := s.Adoptions.Create(ctx, adoption); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}

	if poster, err := s.Users.GetByID(ctx, animal.PosterID); err == nil {
		data := map[string]any{
			"Name":       poster.Name,
			"AnimalName": animal.Name,
			"AnimalType": animal.Type,
			"Contact":    contactInfo,
			"Message":    message,
		}
		if adopter, err := s.Users.GetByID(ctx, adopterID); err == nil {
			data["AdopterName"] = adopter.Name
		}
		s.Notifier.Notify(ctx, mailer.EmailJob{To: poster.Email, Template: mailtpl.AdoptionRequest, Data: data})
	}
	return adoption, nil
}

// UpdateStatus transitions a request. Only the denormalized poster may
// call it, and transitions must follow pending -> approved|cancelled,
// approved -> completed|cancelled. Completing a request routes through the
// same transactional animal confirmation as the direct mark-adopted path,
// so the two paths cannot double-apply their side effects.
func (s *AdoptionService) UpdateStatus(ctx context.Context, adoptionID, posterID, newStatus, notes string) (*entity.Adoption, error) {
	adoption, err := s.Adoptions.GetByID(ctx, adoptionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAdoptionNotFound
		}
		return nil, err
	}
	if adoption.PosterID != posterID {
		return nil, ErrNotRequestPoster
	}
	if !entity.ValidAdoptionStatus(newStatus) {
		return nil, ErrUnknownStatus
	}
	if !entity.CanTransitionAdoption(adoption.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if newStatus == entity.AdoptionCompleted {
		err := s.Animals.ConfirmAdoption(ctx, adoption.AnimalID, adoption.AdopterID, now)
		switch {
		case err == nil:
		case errors.Is(err, repo.ErrAlreadyAdopted):
			// The listing already reached its terminal status, typically via
			// the direct mark-adopted path. The request still completes; the
			// shared commit guarantees the adopter counter moved only once.
			if s.Logger != nil {
				s.Logger.WithField("adoption_id", adoption.ID).Info("animal already adopted; completing request only")
			}
		default:
			return nil, err
		}
		adoption.AdoptionDate = &now
	}

	adoption.Status = newStatus
	if notes != "" {
		adoption.Notes = notes
	}
	if err := s.Adoptions.Update(ctx, adoption); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, adoption)
	return adoption, nil
}

func (s *AdoptionService) notifyStatusChange(ctx context.Context, adoption *entity.Adoption) {
	adopter, err := s.Users.GetByID(ctx, adoption.AdopterID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("adoption_id", adoption.ID).Warn("adopter lookup for notification failed")
		}
		return
	}
	data := map[string]any{
		"Name":   adopter.Name,
		"Status": adoption.Status,
		"Notes":  adoption.Notes,
	}
	if animal, err := s.Animals.GetByID(ctx, adoption.AnimalID); err == nil {
		data["AnimalName"] = animal.Name
		data["AnimalType"] = animal.Type
	}
	s.Notifier.Notify(ctx, mailer.EmailJob{To: adopter.Email, Template: mailtpl.AdoptionStatus, Data: data})
}

// ListForUser returns the requests where the caller is adopter or poster,
// newest first.
func (s *AdoptionService) ListForUser(ctx context.Context, userID string) ([]entity.Adoption, error) {
	return s.Adoptions.ListForUser(ctx, userID)
}
