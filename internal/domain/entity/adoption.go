package entity

import (
	"time"
)

// Adoption request statuses. pending and approved count as "active" for the
// one-active-request-per-(animal, adopter) rule.
const (
	AdoptionPending   = "pending"
	AdoptionApproved  = "approved"
	AdoptionCompleted = "completed"
	AdoptionCancelled = "cancelled"
)

// ValidAdoptionStatus reports whether s is a known adoption status value.
func ValidAdoptionStatus(s string) bool {
	switch s {
	case AdoptionPending, AdoptionApproved, AdoptionCompleted, AdoptionCancelled:
		return true
	}
	return false
}

// CanTransitionAdoption validates the request state machine:
// pending -> approved|cancelled, approved -> completed|cancelled,
// completed and cancelled are terminal.
func CanTransitionAdoption(from, to string) bool {
	switch from {
	case AdoptionPending:
		return to == AdoptionApproved || to == AdoptionCancelled
	case AdoptionApproved:
		return to == AdoptionCompleted || to == AdoptionCancelled
	}
	return false
}

// Adoption is a formal, trackable negotiation record, distinct from the
// animal's own status field. Poster is denormalized from the animal at
// creation time and is the only user allowed to transition the status.
type Adoption struct {
	ID             string     `json:"id"`
	AnimalID       string     `json:"animalId"`
	AdopterID      string     `json:"adopterId"`
	PosterID       string     `json:"posterId"`
	Status         string     `json:"status"`
	AdopterMessage string     `json:"adopterMessage,omitempty"`
	AdopterContact string     `json:"adopterContact"`
	AdoptionDate   *time.Time `json:"adoptionDate,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Active reports whether the request still blocks a duplicate for the same
// (animal, adopter) pair.
func (a *Adoption) Active() bool {
	return a.Status == AdoptionPending || a.Status == AdoptionApproved
}
