package entity

import (
	"time"
)

// Animal type/status enums. Values are stored as-is in Postgres and
// double-checked by table constraints.
const (
	TypeDog = "dog"
	TypeCat = "cat"

	StatusAvailable          = "available"
	StatusUnderConsideration = "under_consideration"
	StatusAdopted            = "adopted"
)

// ValidAnimalType reports whether t is a supported animal type.
func ValidAnimalType(t string) bool {
	return t == TypeDog || t == TypeCat
}

// ValidAnimalStatus reports whether s is a supported listing status.
func ValidAnimalStatus(s string) bool {
	return s == StatusAvailable || s == StatusUnderConsideration || s == StatusAdopted
}

// Location is the pickup location of a listed animal. Address and
// coordinates are required at creation; city/state are optional and feed
// the per-city statistics.
type Location struct {
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	City        string      `json:"city,omitempty"`
	State       string      `json:"state,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Animal is a rescue listing. Photos are blob-storage URLs, non-empty at
// creation. Once Status is adopted, AdopterID and AdoptionDate are set and
// the status never reverts.
type Animal struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Breed           string     `json:"breed"`
	Age             string     `json:"age"`
	Gender          string     `json:"gender"`
	Size            string     `json:"size"`
	Color           string     `json:"color"`
	Description     string     `json:"description"`
	SpecialNotes    string     `json:"specialNotes,omitempty"`
	MedicalNeeds    string     `json:"medicalNeeds,omitempty"`
	Photos          []string   `json:"photos"`
	Location        Location   `json:"location"`
	CurrentLocation string     `json:"currentLocation,omitempty"`
	Status          string     `json:"status"`
	Urgent          bool       `json:"urgent"`
	NeedsFoster     bool       `json:"needsFoster"`
	PosterID        string     `json:"postedBy"`
	AdopterID       string     `json:"adoptedBy,omitempty"` // empty until adopted
	AdoptionDate    *time.Time `json:"adoptionDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Adopted reports whether the listing has reached its terminal status.
func (a *Animal) Adopted() bool { return a.Status == StatusAdopted }

// Interest is a non-binding expression of adoption intent, kept in its own
// table keyed by (animal, user) with a uniqueness constraint.
type Interest struct {
	ID          string    `json:"id"`
	AnimalID    string    `json:"animalId"`
	UserID      string    `json:"userId"`
	Message     string    `json:"message,omitempty"`
	ContactInfo string    `json:"contactInfo"`
	CreatedAt   time.Time `json:"createdAt"`
}
