package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`

	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
	Stats                   UserStats               `json:"stats"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotificationPreferences controls which lifecycle events produce an email.
type NotificationPreferences struct {
	AdoptionInterest  bool `json:"adoptionInterest"`
	AdoptionConfirmed bool `json:"adoptionConfirmed"`
	RescueUpdates     bool `json:"rescueUpdates"`
}

// UserStats mirrors the rescue/adoption counters mutated by listing and
// adoption workflow side effects.
type UserStats struct {
	AnimalsRescued int `json:"animalsRescued"`
	AnimalsAdopted int `json:"animalsAdopted"`
}
