package repository

import (
	"context"
	"time"
)

// OverviewCounts are the raw counters behind the public stats overview.
type OverviewCounts struct {
	TotalAnimals     int `json:"totalAnimals"`
	TotalAdoptions   int `json:"totalAdoptions"`
	TotalUsers       int `json:"totalUsers"`
	AvailableAnimals int `json:"availableAnimals"`
	UrgentAnimals    int `json:"urgentAnimals"`
}

// MonthCount is one (year, month) bucket of completed adoptions.
type MonthCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// TypeCount groups listings by animal type.
type TypeCount struct {
	Type    string `json:"type"`
	Total   int    `json:"total"`
	Adopted int    `json:"adopted"`
}

// CityCount groups listings by location city.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// StatsRepository is the read-only aggregation surface over animals/users.
type StatsRepository interface {
	Overview(ctx context.Context) (OverviewCounts, error)
	AdoptionsByMonth(ctx context.Context, since time.Time) ([]MonthCount, error)
	AnimalsByType(ctx context.Context) ([]TypeCount, error)
	TopCities(ctx context.Context, limit int) ([]CityCount, error)
}
