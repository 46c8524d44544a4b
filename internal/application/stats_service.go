package application

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	repo "github.com/stray2stay/api/internal/domain/repository"
	"github.com/stray2stay/api/pkg/helpers"
)

const statsCacheKey = "stats:platform"

// StatsService is the read-only aggregation surface: overview counters,
// trailing twelve-month adoption buckets, per-type and per-city breakdowns,
// and the reduced map projection. The assembled platform payload is cached
// in Redis for a short TTL.
type StatsService struct {
	Stats   repo.StatsRepository
	Animals repo.AnimalRepository

	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewStatsService(stats repo.StatsRepository, animals repo.AnimalRepository,
	rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *StatsService {
	return &StatsService{Stats: stats, Animals: animals, Redis: rdb, CacheTTL: cacheTTL, Logger: logger}
}

// Overview is the public counter block, including the derived adoption
// rate.
type Overview struct {
	repo.OverviewCounts
	AdoptionRate float64 `json:"adoptionRate"`
}

// Charts are the aggregate breakdowns behind the impact dashboard.
type Charts struct {
	AdoptionsByMonth []repo.MonthCount `json:"adoptionsByMonth"`
	AnimalsByType    []repo.TypeCount  `json:"animalsByType"`
	TopCities        []repo.CityCount  `json:"topCities"`
}

// PlatformStats is the full GET /stats payload.
type PlatformStats struct {
	Overview Overview `json:"overview"`
	Charts   Charts   `json:"charts"`
}

// AdoptionRate returns adopted/total as a percentage rounded to one
// decimal, and 0 when there are no animals.
func AdoptionRate(adopted, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(adopted)/float64(total)*1000) / 10
}

// Platform assembles the overview and charts, serving from the Redis cache
// when a fresh copy exists. Cache failures are logged and ignored.
func (s *StatsService) Platform(ctx context.Context) (*PlatformStats, error) {
	if s.Redis != nil {
		var cached PlatformStats
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsCacheKey, &cached)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stats cache read failed")
		}
		if ok {
			return &cached, nil
		}
	}

	counts, err := s.Stats.Overview(ctx)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, -12, 0)
	byMonth, err := s.Stats.AdoptionsByMonth(ctx, since)
	if err != nil {
		return nil, err
	}
	byType, err := s.Stats.AnimalsByType(ctx)
	if err != nil {
		return nil, err
	}
	cities, err := s.Stats.TopCities(ctx, 10)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{
		Overview: Overview{
			OverviewCounts: counts,
			AdoptionRate:   AdoptionRate(counts.TotalAdoptions, counts.TotalAnimals),
		},
		Charts: Charts{
			AdoptionsByMonth: byMonth,
			AnimalsByType:    byType,
			TopCities:        cities,
		},
	}

	if s.Redis != nil && s.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsCacheKey, stats, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

// MapView returns up to 1000 reduced animal records for map display.
func (s *StatsService) MapView(ctx context.Context, f repo.MapFilter) ([]repo.MapPin, error) {
	return s.Animals.MapPins(ctx, f, 1000)
}
