package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stray2stay/api/internal/domain/repository"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) Overview(ctx context.Context) (repository.OverviewCounts, error) {
	var c repository.OverviewCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM animals),
			(SELECT count(*) FROM animals WHERE status = 'adopted'),
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM animals WHERE status = 'available'),
			(SELECT count(*) FROM animals WHERE urgent AND status = 'available')
	`).Scan(&c.TotalAnimals, &c.TotalAdoptions, &c.TotalUsers, &c.AvailableAnimals, &c.UrgentAnimals)
	return c, err
}

func (r *StatsRepository) AdoptionsByMonth(ctx context.Context, since time.Time) ([]repository.MonthCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM adoption_date)::int,
		       EXTRACT(MONTH FROM adoption_date)::int,
		       count(*)::int
		FROM animals
		WHERE status = 'adopted' AND adoption_date >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.MonthCount, 0, 12)
	for rows.Next() {
		var m repository.MonthCount
		if err := rows.Scan(&m.Year, &m.Month, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *StatsRepository) AnimalsByType(ctx context.Context) ([]repository.TypeCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type,
		       count(*)::int,
		       count(*) FILTER (WHERE status = 'adopted')::int
		FROM animals
		GROUP BY type
		ORDER BY type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.TypeCount, 0, 2)
	for rows.Next() {
		var t repository.TypeCount
		if err := rows.Scan(&t.Type, &t.Total, &t.Adopted); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *StatsRepository) TopCities(ctx context.Context, limit int) ([]repository.CityCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT city, count(*)::int
		FROM animals
		WHERE city <> ''
		GROUP BY city
		ORDER BY count(*) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.CityCount, 0, limit)
	for rows.Next() {
		var c repository.CityCount
		if err := rows.Scan(&c.City, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.StatsRepository = (*StatsRepository)(nil)
