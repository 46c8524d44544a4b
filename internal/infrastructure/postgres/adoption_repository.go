package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stray2stay/api/internal/domain/entity"
	"github.com/stray2stay/api/internal/domain/repository"
)

type AdoptionRepository struct {
	pool *pgxpool.Pool
}

func NewAdoptionRepository(pool *pgxpool.Pool) *AdoptionRepository {
	return &AdoptionRepository{pool: pool}
}

const adoptionColumns = `id, animal_id, adopter_id, poster_id, status,
	adopter_message, adopter_contact, adoption_date, notes, created_at, updated_at`

func scanAdoption(row pgx.Row) (*entity.Adoption, error) {
	a := &entity.Adoption{}
	err := row.Scan(&a.ID, &a.AnimalID, &a.AdopterID, &a.PosterID, &a.Status,
		&a.AdopterMessage, &a.AdopterContact, &a.AdoptionDate, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AdoptionRepository) Create(ctx context.Context, a *entity.Adoption) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO adoptions (animal_id, adopter_id, poster_id, adopter_message, adopter_contact)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`, a.AnimalID, a.AdopterID, a.PosterID, a.AdopterMessage, a.AdopterContact)
	if err := row.Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *AdoptionRepository) GetByID(ctx context.Context, id string) (*entity.Adoption, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+adoptionColumns+` FROM adoptions WHERE id = $1`, id)
	return scanAdoption(row)
}

func (r *AdoptionRepository) Update(ctx context.Context, a *entity.Adoption) error {
	a.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE adoptions
		SET status = $1, notes = $2, adoption_date = $3, updated_at = $4
		WHERE id = $5
	`, a.Status, a.Notes, a.AdoptionDate, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AdoptionRepository) FindActive(ctx context.Context, animalID, adopterID string) (*entity.Adoption, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+adoptionColumns+` FROM adoptions
		WHERE animal_id = $1 AND adopter_id = $2 AND status IN ('pending', 'approved')
	`, animalID, adopterID)
	return scanAdoption(row)
}

func (r *AdoptionRepository) ListForUser(ctx context.Context, userID string) ([]entity.Adoption, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+adoptionColumns+` FROM adoptions
		WHERE adopter_id = $1 OR poster_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	adoptions := make([]entity.Adoption, 0, 8)
	for rows.Next() {
		a, err := scanAdoption(rows)
		if err != nil {
			return nil, err
		}
		adoptions = append(adoptions, *a)
	}
	return adoptions, rows.Err()
}

var _ repository.AdoptionRepository = (*AdoptionRepository)(nil)
