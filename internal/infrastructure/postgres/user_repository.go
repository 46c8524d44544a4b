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

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, name, phone, location,
	notify_adoption_interest, notify_adoption_confirmed, notify_rescue_updates,
	animals_rescued, animals_adopted, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &u.Location,
		&u.NotificationPreferences.AdoptionInterest,
		&u.NotificationPreferences.AdoptionConfirmed,
		&u.NotificationPreferences.RescueUpdates,
		&u.Stats.AnimalsRescued, &u.Stats.AnimalsAdopted,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, phone, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.Phone, u.Location)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	u.NotificationPreferences = entity.NotificationPreferences{
		AdoptionInterest:  true,
		AdoptionConfirmed: true,
		RescueUpdates:     true,
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, phone = $2, location = $3,
		    notify_adoption_interest = $4, notify_adoption_confirmed = $5, notify_rescue_updates = $6,
		    updated_at = $7
		WHERE id = $8
	`, u.Name, u.Phone, u.Location,
		u.NotificationPreferences.AdoptionInterest,
		u.NotificationPreferences.AdoptionConfirmed,
		u.NotificationPreferences.RescueUpdates,
		u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddRescued(ctx context.Context, id string, delta int) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET animals_rescued = GREATEST(animals_rescued + $1, 0), updated_at = now()
		WHERE id = $2
	`, delta, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
